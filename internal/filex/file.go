// Package filex holds small filesystem helpers shared by the server.
package filex

import (
	"fmt"
	"os"
)

// EnsureDir creates dir (and any missing parents) if it does not exist and
// returns the path unchanged.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}
