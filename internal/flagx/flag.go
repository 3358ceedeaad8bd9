// Package flagx lets each component parse only the command-line flags it
// owns: the argument list is filtered down to a known set before it reaches
// flag.Parse, so flags belonging to other components never cause errors.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the arguments belonging to the flags named in
// allowed. Both "-f value" and "-f=value" forms are recognized; for the
// separate form the following argument is kept as the value unless it starts
// with a dash.
func FilterArgs(args []string, allowed []string) []string {
	known := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		known[name] = true
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if known[name] {
				kept = append(kept, arg)
			}
			continue
		}

		if !known[arg] {
			continue
		}
		kept = append(kept, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			kept = append(kept, args[i])
		}
	}
	return kept
}

// JsonConfigFlags returns the config file path given via -c or -config, or
// an empty string when neither flag is present. Any other flags on the
// command line are ignored here and left for the component's own flag set.
func JsonConfigFlags() string {
	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	var path string
	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to a JSON config file")
	fs.StringVar(&path, "c", "", "path to a JSON config file (shorthand)")
	_ = fs.Parse(args)

	return path
}
