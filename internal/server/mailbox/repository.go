package mailbox

import "context"

// Repository persists message records scoped under their recipient's account.
//
// Put returns common.ErrorNotFound when the recipient has no account and
// silently overwrites an existing record with the same identifier (last
// writer wins). List returns common.ErrorNotFound for unknown users; Get
// returns it for unknown identifiers.
type Repository interface {
	Put(ctx context.Context, recipient, id, content string) error
	List(ctx context.Context, username string) ([]string, error)
	Get(ctx context.Context, username, id string) (string, error)
}
