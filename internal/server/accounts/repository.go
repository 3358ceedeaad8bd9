package accounts

import (
	"context"
)

// Repository persists account records. Implementations return
// common.ErrorAlreadyExists from Create and common.ErrorNotFound from Get.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	Get(ctx context.Context, username string) (*Account, error)
	List(ctx context.Context) ([]string, error)
}
