package staff

import "context"

type Repository interface {
	// UpsertAccount inserts the account or refreshes email, name and last login.
	UpsertAccount(ctx context.Context, account *Account) error
	GetAccount(ctx context.Context, userID string) (*Account, error)
	LinkMember(ctx context.Context, userID string, memberID *string) (bool, error)
	MemberExists(ctx context.Context, id string) (bool, error)
}
