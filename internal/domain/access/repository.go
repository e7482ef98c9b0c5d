package access

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// LockEmail serializes submissions for one email until the transaction ends.
	LockEmail(ctx context.Context, email string) error
	PendingExists(ctx context.Context, email string) (bool, error)
	CreateRequest(ctx context.Context, request *Request) error
	ListRequests(ctx context.Context, filter ListFilter) ([]Request, int64, error)
	MarkProcessed(ctx context.Context, id string) (bool, error)
}
