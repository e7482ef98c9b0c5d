package finance

import "context"

type Repository interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]TransactionWithMember, int64, error)
	TransactionTotals(ctx context.Context, filter TransactionFilter) (Totals, error)
	RecentTransactions(ctx context.Context, memberID string, limit int) ([]Transaction, error)
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	CreateTransaction(ctx context.Context, transaction *Transaction) error
	DeleteTransaction(ctx context.Context, id string) (bool, error)

	ListDonations(ctx context.Context, filter DonationFilter) ([]DonationWithMember, int64, error)
	RecentDonations(ctx context.Context, memberID string, limit int) ([]MaterialDonation, error)
	GetDonation(ctx context.Context, id string) (*MaterialDonation, error)
	CreateDonation(ctx context.Context, donation *MaterialDonation) error
	UpdateDonation(ctx context.Context, donation *MaterialDonation) error

	MemberExists(ctx context.Context, id string) (bool, error)
}
