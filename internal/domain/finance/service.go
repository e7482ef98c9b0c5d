package finance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"parish-app-go/internal/domain/listing"

	"github.com/google/uuid"
)

const (
	TransactionPageSize = 25
	DonationPageSize    = 20

	recentTransactions = 10
	recentDonations    = 5
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type TransactionPage struct {
	Items  []TransactionWithMember
	Page   listing.PageInfo
	Totals Totals
}

// ListTransactions returns one page of transactions, newest first, plus the
// offering and expense totals over the whole filtered set.
func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter, page int) (TransactionPage, error) {
	if err := validateTransactionFilter(filter); err != nil {
		return TransactionPage{}, err
	}

	items, info, err := listing.Fetch(page, TransactionPageSize, func(limit, offset int) ([]TransactionWithMember, int64, error) {
		filter.Limit, filter.Offset = limit, offset
		return s.repo.ListTransactions(ctx, filter)
	})
	if err != nil {
		return TransactionPage{}, err
	}

	totals, err := s.repo.TransactionTotals(ctx, filter)
	if err != nil {
		return TransactionPage{}, err
	}
	return TransactionPage{Items: items, Page: info, Totals: totals}, nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) CreateTransaction(ctx context.Context, input TransactionInput) (*Transaction, error) {
	if input.OccurredAt.IsZero() {
		input.OccurredAt = s.now()
	}
	if err := validateTransaction(input); err != nil {
		return nil, err
	}
	if input.MemberID != nil {
		if err := s.requireMember(ctx, *input.MemberID); err != nil {
			return nil, err
		}
	}

	transaction := Transaction{
		ID:              uuid.NewString(),
		Type:            input.Type,
		Amount:          roundCents(input.Amount),
		OccurredAt:      input.OccurredAt,
		Description:     input.Description,
		MemberID:        input.MemberID,
		ExpenseCategory: input.ExpenseCategory,
	}
	if err := s.repo.CreateTransaction(ctx, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *Service) ListDonations(ctx context.Context, filter DonationFilter, page int) ([]DonationWithMember, listing.PageInfo, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, listing.PageInfo{}, fmt.Errorf("%w: donation status %q", ErrInvalidInput, filter.Status)
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return listing.Fetch(page, DonationPageSize, func(limit, offset int) ([]DonationWithMember, int64, error) {
		filter.Limit, filter.Offset = limit, offset
		return s.repo.ListDonations(ctx, filter)
	})
}

func (s *Service) CreateDonation(ctx context.Context, input DonationInput) (*MaterialDonation, error) {
	if input.Status == "" {
		input.Status = DonationReceived
	}
	if input.DonatedAt.IsZero() {
		input.DonatedAt = s.now()
	}
	if err := validateDonation(input); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, input.MemberID); err != nil {
		return nil, err
	}

	donation := MaterialDonation{
		ID:             uuid.NewString(),
		MemberID:       input.MemberID,
		Description:    strings.TrimSpace(input.Description),
		EstimatedValue: input.EstimatedValue,
		DonatedAt:      input.DonatedAt,
		Status:         input.Status,
	}
	if donation.EstimatedValue != nil {
		rounded := roundCents(*donation.EstimatedValue)
		donation.EstimatedValue = &rounded
	}
	if err := s.repo.CreateDonation(ctx, &donation); err != nil {
		return nil, err
	}
	return &donation, nil
}

func (s *Service) UpdateDonationStatus(ctx context.Context, id string, status DonationStatus) (*MaterialDonation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: donation status %q", ErrInvalidInput, status)
	}
	donation, err := s.repo.GetDonation(ctx, id)
	if err != nil {
		return nil, err
	}
	donation.Status = status
	if err := s.repo.UpdateDonation(ctx, donation); err != nil {
		return nil, err
	}
	return donation, nil
}

// MemberActivity is the financial history shown on a member's page.
type MemberActivity struct {
	Transactions []Transaction
	Donations    []MaterialDonation
}

func (s *Service) MemberActivity(ctx context.Context, memberID string) (MemberActivity, error) {
	transactions, err := s.repo.RecentTransactions(ctx, memberID, recentTransactions)
	if err != nil {
		return MemberActivity{}, err
	}
	donations, err := s.repo.RecentDonations(ctx, memberID, recentDonations)
	if err != nil {
		return MemberActivity{}, err
	}
	return MemberActivity{Transactions: transactions, Donations: donations}, nil
}

func (s *Service) requireMember(ctx context.Context, id string) error {
	ok, err := s.repo.MemberExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMemberNotFound
	}
	return nil
}

func validateTransactionFilter(filter TransactionFilter) error {
	if filter.Type != "" && !filter.Type.Valid() {
		return fmt.Errorf("%w: transaction type %q", ErrInvalidInput, filter.Type)
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return fmt.Errorf("%w: expense category %q", ErrInvalidInput, filter.Category)
	}
	return nil
}

func validateTransaction(input TransactionInput) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: transaction type %q", ErrInvalidInput, input.Type)
	}
	if input.Amount <= 0 || math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if input.Amount >= 1e8 {
		return fmt.Errorf("%w: amount exceeds 99999999.99", ErrInvalidInput)
	}
	if input.ExpenseCategory != nil {
		if input.Type != TypeExpense {
			return fmt.Errorf("%w: expense category only applies to expenses", ErrInvalidInput)
		}
		if !input.ExpenseCategory.Valid() {
			return fmt.Errorf("%w: expense category %q", ErrInvalidInput, *input.ExpenseCategory)
		}
	}
	return nil
}

func validateDonation(input DonationInput) error {
	if strings.TrimSpace(input.MemberID) == "" {
		return fmt.Errorf("%w: member is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if input.EstimatedValue != nil && *input.EstimatedValue < 0 {
		return fmt.Errorf("%w: estimated value must not be negative", ErrInvalidInput)
	}
	if !input.Status.Valid() {
		return fmt.Errorf("%w: donation status %q", ErrInvalidInput, input.Status)
	}
	return nil
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
