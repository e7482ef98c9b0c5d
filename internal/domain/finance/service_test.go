package finance

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinanceRepo struct {
	members      map[string]string
	transactions map[string]Transaction
	donations    map[string]MaterialDonation
}

func newFakeFinanceRepo() *fakeFinanceRepo {
	return &fakeFinanceRepo{
		members:      map[string]string{"m-1": "Jean Ndayishimiye", "m-2": "Aline Iradukunda"},
		transactions: make(map[string]Transaction),
		donations:    make(map[string]MaterialDonation),
	}
}

func (r *fakeFinanceRepo) filtered(filter TransactionFilter) []Transaction {
	var result []Transaction
	for _, item := range r.transactions {
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if filter.Category != "" && (item.ExpenseCategory == nil || *item.ExpenseCategory != filter.Category) {
			continue
		}
		if filter.MemberID != "" && (item.MemberID == nil || *item.MemberID != filter.MemberID) {
			continue
		}
		if filter.From != nil && item.OccurredAt.Before(*filter.From) {
			continue
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.After(result[j].OccurredAt) })
	return result
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (r *fakeFinanceRepo) ListTransactions(_ context.Context, filter TransactionFilter) ([]TransactionWithMember, int64, error) {
	all := r.filtered(filter)
	result := make([]TransactionWithMember, 0, len(all))
	for _, item := range page(all, filter.Limit, filter.Offset) {
		row := TransactionWithMember{Transaction: item}
		if item.MemberID != nil {
			name := r.members[*item.MemberID]
			row.MemberName = &name
		}
		result = append(result, row)
	}
	return result, int64(len(all)), nil
}

func (r *fakeFinanceRepo) TransactionTotals(_ context.Context, filter TransactionFilter) (Totals, error) {
	var totals Totals
	for _, item := range r.filtered(filter) {
		switch item.Type {
		case TypeOffering:
			totals.Offerings += item.Amount
		case TypeExpense:
			totals.Expenses += item.Amount
		}
	}
	return totals, nil
}

func (r *fakeFinanceRepo) RecentTransactions(_ context.Context, memberID string, limit int) ([]Transaction, error) {
	return page(r.filtered(TransactionFilter{MemberID: memberID}), limit, 0), nil
}

func (r *fakeFinanceRepo) GetTransaction(_ context.Context, id string) (*Transaction, error) {
	item, ok := r.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return &item, nil
}

func (r *fakeFinanceRepo) CreateTransaction(_ context.Context, transaction *Transaction) error {
	r.transactions[transaction.ID] = *transaction
	return nil
}

func (r *fakeFinanceRepo) DeleteTransaction(_ context.Context, id string) (bool, error) {
	if _, ok := r.transactions[id]; !ok {
		return false, nil
	}
	delete(r.transactions, id)
	return true, nil
}

func (r *fakeFinanceRepo) ListDonations(_ context.Context, filter DonationFilter) ([]DonationWithMember, int64, error) {
	var all []DonationWithMember
	for _, item := range r.donations {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.MemberID != "" && item.MemberID != filter.MemberID {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(item.Description), strings.ToLower(filter.Query)) {
			continue
		}
		all = append(all, DonationWithMember{MaterialDonation: item, MemberName: r.members[item.MemberID]})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DonatedAt.After(all[j].DonatedAt) })
	return page(all, filter.Limit, filter.Offset), int64(len(all)), nil
}

func (r *fakeFinanceRepo) RecentDonations(_ context.Context, memberID string, limit int) ([]MaterialDonation, error) {
	var result []MaterialDonation
	for _, item := range r.donations {
		if item.MemberID == memberID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DonatedAt.After(result[j].DonatedAt) })
	return page(result, limit, 0), nil
}

func (r *fakeFinanceRepo) GetDonation(_ context.Context, id string) (*MaterialDonation, error) {
	item, ok := r.donations[id]
	if !ok {
		return nil, ErrDonationNotFound
	}
	return &item, nil
}

func (r *fakeFinanceRepo) CreateDonation(_ context.Context, donation *MaterialDonation) error {
	r.donations[donation.ID] = *donation
	return nil
}

func (r *fakeFinanceRepo) UpdateDonation(_ context.Context, donation *MaterialDonation) error {
	r.donations[donation.ID] = *donation
	return nil
}

func (r *fakeFinanceRepo) MemberExists(_ context.Context, id string) (bool, error) {
	_, ok := r.members[id]
	return ok, nil
}

func ptr[T any](value T) *T {
	return &value
}

var baseTime = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func TestCreateTransactionValidation(t *testing.T) {
	svc := NewService(newFakeFinanceRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		input TransactionInput
		want  error
	}{
		{name: "unknown type", input: TransactionInput{Type: "tithe", Amount: 10}, want: ErrInvalidInput},
		{name: "zero amount", input: TransactionInput{Type: TypeOffering, Amount: 0}, want: ErrInvalidInput},
		{name: "category on offering", input: TransactionInput{Type: TypeOffering, Amount: 10, ExpenseCategory: ptr(ExpenseRent)}, want: ErrInvalidInput},
		{name: "unknown category", input: TransactionInput{Type: TypeExpense, Amount: 10, ExpenseCategory: ptr(ExpenseCategory("party"))}, want: ErrInvalidInput},
		{name: "unknown member", input: TransactionInput{Type: TypeDonation, Amount: 10, MemberID: ptr("m-9")}, want: ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTransaction(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateTransactionRoundsAndDefaultsDate(t *testing.T) {
	repo := newFakeFinanceRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return baseTime }

	created, err := svc.CreateTransaction(context.Background(), TransactionInput{Type: TypeExpense, Amount: 12.345, ExpenseCategory: ptr(ExpenseWater)})
	require.NoError(t, err)
	assert.Equal(t, 12.35, created.Amount)
	assert.Equal(t, baseTime, created.OccurredAt)
	assert.Contains(t, repo.transactions, created.ID)
}

func TestListTransactionsTotalsCoverWholeFilter(t *testing.T) {
	repo := newFakeFinanceRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		_, err := svc.CreateTransaction(ctx, TransactionInput{Type: TypeOffering, Amount: 10, OccurredAt: baseTime.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}
	_, err := svc.CreateTransaction(ctx, TransactionInput{Type: TypeExpense, Amount: 50, OccurredAt: baseTime, ExpenseCategory: ptr(ExpenseRent)})
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, TransactionInput{Type: TypeDonation, Amount: 999, OccurredAt: baseTime, MemberID: ptr("m-1")})
	require.NoError(t, err)

	result, err := svc.ListTransactions(ctx, TransactionFilter{}, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Page.Number)
	assert.Len(t, result.Items, 7)
	assert.Equal(t, 300.0, result.Totals.Offerings)
	assert.Equal(t, 50.0, result.Totals.Expenses)
	assert.Equal(t, 250.0, result.Totals.Balance())

	result, err = svc.ListTransactions(ctx, TransactionFilter{MemberID: "m-1"}, 1)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.NotNil(t, result.Items[0].MemberName)
	assert.Equal(t, "Jean Ndayishimiye", *result.Items[0].MemberName)
	assert.Zero(t, result.Totals.Balance())

	_, err = svc.ListTransactions(ctx, TransactionFilter{Category: "party"}, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteTransaction(t *testing.T) {
	svc := NewService(newFakeFinanceRepo())
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, TransactionInput{Type: TypeOffering, Amount: 5})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTransaction(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteTransaction(ctx, created.ID), ErrTransactionNotFound)
}

func TestDonationsLifecycle(t *testing.T) {
	repo := newFakeFinanceRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateDonation(ctx, DonationInput{MemberID: "m-9", Description: "Chairs"})
	assert.ErrorIs(t, err, ErrMemberNotFound)
	_, err = svc.CreateDonation(ctx, DonationInput{MemberID: "m-1", Description: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	donation, err := svc.CreateDonation(ctx, DonationInput{MemberID: "m-1", Description: "Plastic chairs", EstimatedValue: ptr(120.456), DonatedAt: baseTime})
	require.NoError(t, err)
	assert.Equal(t, DonationReceived, donation.Status)
	assert.Equal(t, 120.46, *donation.EstimatedValue)

	_, err = svc.CreateDonation(ctx, DonationInput{MemberID: "m-2", Description: "Sound system", DonatedAt: baseTime.Add(time.Hour), Status: DonationPending})
	require.NoError(t, err)

	items, info, err := svc.ListDonations(ctx, DonationFilter{Query: "chair"}, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Jean Ndayishimiye", items[0].MemberName)
	assert.Equal(t, int64(1), info.Total)

	updated, err := svc.UpdateDonationStatus(ctx, donation.ID, DonationUsed)
	require.NoError(t, err)
	assert.Equal(t, DonationUsed, repo.donations[donation.ID].Status)
	assert.Equal(t, DonationUsed, updated.Status)

	_, err = svc.UpdateDonationStatus(ctx, donation.ID, "lost")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.UpdateDonationStatus(ctx, "missing", DonationUsed)
	assert.ErrorIs(t, err, ErrDonationNotFound)
}

func TestMemberActivityLimits(t *testing.T) {
	repo := newFakeFinanceRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.CreateTransaction(ctx, TransactionInput{Type: TypeOffering, Amount: 1, MemberID: ptr("m-1"), OccurredAt: baseTime.AddDate(0, 0, i)})
		require.NoError(t, err)
	}
	for i := 0; i < 7; i++ {
		_, err := svc.CreateDonation(ctx, DonationInput{MemberID: "m-1", Description: "Books", DonatedAt: baseTime.AddDate(0, 0, i)})
		require.NoError(t, err)
	}

	activity, err := svc.MemberActivity(ctx, "m-1")
	require.NoError(t, err)
	assert.Len(t, activity.Transactions, 10)
	assert.Len(t, activity.Donations, 5)
	assert.Equal(t, baseTime.AddDate(0, 0, 11), activity.Transactions[0].OccurredAt)
}
