package analytics

import (
	"context"
	"time"
)

type Repository interface {
	// MemberCounts counts all members, those baptized in the parish and those
	// whose membership date is on or after joinedSince.
	MemberCounts(ctx context.Context, joinedSince time.Time) (MemberCounts, error)
	CoupleCounts(ctx context.Context) (CoupleCounts, error)
	FinanceTotals(ctx context.Context, from time.Time) (FinanceTotals, error)
	MembersJoinedSince(ctx context.Context, since time.Time, limit int) ([]MemberBrief, error)
	MembersCreatedSince(ctx context.Context, since time.Time, limit int) ([]MemberBrief, error)
	CouplesCreatedSince(ctx context.Context, since time.Time, limit int) ([]CoupleBrief, error)
	TopGroups(ctx context.Context, limit int) ([]GroupSize, error)
}
