package members

import (
	"context"

	"parish-app-go/internal/domain/couples"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// Couples returns the couples repository bound to the same connection or
	// transaction as the receiver.
	Couples() couples.Repository

	ListMembers(ctx context.Context, filter ListFilter) ([]Member, int64, error)
	BaptismalCounts(ctx context.Context) (BaptismalCounts, error)
	ExportMembers(ctx context.Context, filter ListFilter) ([]Member, error)
	GetMember(ctx context.Context, id string) (*Member, error)
	// LockMember reads the member row FOR UPDATE so no couple can be created
	// for it until the transaction ends.
	LockMember(ctx context.Context, id string) (*Member, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	CreateMember(ctx context.Context, member *Member) error
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, id string) error

	ListRolesOfMember(ctx context.Context, memberID string) ([]Role, error)
	ListGroupsOfMember(ctx context.Context, memberID string) ([]Group, error)

	ListRoles(ctx context.Context) ([]RoleWithCount, error)
	GetRole(ctx context.Context, id string) (*Role, error)
	ListRoleMembers(ctx context.Context, roleID string) ([]Member, error)
	AssignRole(ctx context.Context, memberID, roleID string) error
	RevokeRole(ctx context.Context, memberID, roleID string) (bool, error)

	ListGroups(ctx context.Context, query string) ([]GroupWithCount, error)
	GetGroup(ctx context.Context, id string) (*Group, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]Member, error)
	CreateGroup(ctx context.Context, group *Group) error
	AddToGroup(ctx context.Context, memberID, groupID string) error
	RemoveFromGroup(ctx context.Context, memberID, groupID string) (bool, error)
}
