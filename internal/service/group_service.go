package service

import (
	"context"
	"log/slog"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// GroupService manages group membership. The ledger treats groups as
// read-only input; all mutation and capability checks live here.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create creates an active group. The creator is always a member and
// becomes the group admin.
func (s *GroupService) Create(ctx context.Context, name string, creator models.MemberID, members []models.MemberID) (*models.Group, error) {
	group := &models.Group{
		Name:      name,
		Active:    true,
		CreatedBy: creator,
	}
	seen := map[models.MemberID]bool{creator: true}
	group.Members = append(group.Members, creator)
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			group.Members = append(group.Members, m)
		}
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "members", len(group.Members))
	return group, nil
}

// Get returns a group to its members.
func (s *GroupService) Get(ctx context.Context, groupID string, actor models.MemberID) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(actor) {
		return nil, ErrNotGroupMember
	}
	return group, nil
}

// ListForMember returns all groups the member belongs to.
func (s *GroupService) ListForMember(ctx context.Context, memberID models.MemberID) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, memberID)
}

// AddMembers appends new members to the group, preserving existing order.
// Only the admin may change membership.
func (s *GroupService) AddMembers(ctx context.Context, groupID string, actor models.MemberID, newMembers []models.MemberID) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actor) {
		return nil, ErrNotGroupAdmin
	}
	if !group.Active {
		return nil, ErrGroupClosed
	}

	existing := make(map[models.MemberID]bool, len(group.Members))
	for _, m := range group.Members {
		existing[m] = true
	}
	var added []models.MemberID
	for _, m := range newMembers {
		if !existing[m] {
			existing[m] = true
			group.Members = append(group.Members, m)
			added = append(added, m)
		}
	}
	if len(added) == 0 {
		return group, nil
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group members added", "group_id", groupID, "new_members", added)
	return group, nil
}

// Close marks the group inactive. Closed groups keep their history readable
// but reject new expenses and payments. Admin only.
func (s *GroupService) Close(ctx context.Context, groupID string, actor models.MemberID) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actor) {
		return nil, ErrNotGroupAdmin
	}

	group.Active = false
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group closed", "group_id", groupID)
	return group, nil
}
