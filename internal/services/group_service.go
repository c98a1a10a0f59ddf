package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamhub/teamhub-api/internal/constants"
	"github.com/teamhub/teamhub-api/internal/models"
	"github.com/teamhub/teamhub-api/internal/repository"
	"github.com/teamhub/teamhub-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound        = errors.New("group not found")
	ErrInvalidGroupName     = errors.New("group name cannot be empty")
	ErrJoinCodeGeneration   = errors.New("failed to generate a unique join code")
	ErrUnknownJoinCode      = errors.New("invalid join code")
	ErrNotGroupOwner        = errors.New("only the group owner can perform this action")
	ErrNotGroupMember       = errors.New("user is not a member of this group")
	ErrCannotRemoveYourself = errors.New("cannot remove yourself from the group")
	ErrGroupMemberNotFound  = errors.New("group member not found")
)

// GroupService provides business logic for group membership and ownership.
type GroupService struct {
	groupRepo repository.GroupRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
	}
}

// CreateGroupInput represents parameters to create a new group.
type CreateGroupInput struct {
	Name    string
	OwnerID uint64
}

// CreateGroup creates a group with a freshly generated join code and makes
// the creator both owner and first member.
//
// The pre-check lookup is only an optimization; the unique index on
// join_code is the real enforcement. An insert rejected by the constraint
// regenerates and retries, and a duplicate is never silently accepted.
func (s *GroupService) CreateGroup(input CreateGroupInput) (*models.Group, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidGroupName
	}

	for attempt := 0; attempt < constants.MaxJoinCodeAttempts; attempt++ {
		code, err := utils.GenerateJoinCode()
		if err != nil {
			return nil, ErrJoinCodeGeneration
		}

		if _, err := s.groupRepo.FindByJoinCode(code); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check join code: %w", err)
		}

		group := &models.Group{
			Name:     input.Name,
			JoinCode: code,
			OwnerID:  input.OwnerID,
		}
		member := &models.GroupMember{
			UserID:   input.OwnerID,
			Role:     models.GroupRoleOwner,
			JoinedAt: time.Now(),
		}

		err = s.groupRepo.CreateWithOwner(group, member)
		if err == nil {
			return group, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race on the code; draw again.
			continue
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return nil, ErrJoinCodeGeneration
}

// ListGroupsForUser returns memberships (with groups) the user belongs to.
func (s *GroupService) ListGroupsForUser(userID uint64) ([]models.GroupMember, error) {
	memberships, err := s.groupRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return memberships, nil
}

// GetGroupWithMembers returns a group and its members. Non-members get
// ErrGroupNotFound rather than a hint that the group exists.
func (s *GroupService) GetGroupWithMembers(groupID, actorID uint64) (*models.Group, []models.GroupMember, models.GroupRole, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, "", ErrGroupNotFound
		}
		return nil, nil, "", fmt.Errorf("failed to find group: %w", err)
	}

	membership, err := s.groupRepo.FindMember(groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, "", ErrGroupNotFound
		}
		return nil, nil, "", fmt.Errorf("failed to verify membership: %w", err)
	}

	members, err := s.groupRepo.ListMembers(groupID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to list group members: %w", err)
	}

	return group, members, membership.Role, nil
}

// UpdateGroupName renames a group. Only the owner may mutate a group; the
// join code is immutable and never touched here.
func (s *GroupService) UpdateGroupName(groupID, actorID uint64, name string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidGroupName
	}

	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	if group.OwnerID != actorID {
		return nil, ErrNotGroupOwner
	}

	group.Name = name
	if err := s.groupRepo.Update(group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return group, nil
}

// DeleteGroup removes a group. Only the owner may delete.
func (s *GroupService) DeleteGroup(groupID, actorID uint64) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to find group: %w", err)
	}

	if group.OwnerID != actorID {
		return ErrNotGroupOwner
	}

	if err := s.groupRepo.Delete(groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	return nil
}

// RedeemJoinCode adds the user to the group holding the code. Codes are
// normalized to uppercase before lookup. Redeeming a code for a group the
// user already belongs to succeeds idempotently; alreadyMember reports which
// path was taken.
func (s *GroupService) RedeemJoinCode(userID uint64, code string) (group *models.Group, alreadyMember bool, err error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	group, err = s.groupRepo.FindByJoinCode(normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUnknownJoinCode
		}
		return nil, false, fmt.Errorf("failed to find group by join code: %w", err)
	}

	if _, err := s.groupRepo.FindMember(group.ID, userID); err == nil {
		return group, true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.GroupMember{
		GroupID:  group.ID,
		UserID:   userID,
		Role:     models.GroupRoleMember,
		JoinedAt: time.Now(),
	}

	if err := s.groupRepo.AddMember(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent redeem of the same code by the same user.
			return group, true, nil
		}
		return nil, false, fmt.Errorf("failed to add member to group: %w", err)
	}

	return group, false, nil
}

// RemoveMember removes a member from the group. Owner only; the owner
// cannot remove themselves.
func (s *GroupService) RemoveMember(groupID, actorID, targetID uint64) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to find group: %w", err)
	}

	if group.OwnerID != actorID {
		return ErrNotGroupOwner
	}
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.groupRepo.FindMember(groupID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupMemberNotFound
		}
		return fmt.Errorf("failed to find group member: %w", err)
	}

	if err := s.groupRepo.RemoveMember(groupID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// EnsureMember verifies that a user belongs to a group.
func (s *GroupService) EnsureMember(groupID, userID uint64) error {
	if _, err := s.groupRepo.FindMember(groupID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotGroupMember
		}
		return fmt.Errorf("failed to verify group membership: %w", err)
	}
	return nil
}
