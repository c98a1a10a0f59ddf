package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamhub/teamhub-api/internal/models"
	"gorm.io/gorm"
)

// stubGroupRepo lets tests script create outcomes to exercise the join-code
// retry loop without a database race.
type stubGroupRepo struct {
	createErrs []error
	createdIdx int
	seenCodes  []string
}

func (s *stubGroupRepo) CreateWithOwner(group *models.Group, member *models.GroupMember) error {
	s.seenCodes = append(s.seenCodes, group.JoinCode)
	if s.createdIdx < len(s.createErrs) {
		err := s.createErrs[s.createdIdx]
		s.createdIdx++
		return err
	}
	return nil
}

func (s *stubGroupRepo) FindByID(id uint64) (*models.Group, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGroupRepo) FindByJoinCode(code string) (*models.Group, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGroupRepo) Update(group *models.Group) error { return nil }
func (s *stubGroupRepo) Delete(id uint64) error           { return nil }
func (s *stubGroupRepo) AddMember(member *models.GroupMember) error {
	return nil
}
func (s *stubGroupRepo) RemoveMember(groupID, userID uint64) error { return nil }
func (s *stubGroupRepo) FindMember(groupID, userID uint64) (*models.GroupMember, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubGroupRepo) ListMembershipsByUserID(userID uint64) ([]models.GroupMember, error) {
	return nil, nil
}
func (s *stubGroupRepo) ListMembers(groupID uint64) ([]models.GroupMember, error) {
	return nil, nil
}

func TestCreateGroup_RetriesOnDuplicateJoinCode(t *testing.T) {
	repo := &stubGroupRepo{
		createErrs: []error{gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey},
	}
	service := NewGroupService(repo)

	group, err := service.CreateGroup(CreateGroupInput{
		Name:    "Team",
		OwnerID: 1,
	})
	require.NoError(t, err)
	require.Len(t, repo.seenCodes, 3)
	require.Equal(t, repo.seenCodes[2], group.JoinCode)

	// A rejected insert must never be retried with the same code.
	require.NotEqual(t, repo.seenCodes[0], repo.seenCodes[1])
	require.NotEqual(t, repo.seenCodes[1], repo.seenCodes[2])
}

func TestCreateGroup_GivesUpAfterBoundedAttempts(t *testing.T) {
	repo := &stubGroupRepo{
		createErrs: []error{
			gorm.ErrDuplicatedKey,
			gorm.ErrDuplicatedKey,
			gorm.ErrDuplicatedKey,
			gorm.ErrDuplicatedKey,
			gorm.ErrDuplicatedKey,
		},
	}
	service := NewGroupService(repo)

	_, err := service.CreateGroup(CreateGroupInput{
		Name:    "Team",
		OwnerID: 1,
	})
	require.ErrorIs(t, err, ErrJoinCodeGeneration)
}

func TestCreateGroup_RejectsBlankName(t *testing.T) {
	service := NewGroupService(&stubGroupRepo{})

	_, err := service.CreateGroup(CreateGroupInput{
		Name:    "   ",
		OwnerID: 1,
	})
	require.ErrorIs(t, err, ErrInvalidGroupName)
}
