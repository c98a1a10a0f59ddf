package dto

import (
	"time"

	"github.com/teamhub/teamhub-api/internal/models"
)

// GroupDTO represents a group in API responses. The join code is only
// included for members.
type GroupDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code,omitempty"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupWithRoleDTO represents a group with the caller's role
type GroupWithRoleDTO struct {
	GroupDTO
	Role models.GroupRole `json:"role"`
}

// GroupMemberDTO represents a member in a group
type GroupMemberDTO struct {
	User     UserDTO          `json:"user"`
	Role     models.GroupRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}

// GroupDetailDTO represents detailed group information
type GroupDetailDTO struct {
	GroupDTO
	Members  []GroupMemberDTO `json:"members"`
	YourRole models.GroupRole `json:"your_role"`
}

// ToGroupDTO converts a Group model to GroupDTO
func ToGroupDTO(group models.Group, includeJoinCode bool) GroupDTO {
	dto := GroupDTO{
		ID:        group.ID,
		Name:      group.Name,
		OwnerID:   group.OwnerID,
		CreatedAt: group.CreatedAt,
	}
	if includeJoinCode {
		dto.JoinCode = group.JoinCode
	}
	return dto
}

// ToGroupWithRoleDTO converts a membership to DTO with role
func ToGroupWithRoleDTO(member models.GroupMember) GroupWithRoleDTO {
	return GroupWithRoleDTO{
		GroupDTO: ToGroupDTO(member.Group, true),
		Role:     member.Role,
	}
}

// ToGroupMemberDTO converts a member to DTO
func ToGroupMemberDTO(member models.GroupMember) GroupMemberDTO {
	return GroupMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToGroupDetailDTO converts a group with members to detailed DTO
func ToGroupDetailDTO(group models.Group, members []models.GroupMember, yourRole models.GroupRole) GroupDetailDTO {
	memberDTOs := make([]GroupMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToGroupMemberDTO(member)
	}

	return GroupDetailDTO{
		GroupDTO: ToGroupDTO(group, true),
		Members:  memberDTOs,
		YourRole: yourRole,
	}
}
