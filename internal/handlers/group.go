package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamhub/teamhub-api/internal/dto"
	apierrors "github.com/teamhub/teamhub-api/internal/errors"
	"github.com/teamhub/teamhub-api/internal/middleware"
	"github.com/teamhub/teamhub-api/internal/services"
)

// GroupHandler coordinates group-related HTTP handlers.
type GroupHandler struct {
	groupService *services.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// CreateGroup creates a new group owned by the caller.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateGroupRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.CreateGroup(services.CreateGroupInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDTO(*group, true))
}

// ListGroups returns all groups the caller belongs to.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.groupService.ListGroupsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch groups")
		return
	}

	groups := make([]dto.GroupWithRoleDTO, len(memberships))
	for i, m := range memberships {
		groups[i] = dto.ToGroupWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
	})
}

// GetGroup returns group details with members.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, members, role, err := h.groupService.GetGroupWithMembers(groupID, userID)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDetailDTO(*group, members, role))
}

// UpdateGroup renames a group. Owner only.
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateGroupRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.UpdateGroupName(groupID, userID, req.Name)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*group, true))
}

// DeleteGroup deletes a group. Owner only.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.groupService.DeleteGroup(groupID, userID); err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Group deleted successfully",
	})
}

// JoinGroup lets the caller join a group via join code. Redeeming a code
// for a group the caller already belongs to reports success without
// changing the membership set.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type JoinRequest struct {
		JoinCode string `json:"join_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, alreadyMember, err := h.groupService.RedeemJoinCode(userID, req.JoinCode)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	if alreadyMember {
		c.JSON(http.StatusOK, gin.H{
			"message": "You are already a member of this group",
			"group":   dto.ToGroupDTO(*group, false),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully joined group: " + group.Name,
		"group":   dto.ToGroupDTO(*group, false),
	})
}

// RemoveMember removes a member from the group. Owner only.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.groupService.RemoveMember(groupID, userID, targetID); err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// parseIDParam parses a numeric path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidGroupName),
		errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotGroupOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrUnknownJoinCode),
		errors.Is(err, services.ErrGroupMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrJoinCodeGeneration):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
