package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamhub/teamhub-api/internal/dto"
	apierrors "github.com/teamhub/teamhub-api/internal/errors"
	"github.com/teamhub/teamhub-api/internal/repository"
	"gorm.io/gorm"
)

// MemberHandler exposes the member roster used by assignment pickers.
type MemberHandler struct {
	userRepo repository.UserRepository
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(userRepo repository.UserRepository) *MemberHandler {
	return &MemberHandler{
		userRepo: userRepo,
	}
}

// ListMembers returns all registered members.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	users, err := h.userRepo.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch members")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToUserDTOs(users),
	})
}

// GetMember returns a single member by ID.
func (h *MemberHandler) GetMember(c *gin.Context) {
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userRepo.FindByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Member not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch member")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
