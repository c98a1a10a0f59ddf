package models

import (
	"time"

	"gorm.io/gorm"
)

type MemberRole string

const (
	RoleProjectManager MemberRole = "PROJECT_MANAGER"
	RoleTeamMember     MemberRole = "TEAM_MEMBER"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Name         string         `gorm:"type:varchar(100)" json:"name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         MemberRole     `gorm:"type:varchar(20);not null;default:'TEAM_MEMBER'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	OwnedGroups []Group          `gorm:"foreignKey:OwnerID" json:"-"`
	OwnedTasks  []Task           `gorm:"foreignKey:OwnerID" json:"-"`
	Assignments []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
	Memberships []GroupMember    `gorm:"foreignKey:UserID" json:"-"`
}
