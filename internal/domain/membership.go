package domain

import "github.com/google/uuid"

// Role represents the role a user holds on a board
type Role string

const (
	RoleMaster Role = "master"
	RolePlayer Role = "player"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	return r == RoleMaster || r == RolePlayer
}

// Membership represents a user's membership on a board
type Membership struct {
	BaseModel
	BoardID uuid.UUID `gorm:"type:uuid;not null;index:idx_memberships_board_id;uniqueIndex:uq_memberships_board_user" json:"board_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_memberships_user_id;uniqueIndex:uq_memberships_board_user" json:"user_id"`
	Role    Role      `gorm:"type:varchar(10);not null;default:'player'" json:"role"`
	Board   Board     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// TableName specifies the table name for Membership
func (Membership) TableName() string {
	return "board_memberships"
}
