package domain

// CodeLength is the fixed length of a board join code
const CodeLength = 10

// MinCapacity is the smallest capacity a board may be created with
const MinCapacity = 2

// Board represents a joinable session identified by a short join code
type Board struct {
	BaseModel
	Name        string       `gorm:"type:varchar(50);not null" json:"name"`
	Description string       `gorm:"type:varchar(255);not null" json:"description"`
	Capacity    int          `gorm:"not null;default:2" json:"capacity"`
	Code        string       `gorm:"type:varchar(10);not null;uniqueIndex:uq_boards_code" json:"code"`
	Memberships []Membership `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}
