package dto

import (
	"time"

	"github.com/google/uuid"

	"game-board-api/internal/domain"
)

// CreateBoardRequest represents the request to create a board
// @Description Validation happens in the membership service so that errors
// @Description carry per-field messages
type CreateBoardRequest struct {
	Name        string `json:"name" example:"Test Board"`
	Description string `json:"description" example:"This is a test board."`
	Capacity    int    `json:"capacity" example:"4"`
}

// JoinBoardRequest represents the request to join a board by code
type JoinBoardRequest struct {
	Code string `json:"code" example:"aZ3kPq9mXw"`
}

// BoardResponse represents a board annotated with its member count
type BoardResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	Code        string    `json:"code"`
	MemberCount int64     `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// JoinBoardResponse represents the result of joining a board
type JoinBoardResponse struct {
	BoardID     uuid.UUID `json:"boardId"`
	MemberCount int64     `json:"memberCount"`
}

// MemberResponse represents one roster entry of a board
type MemberResponse struct {
	UserID   uuid.UUID   `json:"userId"`
	Name     string      `json:"name,omitempty"`
	Role     domain.Role `json:"role"`
	JoinedAt time.Time   `json:"joinedAt"`
}

// BoardDetailResponse represents a board with its full membership roster
type BoardDetailResponse struct {
	BoardResponse
	Members []MemberResponse `json:"members"`
}
