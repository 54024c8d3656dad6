package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"game-board-api/internal/domain"
	"game-board-api/internal/repository"
)

// RoleOf returns the caller's role on a board, or nil when the caller has no
// membership row. Errors other than a missing row are passed through.
func RoleOf(ctx context.Context, repo repository.BoardRepository, boardID, userID uuid.UUID) (*domain.Role, error) {
	membership, err := repo.FindMembership(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	role := membership.Role
	return &role, nil
}

// CanDelete reports whether the role may delete the board
func CanDelete(role *domain.Role) bool {
	return role != nil && *role == domain.RoleMaster
}

// CanUpdate reports whether the role may update the board
func CanUpdate(role *domain.Role) bool {
	return role != nil && *role == domain.RoleMaster
}

// CanLeave reports whether the role may leave the board. The master never may,
// so every board keeps exactly one master for its whole lifetime.
func CanLeave(role *domain.Role) bool {
	return role != nil && *role == domain.RolePlayer
}
