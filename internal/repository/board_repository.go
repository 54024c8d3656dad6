package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"game-board-api/internal/domain"
)

// BoardWithCount is a board annotated with its current member count
type BoardWithCount struct {
	domain.Board `gorm:"embedded"`
	MemberCount  int64 `gorm:"column:member_count"`
}

// BoardRepository defines the interface for board and membership data access
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByCode(ctx context.Context, code string) (*domain.Board, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AttachMember(ctx context.Context, boardID, userID uuid.UUID, role domain.Role) error
	DetachMember(ctx context.Context, boardID, userID uuid.UUID) error
	FindMembership(ctx context.Context, boardID, userID uuid.UUID) (*domain.Membership, error)
	CountMembers(ctx context.Context, boardID uuid.UUID) (int64, error)
	MembersOf(ctx context.Context, boardID uuid.UUID) ([]*domain.Membership, error)
	BoardsOf(ctx context.Context, userID uuid.UUID) ([]*BoardWithCount, error)

	CountBoards(ctx context.Context) (int64, error)
	CountMemberships(ctx context.Context) (int64, error)

	// WithinBoardTx runs fn inside a transaction holding a row lock on the
	// board, so membership mutations for one board serialize against each
	// other. The repo passed to fn is scoped to the transaction.
	WithinBoardTx(ctx context.Context, boardID uuid.UUID, fn func(repo BoardRepository, board *domain.Board) error) error
	// WithinBoardTxByCode is WithinBoardTx with a join-code lookup instead of an ID.
	WithinBoardTxByCode(ctx context.Context, code string, fn func(repo BoardRepository, board *domain.Board) error) error
	// WithinTx runs fn inside a plain transaction (no pre-existing board to lock).
	WithinTx(ctx context.Context, fn func(repo BoardRepository) error) error
}

// boardRepositoryImpl is the GORM implementation of BoardRepository
type boardRepositoryImpl struct {
	db *gorm.DB
}

// NewBoardRepository creates a new instance of BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepositoryImpl{db: db}
}

// Create persists a new board
func (r *boardRepositoryImpl) Create(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// FindByID finds a board by its ID
func (r *boardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).First(&board, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByCode finds a board by its join code
func (r *boardRepositoryImpl) FindByCode(ctx context.Context, code string) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).First(&board, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// Delete removes a board and all its membership rows atomically
func (r *boardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&domain.Membership{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Board{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AttachMember inserts a membership row for the given board, user and role
func (r *boardRepositoryImpl) AttachMember(ctx context.Context, boardID, userID uuid.UUID, role domain.Role) error {
	membership := &domain.Membership{
		BoardID: boardID,
		UserID:  userID,
		Role:    role,
	}
	return r.db.WithContext(ctx).Create(membership).Error
}

// DetachMember deletes the membership row for the given board and user
func (r *boardRepositoryImpl) DetachMember(ctx context.Context, boardID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&domain.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindMembership finds the membership row for the given board and user
func (r *boardRepositoryImpl) FindMembership(ctx context.Context, boardID, userID uuid.UUID) (*domain.Membership, error) {
	var membership domain.Membership
	if err := r.db.WithContext(ctx).
		First(&membership, "board_id = ? AND user_id = ?", boardID, userID).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// CountMembers returns the number of membership rows for a board
func (r *boardRepositoryImpl) CountMembers(ctx context.Context, boardID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("board_id = ?", boardID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MembersOf returns a board's membership rows in attachment order,
// so the creator always comes first
func (r *boardRepositoryImpl) MembersOf(ctx context.Context, boardID uuid.UUID) ([]*domain.Membership, error) {
	var memberships []*domain.Membership
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// BoardsOf returns all boards the user is a member of, each with its member count
func (r *boardRepositoryImpl) BoardsOf(ctx context.Context, userID uuid.UUID) ([]*BoardWithCount, error) {
	var rows []*BoardWithCount
	if err := r.db.WithContext(ctx).
		Table("boards").
		Select("boards.*, (SELECT COUNT(*) FROM board_memberships bm WHERE bm.board_id = boards.id) AS member_count").
		Joins("JOIN board_memberships m ON m.board_id = boards.id AND m.user_id = ?", userID).
		Order("m.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountBoards returns the total number of boards
func (r *boardRepositoryImpl) CountBoards(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Board{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountMemberships returns the total number of membership rows
func (r *boardRepositoryImpl) CountMemberships(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Membership{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// WithinBoardTx runs fn in a transaction with a row lock on the board
func (r *boardRepositoryImpl) WithinBoardTx(ctx context.Context, boardID uuid.UUID, fn func(repo BoardRepository, board *domain.Board) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		board, err := lockBoard(tx, "id = ?", boardID)
		if err != nil {
			return err
		}
		return fn(&boardRepositoryImpl{db: tx}, board)
	})
}

// WithinBoardTxByCode runs fn in a transaction with a row lock on the board
// found by join code
func (r *boardRepositoryImpl) WithinBoardTxByCode(ctx context.Context, code string, fn func(repo BoardRepository, board *domain.Board) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		board, err := lockBoard(tx, "code = ?", code)
		if err != nil {
			return err
		}
		return fn(&boardRepositoryImpl{db: tx}, board)
	})
}

// WithinTx runs fn in a plain transaction
func (r *boardRepositoryImpl) WithinTx(ctx context.Context, fn func(repo BoardRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&boardRepositoryImpl{db: tx})
	})
}

// lockBoard fetches a board with SELECT ... FOR UPDATE. SQLite rejects the
// locking clause and serializes writers at the database level anyway, so the
// clause is skipped for that dialect.
func lockBoard(tx *gorm.DB, query string, arg interface{}) (*domain.Board, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var board domain.Board
	if err := q.First(&board, query, arg).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
