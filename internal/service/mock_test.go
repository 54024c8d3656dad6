package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"game-board-api/internal/domain"
	"game-board-api/internal/repository"
)

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	CreateFunc              func(ctx context.Context, board *domain.Board) error
	FindByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByCodeFunc          func(ctx context.Context, code string) (*domain.Board, error)
	DeleteFunc              func(ctx context.Context, id uuid.UUID) error
	AttachMemberFunc        func(ctx context.Context, boardID, userID uuid.UUID, role domain.Role) error
	DetachMemberFunc        func(ctx context.Context, boardID, userID uuid.UUID) error
	FindMembershipFunc      func(ctx context.Context, boardID, userID uuid.UUID) (*domain.Membership, error)
	CountMembersFunc        func(ctx context.Context, boardID uuid.UUID) (int64, error)
	MembersOfFunc           func(ctx context.Context, boardID uuid.UUID) ([]*domain.Membership, error)
	BoardsOfFunc            func(ctx context.Context, userID uuid.UUID) ([]*repository.BoardWithCount, error)
	CountBoardsFunc         func(ctx context.Context) (int64, error)
	CountMembershipsFunc    func(ctx context.Context) (int64, error)
	WithinBoardTxFunc       func(ctx context.Context, boardID uuid.UUID, fn func(repo repository.BoardRepository, board *domain.Board) error) error
	WithinBoardTxByCodeFunc func(ctx context.Context, code string, fn func(repo repository.BoardRepository, board *domain.Board) error) error
	WithinTxFunc            func(ctx context.Context, fn func(repo repository.BoardRepository) error) error
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockBoardRepository) FindByCode(ctx context.Context, code string) (*domain.Board, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockBoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockBoardRepository) AttachMember(ctx context.Context, boardID, userID uuid.UUID, role domain.Role) error {
	if m.AttachMemberFunc != nil {
		return m.AttachMemberFunc(ctx, boardID, userID, role)
	}
	return nil
}

func (m *MockBoardRepository) DetachMember(ctx context.Context, boardID, userID uuid.UUID) error {
	if m.DetachMemberFunc != nil {
		return m.DetachMemberFunc(ctx, boardID, userID)
	}
	return nil
}

func (m *MockBoardRepository) FindMembership(ctx context.Context, boardID, userID uuid.UUID) (*domain.Membership, error) {
	if m.FindMembershipFunc != nil {
		return m.FindMembershipFunc(ctx, boardID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockBoardRepository) CountMembers(ctx context.Context, boardID uuid.UUID) (int64, error) {
	if m.CountMembersFunc != nil {
		return m.CountMembersFunc(ctx, boardID)
	}
	return 0, nil
}

func (m *MockBoardRepository) MembersOf(ctx context.Context, boardID uuid.UUID) ([]*domain.Membership, error) {
	if m.MembersOfFunc != nil {
		return m.MembersOfFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockBoardRepository) BoardsOf(ctx context.Context, userID uuid.UUID) ([]*repository.BoardWithCount, error) {
	if m.BoardsOfFunc != nil {
		return m.BoardsOfFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBoardRepository) CountBoards(ctx context.Context) (int64, error) {
	if m.CountBoardsFunc != nil {
		return m.CountBoardsFunc(ctx)
	}
	return 0, nil
}

func (m *MockBoardRepository) CountMemberships(ctx context.Context) (int64, error) {
	if m.CountMembershipsFunc != nil {
		return m.CountMembershipsFunc(ctx)
	}
	return 0, nil
}

// WithinBoardTx defaults to looking the board up through FindByID and running
// fn against the mock itself, mirroring the real transaction shape
func (m *MockBoardRepository) WithinBoardTx(ctx context.Context, boardID uuid.UUID, fn func(repo repository.BoardRepository, board *domain.Board) error) error {
	if m.WithinBoardTxFunc != nil {
		return m.WithinBoardTxFunc(ctx, boardID, fn)
	}
	board, err := m.FindByID(ctx, boardID)
	if err != nil {
		return err
	}
	return fn(m, board)
}

func (m *MockBoardRepository) WithinBoardTxByCode(ctx context.Context, code string, fn func(repo repository.BoardRepository, board *domain.Board) error) error {
	if m.WithinBoardTxByCodeFunc != nil {
		return m.WithinBoardTxByCodeFunc(ctx, code, fn)
	}
	board, err := m.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	return fn(m, board)
}

func (m *MockBoardRepository) WithinTx(ctx context.Context, fn func(repo repository.BoardRepository) error) error {
	if m.WithinTxFunc != nil {
		return m.WithinTxFunc(ctx, fn)
	}
	return fn(m)
}

// MockCodeGenerator is a mock implementation of CodeGenerator
type MockCodeGenerator struct {
	GenerateFunc       func(length int) string
	GenerateUniqueFunc func(ctx context.Context, repo repository.BoardRepository) (string, error)
}

func (m *MockCodeGenerator) Generate(length int) string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(length)
	}
	return "AAAAAAAAAA"
}

func (m *MockCodeGenerator) GenerateUnique(ctx context.Context, repo repository.BoardRepository) (string, error) {
	if m.GenerateUniqueFunc != nil {
		return m.GenerateUniqueFunc(ctx, repo)
	}
	return "AAAAAAAAAA", nil
}

// MockCodeCache is a mock implementation of CodeCache
type MockCodeCache struct {
	ResolveFunc    func(ctx context.Context, code string) (uuid.UUID, bool)
	StoreFunc      func(ctx context.Context, code string, boardID uuid.UUID)
	InvalidateFunc func(ctx context.Context, code string)
}

func (m *MockCodeCache) Resolve(ctx context.Context, code string) (uuid.UUID, bool) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, code)
	}
	return uuid.Nil, false
}

func (m *MockCodeCache) Store(ctx context.Context, code string, boardID uuid.UUID) {
	if m.StoreFunc != nil {
		m.StoreFunc(ctx, code, boardID)
	}
}

func (m *MockCodeCache) Invalidate(ctx context.Context, code string) {
	if m.InvalidateFunc != nil {
		m.InvalidateFunc(ctx, code)
	}
}

// MockNameResolver is a mock implementation of NameResolver
type MockNameResolver struct {
	DisplayNamesFunc func(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

func (m *MockNameResolver) DisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	if m.DisplayNamesFunc != nil {
		return m.DisplayNamesFunc(ctx, userIDs)
	}
	return nil, nil
}
