package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"game-board-api/internal/domain"
	"game-board-api/internal/dto"
	"game-board-api/internal/metrics"
	"game-board-api/internal/repository"
	"game-board-api/internal/response"
)

// MembershipService defines the interface for the board membership lifecycle
type MembershipService interface {
	CreateBoard(ctx context.Context, callerID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	JoinBoard(ctx context.Context, callerID uuid.UUID, req *dto.JoinBoardRequest) (*dto.JoinBoardResponse, error)
	LeaveBoard(ctx context.Context, callerID, boardID uuid.UUID) error
	DeleteBoard(ctx context.Context, callerID, boardID uuid.UUID) error
	ListBoards(ctx context.Context, callerID uuid.UUID) ([]*dto.BoardResponse, error)
	GetBoard(ctx context.Context, callerID, boardID uuid.UUID) (*dto.BoardDetailResponse, error)
}

// CodeCache caches join-code to board-id lookups. Implementations must treat
// the cache as advisory: a hit may be stale and callers re-verify under lock.
type CodeCache interface {
	Resolve(ctx context.Context, code string) (uuid.UUID, bool)
	Store(ctx context.Context, code string, boardID uuid.UUID)
	Invalidate(ctx context.Context, code string)
}

// NameResolver resolves user IDs to display names for roster responses
type NameResolver interface {
	DisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

// errStaleCachedCode signals that a cached board no longer carries the
// redeemed code, the join retries with a database lookup
var errStaleCachedCode = errors.New("cached join code is stale")

// membershipServiceImpl is the implementation of MembershipService
type membershipServiceImpl struct {
	boardRepo repository.BoardRepository
	codeGen   CodeGenerator
	codeCache CodeCache
	names     NameResolver
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewMembershipService creates a new instance of MembershipService.
// codeCache and names may be nil; both features degrade gracefully.
func NewMembershipService(
	boardRepo repository.BoardRepository,
	codeGen CodeGenerator,
	codeCache CodeCache,
	names NameResolver,
	m *metrics.Metrics,
	logger *zap.Logger,
) MembershipService {
	return &membershipServiceImpl{
		boardRepo: boardRepo,
		codeGen:   codeGen,
		codeCache: codeCache,
		names:     names,
		metrics:   m,
		logger:    logger,
	}
}

// CreateBoard validates the request, generates a join code and persists the
// board together with the creator's master membership in one transaction
func (s *membershipServiceImpl) CreateBoard(ctx context.Context, callerID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	if fields := validateCreateBoard(req); len(fields) > 0 {
		return nil, response.NewValidationError(fields)
	}

	code, err := s.codeGen.GenerateUnique(ctx, s.boardRepo)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to generate join code", err.Error())
	}

	board := &domain.Board{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Capacity:    req.Capacity,
		Code:        code,
	}

	err = s.boardRepo.WithinTx(ctx, func(txRepo repository.BoardRepository) error {
		if err := txRepo.Create(ctx, board); err != nil {
			return err
		}
		return txRepo.AttachMember(ctx, board.ID, callerID, domain.RoleMaster)
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create board", err.Error())
	}

	if s.codeCache != nil {
		s.codeCache.Store(ctx, code, board.ID)
	}
	if s.metrics != nil {
		s.metrics.IncrementBoardCreated()
	}
	s.logger.Info("Board created",
		zap.String("board_id", board.ID.String()),
		zap.String("user_id", callerID.String()),
		zap.Int("capacity", board.Capacity),
	)

	return toBoardResponse(board, 1), nil
}

// JoinBoard redeems a join code. The membership, capacity and attach steps run
// inside one transaction holding a row lock on the board, so concurrent joins
// at the capacity boundary serialize and the capacity invariant holds.
func (s *membershipServiceImpl) JoinBoard(ctx context.Context, callerID uuid.UUID, req *dto.JoinBoardRequest) (*dto.JoinBoardResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, response.NewValidationError(map[string]string{
			"code": "The code field is required.",
		})
	}

	cachedID, cached := s.resolveCode(ctx, code)

	var (
		joinedID    uuid.UUID
		memberCount int64
	)
	join := func(txRepo repository.BoardRepository, board *domain.Board) error {
		_, err := txRepo.FindMembership(ctx, board.ID, callerID)
		if err == nil {
			return response.NewAppError(response.ErrCodeAlreadyMember, "User is already a member of this board", "")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		count, err := txRepo.CountMembers(ctx, board.ID)
		if err != nil {
			return err
		}
		if count >= int64(board.Capacity) {
			return response.NewAppError(response.ErrCodeBoardFull, "User cannot join a full board", "")
		}

		if err := txRepo.AttachMember(ctx, board.ID, callerID, domain.RolePlayer); err != nil {
			if repository.IsDuplicateKey(err) {
				return response.NewAppError(response.ErrCodeAlreadyMember, "User is already a member of this board", "")
			}
			return err
		}
		joinedID = board.ID
		memberCount = count + 1
		return nil
	}

	var err error
	if cached {
		err = s.boardRepo.WithinBoardTx(ctx, cachedID, func(txRepo repository.BoardRepository, board *domain.Board) error {
			// The cache is advisory, the code could have been reissued to
			// another board since the entry was written
			if board.Code != code {
				return errStaleCachedCode
			}
			return join(txRepo, board)
		})
		if errors.Is(err, errStaleCachedCode) || errors.Is(err, gorm.ErrRecordNotFound) {
			s.codeCache.Invalidate(ctx, code)
			cached = false
		}
	}
	if !cached {
		err = s.boardRepo.WithinBoardTxByCode(ctx, code, join)
	}
	if err != nil {
		return nil, s.classifyJoinError(err)
	}

	if !cached && s.codeCache != nil {
		s.codeCache.Store(ctx, code, joinedID)
	}
	if s.metrics != nil {
		s.metrics.IncrementMemberJoined()
	}
	s.logJoin(callerID, joinedID, memberCount)

	return &dto.JoinBoardResponse{BoardID: joinedID, MemberCount: memberCount}, nil
}

// LeaveBoard detaches the caller's membership after the role and emptiness
// guards pass, all under the board's row lock
func (s *membershipServiceImpl) LeaveBoard(ctx context.Context, callerID, boardID uuid.UUID) error {
	err := s.boardRepo.WithinBoardTx(ctx, boardID, func(txRepo repository.BoardRepository, board *domain.Board) error {
		membership, err := txRepo.FindMembership(ctx, board.ID, callerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewAppError(response.ErrCodeForbidden, "User cannot leave a board they are not a member of", "")
			}
			return err
		}

		role := membership.Role
		if !CanLeave(&role) {
			return response.NewAppError(response.ErrCodeForbidden, "The master cannot leave a board", "")
		}

		// Unreachable while the master is immortal, kept as an explicit
		// second guard: a leave must never empty a board.
		count, err := txRepo.CountMembers(ctx, board.ID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return response.NewAppError(response.ErrCodeForbidden, "User cannot leave a board that would become empty", "")
		}

		return txRepo.DetachMember(ctx, board.ID, callerID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return asAppError(err, "Failed to leave board")
	}

	if s.metrics != nil {
		s.metrics.IncrementMemberLeft()
	}
	s.logger.Info("Member left board",
		zap.String("board_id", boardID.String()),
		zap.String("user_id", callerID.String()),
	)
	return nil
}

// DeleteBoard removes a board and all its membership rows, master only. A
// caller with no membership row resolves to a permission error, never a crash.
func (s *membershipServiceImpl) DeleteBoard(ctx context.Context, callerID, boardID uuid.UUID) error {
	var code string
	err := s.boardRepo.WithinBoardTx(ctx, boardID, func(txRepo repository.BoardRepository, board *domain.Board) error {
		role, err := RoleOf(ctx, txRepo, board.ID, callerID)
		if err != nil {
			return err
		}
		if !CanDelete(role) {
			return response.NewAppError(response.ErrCodeForbidden, "Only the master may delete a board", "")
		}

		code = board.Code
		return txRepo.Delete(ctx, board.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return asAppError(err, "Failed to delete board")
	}

	if s.codeCache != nil {
		s.codeCache.Invalidate(ctx, code)
	}
	if s.metrics != nil {
		s.metrics.IncrementBoardDeleted()
	}
	s.logger.Info("Board deleted",
		zap.String("board_id", boardID.String()),
		zap.String("user_id", callerID.String()),
	)
	return nil
}

// ListBoards returns only the boards the caller is a member of, each with its
// member count
func (s *membershipServiceImpl) ListBoards(ctx context.Context, callerID uuid.UUID) ([]*dto.BoardResponse, error) {
	rows, err := s.boardRepo.BoardsOf(ctx, callerID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list boards", err.Error())
	}

	responses := make([]*dto.BoardResponse, len(rows))
	for i, row := range rows {
		responses[i] = toBoardResponse(&row.Board, row.MemberCount)
	}
	return responses, nil
}

// GetBoard returns board details with the full roster, members only. A
// non-member gets the same NotFound as a nonexistent board, so board existence
// never leaks across tenants.
func (s *membershipServiceImpl) GetBoard(ctx context.Context, callerID, boardID uuid.UUID) (*dto.BoardDetailResponse, error) {
	_, err := s.boardRepo.FindMembership(ctx, boardID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify membership", err.Error())
	}

	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch board", err.Error())
	}

	memberships, err := s.boardRepo.MembersOf(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch members", err.Error())
	}

	names := s.resolveNames(ctx, memberships)

	members := make([]dto.MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = dto.MemberResponse{
			UserID:   m.UserID,
			Name:     names[m.UserID],
			Role:     m.Role,
			JoinedAt: m.CreatedAt,
		}
	}

	detail := &dto.BoardDetailResponse{
		BoardResponse: *toBoardResponse(board, int64(len(memberships))),
		Members:       members,
	}
	return detail, nil
}

// resolveCode consults the cache first; a miss is resolved by the join
// transaction's code lookup
func (s *membershipServiceImpl) resolveCode(ctx context.Context, code string) (uuid.UUID, bool) {
	if s.codeCache == nil {
		return uuid.Nil, false
	}
	return s.codeCache.Resolve(ctx, code)
}

// classifyJoinError translates transaction errors into the join error taxonomy
func (s *membershipServiceImpl) classifyJoinError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if s.metrics != nil {
			s.metrics.IncrementJoinRejected("invalid_code")
		}
		// Deliberately a validation error, not NotFound: a malformed code and
		// an unknown code are indistinguishable to the caller
		return response.NewAppError(response.ErrCodeValidation, "The code is invalid or does not exist.", "")
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		if s.metrics != nil {
			switch appErr.Code {
			case response.ErrCodeAlreadyMember:
				s.metrics.IncrementJoinRejected("already_member")
			case response.ErrCodeBoardFull:
				s.metrics.IncrementJoinRejected("board_full")
			}
		}
		return appErr
	}

	return response.NewAppError(response.ErrCodeInternal, "Failed to join board", err.Error())
}

// resolveNames fetches display names for a roster, best effort
func (s *membershipServiceImpl) resolveNames(ctx context.Context, memberships []*domain.Membership) map[uuid.UUID]string {
	if s.names == nil || len(memberships) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(memberships))
	for i, m := range memberships {
		ids[i] = m.UserID
	}
	names, err := s.names.DisplayNames(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to resolve member display names", zap.Error(err))
		return nil
	}
	return names
}

func (s *membershipServiceImpl) logJoin(callerID, boardID uuid.UUID, count int64) {
	s.logger.Info("Member joined board",
		zap.String("board_id", boardID.String()),
		zap.String("user_id", callerID.String()),
		zap.Int64("member_count", count),
	)
}

// validateCreateBoard applies the board creation rules and returns per-field
// messages for every violation
func validateCreateBoard(req *dto.CreateBoardRequest) map[string]string {
	fields := make(map[string]string)

	// Limits count characters, not bytes, so multibyte names are not
	// penalized by their UTF-8 encoding
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "The name field is required."
	} else if utf8.RuneCountInString(name) > 50 {
		fields["name"] = "The name may not be greater than 50 characters."
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		fields["description"] = "The description field is required."
	} else if utf8.RuneCountInString(description) > 255 {
		fields["description"] = "The description may not be greater than 255 characters."
	}

	if req.Capacity < domain.MinCapacity {
		fields["capacity"] = fmt.Sprintf("The capacity must be at least %d.", domain.MinCapacity)
	}

	return fields
}

// asAppError passes AppErrors through and wraps anything else as internal
func asAppError(err error, message string) error {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return response.NewAppError(response.ErrCodeInternal, message, err.Error())
}

// toBoardResponse converts a domain board plus member count to its DTO
func toBoardResponse(board *domain.Board, memberCount int64) *dto.BoardResponse {
	return &dto.BoardResponse{
		ID:          board.ID,
		Name:        board.Name,
		Description: board.Description,
		Capacity:    board.Capacity,
		Code:        board.Code,
		MemberCount: memberCount,
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
}
