package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"game-board-api/internal/dto"
	"game-board-api/internal/response"
	"game-board-api/internal/service"
)

// BoardHandler exposes the membership lifecycle over HTTP
type BoardHandler struct {
	membershipService service.MembershipService
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(membershipService service.MembershipService) *BoardHandler {
	return &BoardHandler{
		membershipService: membershipService,
	}
}

// CreateBoard godoc
// @Summary      Create a board
// @Description  Creates a board and attaches the caller as its master
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBoardRequest true "Board attributes"
// @Success      201 {object} response.SuccessResponse{data=dto.BoardResponse}
// @Failure      422 {object} response.ErrorResponse "Validation failed"
// @Router       /boards [post]
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	callerID, ok := CallerID(c)
	if !ok {
		return
	}

	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	board, err := h.membershipService.CreateBoard(c.Request.Context(), callerID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, board)
}

// JoinBoard godoc
// @Summary      Join a board by code
// @Description  Redeems a join code and attaches the caller as a player
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        request body dto.JoinBoardRequest true "Join code"
// @Success      201 {object} response.SuccessResponse{data=dto.JoinBoardResponse}
// @Failure      422 {object} response.ErrorResponse "Missing or unknown code"
// @Failure      409 {object} response.ErrorResponse "Already a member"
// @Failure      403 {object} response.ErrorResponse "Board is full"
// @Router       /boards/join [post]
func (h *BoardHandler) JoinBoard(c *gin.Context) {
	callerID, ok := CallerID(c)
	if !ok {
		return
	}

	var req dto.JoinBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.membershipService.JoinBoard(c.Request.Context(), callerID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, result)
}

// LeaveBoard godoc
// @Summary      Leave a board
// @Description  Detaches the caller from the board; masters may never leave
// @Tags         boards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse "Board not found"
// @Failure      403 {object} response.ErrorResponse "Not a member, master, or last member"
// @Router       /boards/{boardId}/leave [delete]
func (h *BoardHandler) LeaveBoard(c *gin.Context) {
	callerID, ok := CallerID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("boardId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Board not found")
		return
	}

	if err := h.membershipService.LeaveBoard(c.Request.Context(), callerID, boardID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "The user has successfully left the board."})
}

// DeleteBoard godoc
// @Summary      Delete a board
// @Description  Deletes the board and all its memberships, master only
// @Tags         boards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse "Board not found"
// @Failure      403 {object} response.ErrorResponse "Caller is not the master"
// @Router       /boards/{boardId} [delete]
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	callerID, ok := CallerID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("boardId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Board not found")
		return
	}

	if err := h.membershipService.DeleteBoard(c.Request.Context(), callerID, boardID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "The board has been deleted successfully."})
}

// ListBoards godoc
// @Summary      List the caller's boards
// @Description  Returns every board the caller is a member of with its member count
// @Tags         boards
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.BoardResponse}
// @Router       /boards [get]
func (h *BoardHandler) ListBoards(c *gin.Context) {
	callerID, ok := CallerID(c)
	if !ok {
		return
	}

	boards, err := h.membershipService.ListBoards(c.Request.Context(), callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, boards)
}

// GetBoard godoc
// @Summary      Show a board with its roster
// @Description  Returns board details and members, visible to members only
// @Tags         boards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.BoardDetailResponse}
// @Failure      404 {object} response.ErrorResponse "Board not found or not a member"
// @Router       /boards/{boardId} [get]
func (h *BoardHandler) GetBoard(c *gin.Context) {
	callerID, ok := CallerID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("boardId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Board not found")
		return
	}

	board, err := h.membershipService.GetBoard(c.Request.Context(), callerID, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, board)
}
