package handler

import (
	"strconv"

	"confidential-lending/internal/adapter/http/dto"
	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"
	"confidential-lending/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultRoundPageSize = 20

// RoundHandler exposes the round log and the operator's advance trigger.
type RoundHandler struct {
	engine ports.LendingEngine
}

// NewRoundHandler creates a new RoundHandler.
func NewRoundHandler(engine ports.LendingEngine) *RoundHandler {
	return &RoundHandler{engine: engine}
}

// Current handles GET /api/v1/rounds/current.
func (h *RoundHandler) Current(c *gin.Context) {
	round, err := h.engine.CurrentRound(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRoundResponse(round))
}

// Get handles GET /api/v1/rounds/:id.
func (h *RoundHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperror.Validation("round id must be a positive integer"))
		return
	}

	round, err := h.engine.GetRound(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRoundResponse(round))
}

// List handles GET /api/v1/rounds.
func (h *RoundHandler) List(c *gin.Context) {
	var q dto.ListRoundsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultRoundPageSize
	}

	rounds, err := h.engine.ListRounds(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.RoundResponse, len(rounds))
	for i := range rounds {
		items[i] = dto.NewRoundResponse(&rounds[i])
	}
	response.OK(c, dto.RoundListResponse{Rounds: items, Limit: q.Limit, Offset: q.Offset})
}

// Advance handles POST /api/v1/rounds/advance. Settlement happens later,
// when the oracle delivers.
func (h *RoundHandler) Advance(c *gin.Context) {
	round, err := h.engine.AdvanceRound(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, dto.NewRoundResponse(round))
}
