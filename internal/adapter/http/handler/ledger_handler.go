package handler

import (
	"context"

	"confidential-lending/internal/adapter/http/dto"
	"confidential-lending/internal/adapter/http/middleware"
	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"
	"confidential-lending/pkg/response"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

type (
	amountOp func(ctx context.Context, owner common.Address, amount uint64) (*domain.Account, error)
	submitOp func(ctx context.Context, owner common.Address, input domain.EncryptedInput) (*ports.SubmissionReceipt, error)
)

// LedgerHandler handles the caller's confidential account.
type LedgerHandler struct {
	engine ports.LendingEngine
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(engine ports.LendingEngine) *LedgerHandler {
	return &LedgerHandler{engine: engine}
}

// Wrap handles POST /api/v1/wrap.
func (h *LedgerHandler) Wrap(c *gin.Context) {
	h.moveUnderlying(c, h.engine.Wrap)
}

// Unwrap handles POST /api/v1/unwrap.
func (h *LedgerHandler) Unwrap(c *gin.Context) {
	h.moveUnderlying(c, h.engine.Unwrap)
}

func (h *LedgerHandler) moveUnderlying(c *gin.Context, op amountOp) {
	owner, ok := middleware.Account(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	account, err := op(c.Request.Context(), owner, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewAccountResponse(account))
}

// Lend handles POST /api/v1/lend.
func (h *LedgerHandler) Lend(c *gin.Context) {
	h.submit(c, h.engine.SubmitDeposit)
}

// Withdraw handles POST /api/v1/withdraw.
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	h.submit(c, h.engine.SubmitWithdraw)
}

func (h *LedgerHandler) submit(c *gin.Context, op submitOp) {
	owner, ok := middleware.Account(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ConfidentialInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	ciphertext, err := dto.DecodeHex(req.Ciphertext)
	if err != nil {
		response.Error(c, apperror.Validation("ciphertext: "+err.Error()))
		return
	}
	proof, err := dto.DecodeHex(req.Proof)
	if err != nil {
		response.Error(c, apperror.Validation("proof: "+err.Error()))
		return
	}

	receipt, err := op(c.Request.Context(), owner, domain.EncryptedInput{Ciphertext: ciphertext, Proof: proof})
	if err != nil {
		response.Error(c, err)
		return
	}

	// Queued: the amount takes effect when the round settles.
	response.Accepted(c, dto.SubmissionResponse{
		RoundID: receipt.RoundID,
		Kind:    string(receipt.Kind),
		Amount:  receipt.Amount.Hex(),
	})
}

// GetAccount handles GET /api/v1/accounts/me.
func (h *LedgerHandler) GetAccount(c *gin.Context) {
	owner, ok := middleware.Account(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.engine.GetAccount(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewAccountResponse(account))
}

// RevealBalance handles GET /api/v1/accounts/me/balance.
func (h *LedgerHandler) RevealBalance(c *gin.Context) {
	owner, ok := middleware.Account(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, err := h.engine.RevealBalance(c.Request.Context(), owner, owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, balance)
}
