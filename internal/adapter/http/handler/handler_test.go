package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"confidential-lending/internal/adapter/http/middleware"
	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports"
	"confidential-lending/internal/core/ports/mocks"
	"confidential-lending/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")

// newContext builds a test context authenticated as alice.
func newContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAccount, alice)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func testAccount() *domain.Account {
	return &domain.Account{
		Owner:     alice,
		Wrapped:   common.HexToHash("0x01"),
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// --- Ledger Handler Tests ---

func TestWrap_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewLedgerHandler(engine)

	engine.EXPECT().Wrap(gomock.Any(), alice, uint64(1000)).Return(testAccount(), nil)

	c, w := newContext(http.MethodPost, "/api/v1/wrap", gin.H{"amount": 1000})
	h.Wrap(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, alice.Hex(), data["owner"])
	assert.Equal(t, common.HexToHash("0x01").Hex(), data["wrapped"])
	assert.NotContains(t, data, "in_pool")
}

func TestWrap_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewLedgerHandler(mocks.NewMockLendingEngine(ctrl))

	for _, body := range []interface{}{nil, gin.H{"amount": 0}, gin.H{"amount": -5}} {
		c, w := newContext(http.MethodPost, "/api/v1/wrap", body)
		h.Wrap(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}
}

func TestWrap_InsufficientAllowance(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewLedgerHandler(engine)

	engine.EXPECT().Wrap(gomock.Any(), alice, uint64(10)).
		Return(nil, apperror.ErrInsufficientAllowance(errors.New("allowance 0")))

	c, w := newContext(http.MethodPost, "/api/v1/wrap", gin.H{"amount": 10})
	h.Wrap(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "BAL_002", decode(t, w)["error_code"])
}

func TestUnwrap_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewLedgerHandler(engine)

	engine.EXPECT().Unwrap(gomock.Any(), alice, uint64(5000)).Return(nil, apperror.ErrInsufficientBalance())

	c, w := newContext(http.MethodPost, "/api/v1/unwrap", gin.H{"amount": 5000})
	h.Unwrap(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "BAL_001", decode(t, w)["error_code"])
}

func TestLend_Accepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewLedgerHandler(engine)

	earmarked := common.HexToHash("0xe1")
	engine.EXPECT().SubmitDeposit(gomock.Any(), alice, domain.EncryptedInput{
		Ciphertext: []byte{0xde, 0xad},
		Proof:      []byte{0x01, 0x02},
	}).Return(&ports.SubmissionReceipt{
		RoundID: 7,
		Account: alice,
		Kind:    ports.SubmissionDeposit,
		Amount:  earmarked,
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/lend", gin.H{"ciphertext": "0xdead", "proof": "0x0102"})
	h.Lend(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["round_id"])
	assert.Equal(t, "DEPOSIT", data["kind"])
	assert.Equal(t, earmarked.Hex(), data["amount"])
}

func TestLend_RejectsMalformedInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewLedgerHandler(mocks.NewMockLendingEngine(ctrl))

	c, w := newContext(http.MethodPost, "/api/v1/lend", gin.H{"ciphertext": "dead", "proof": "0x01"})
	h.Lend(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAL_003", decode(t, w)["error_code"])
}

func TestWithdraw_RoundPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewLedgerHandler(engine)

	engine.EXPECT().SubmitWithdraw(gomock.Any(), alice, gomock.Any()).Return(nil, apperror.ErrRoundPending())

	c, w := newContext(http.MethodPost, "/api/v1/withdraw", gin.H{"ciphertext": "0x01", "proof": "0x02"})
	h.Withdraw(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RND_003", decode(t, w)["error_code"])
}

func TestWithdraw_InvalidProof(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewLedgerHandler(engine)

	engine.EXPECT().SubmitWithdraw(gomock.Any(), alice, gomock.Any()).Return(nil, apperror.ErrInvalidProof())

	c, w := newContext(http.MethodPost, "/api/v1/withdraw", gin.H{"ciphertext": "0x01", "proof": "0x02"})
	h.Withdraw(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INP_001", decode(t, w)["error_code"])
}

func TestGetAccount_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewLedgerHandler(engine)

	engine.EXPECT().GetAccount(gomock.Any(), alice).Return(nil, apperror.ErrNotFound("account"))

	c, w := newContext(http.MethodGet, "/api/v1/accounts/me", nil)
	h.GetAccount(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRevealBalance_OwnerOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewLedgerHandler(engine)

	engine.EXPECT().RevealBalance(gomock.Any(), alice, alice).
		Return(&ports.RevealedBalance{Wrapped: 400, InPool: 612}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/accounts/me/balance", nil)
	h.RevealBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(400), data["wrapped"])
	assert.Equal(t, float64(612), data["in_pool"])
}

func TestLedger_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewLedgerHandler(mocks.NewMockLendingEngine(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/accounts/me", nil)
	h.GetAccount(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Round Handler Tests ---

func testRound(id uint64, state domain.RoundState) domain.Round {
	return domain.Round{
		ID:                 id,
		State:              state,
		OpenedAt:           time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		PoolSnapshotBefore: 1_000_000,
	}
}

func TestRoundCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewRoundHandler(engine)

	r := testRound(4, domain.RoundStateOpen)
	engine.EXPECT().CurrentRound(gomock.Any()).Return(&r, nil)

	c, w := newContext(http.MethodGet, "/api/v1/rounds/current", nil)
	h.Current(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["id"])
	assert.Equal(t, "OPEN", data["state"])
	assert.NotContains(t, data, "net_flow")
}

func TestRoundGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewRoundHandler(engine)

	yield := int64(500)
	r := testRound(2, domain.RoundStateSettled)
	r.Yield = &yield
	engine.EXPECT().GetRound(gomock.Any(), uint64(2)).Return(&r, nil)
	engine.EXPECT().GetRound(gomock.Any(), uint64(99)).Return(nil, apperror.ErrNotFound("round"))

	c, w := newContext(http.MethodGet, "/api/v1/rounds/2", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	h.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(500), decode(t, w)["data"].(map[string]interface{})["yield"])

	c, w = newContext(http.MethodGet, "/api/v1/rounds/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, bad := range []string{"0", "-1", "abc"} {
		c, w = newContext(http.MethodGet, "/api/v1/rounds/"+bad, nil)
		c.Params = gin.Params{{Key: "id", Value: bad}}
		h.Get(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", bad)
	}
}

func TestRoundList(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockLendingEngine(ctrl)
	h := NewRoundHandler(engine)

	engine.EXPECT().ListRounds(gomock.Any(), 20, 0).
		Return([]domain.Round{testRound(3, domain.RoundStateOpen), testRound(2, domain.RoundStateSettled)}, nil)
	engine.EXPECT().ListRounds(gomock.Any(), 5, 10).Return([]domain.Round{}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/rounds", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["rounds"], 2)
	assert.Equal(t, float64(20), data["limit"])

	c, w = newContext(http.MethodGet, "/api/v1/rounds?limit=5&offset=10", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodGet, "/api/v1/rounds?limit=500", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoundAdvance(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"accepted", nil, http.StatusAccepted, ""},
		{"not ready", apperror.ErrRoundNotReady(), http.StatusTooEarly, "RND_001"},
		{"already pending", apperror.ErrRoundAlreadyPending(), http.StatusConflict, "RND_002"},
		{"pool failure", apperror.ErrPoolCallFailed(errors.New("paused")), http.StatusBadGateway, "EXT_002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := mocks.NewMockLendingEngine(ctrl)
			h := NewRoundHandler(engine)

			if tt.err != nil {
				engine.EXPECT().AdvanceRound(gomock.Any()).Return(nil, tt.err)
			} else {
				r := testRound(5, domain.RoundStateDecryptionPending)
				engine.EXPECT().AdvanceRound(gomock.Any()).Return(&r, nil)
			}

			c, w := newContext(http.MethodPost, "/api/v1/rounds/advance", nil)
			h.Advance(c)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decode(t, w)["error_code"])
			}
		})
	}
}

// --- Health Check Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/ok", HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis"}))
	r.GET("/degraded", HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis", err: errors.New("connection refused")}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/degraded", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "degraded", body["status"])
	redis := body["dependencies"].(map[string]interface{})["redis"].(map[string]interface{})
	assert.Equal(t, "connection refused", redis["error"])
}
