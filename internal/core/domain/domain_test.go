package domain

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRound_IsOpen(t *testing.T) {
	tests := []struct {
		name  string
		state RoundState
		want  bool
	}{
		{"open", RoundStateOpen, true},
		{"pending", RoundStateDecryptionPending, false},
		{"settled", RoundStateSettled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Round{State: tt.state}
			assert.Equal(t, tt.want, r.IsOpen())
		})
	}
}

func TestRound_ReadyAt(t *testing.T) {
	opened := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &Round{OpenedAt: opened}

	assert.Equal(t, opened.Add(time.Minute), r.ReadyAt(time.Minute))
	assert.Equal(t, opened, r.ReadyAt(0))
}

func TestAccount_HasPoolPosition(t *testing.T) {
	a := &Account{Owner: common.HexToAddress("0xb0b")}
	assert.False(t, a.HasPoolPosition())

	a.InPool = common.HexToHash("0x01")
	assert.True(t, a.HasPoolPosition())
}

func TestIsZeroHandle(t *testing.T) {
	assert.True(t, IsZeroHandle(Handle{}))
	assert.False(t, IsZeroHandle(common.HexToHash("0xabc")))
}

func TestDecryptionRequest_ExpectedCleartexts(t *testing.T) {
	req := &DecryptionRequest{
		ID:      uuid.New(),
		RoundID: 3,
		Handles: make([]Handle, AggregateHandleCount+2*2),
		Status:  DecryptionStatusPending,
	}

	assert.Equal(t, 7, req.ExpectedCleartexts())
}
