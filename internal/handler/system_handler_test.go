package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dafibh/household/household-backend/internal/service"
	"github.com/dafibh/household/household-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func TestHealth(t *testing.T) {
	ledger := service.NewLedgerService(testutil.NewMockAccountRepository(), testutil.NewMockTransactionRepository(), nil)

	tests := []struct {
		name     string
		db       Pinger
		status   int
		database string
	}{
		{"no database", nil, http.StatusOK, "not configured"},
		{"database up", stubPinger{}, http.StatusOK, "ok"},
		{"database down", stubPinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			h := NewSystemHandler(tt.db, ledger)

			c, rec := env.getContext("/health")
			require.NoError(t, h.Health(c))

			assert.Equal(t, tt.status, rec.Code)
			var response HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, tt.database, response.Database)
		})
	}
}

func TestServerTime_UsesDisplayZone(t *testing.T) {
	env := newTestEnv()

	c, rec := env.getContext("/api/v1/server-time")
	require.NoError(t, env.systemHandler.ServerTime(c))

	var response ServerTimeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "2026-02-20T09:00:00-05:00", response.Time)
	assert.Equal(t, "2026-02-20 09:00:00 EST", response.Display)
	assert.Equal(t, "EST", response.TimeZone)
}
