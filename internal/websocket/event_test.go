package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EventType
		expected string
	}{
		{"created", EventTypeCreated, "created"},
		{"updated", EventTypeUpdated, "updated"},
		{"deleted", EventTypeDeleted, "deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		input    string
		expected EntityType
		ok       bool
	}{
		{"account", EntityTypeAccount, true},
		{"accounts", EntityTypeAccount, true},
		{"transactions", EntityTypeTransaction, true},
		{"category", EntityTypeCategory, true},
		{"loan", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseEntityType(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := AccountChange{AccountID: 1, Action: EventTypeCreated}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeAccount, payload)
	after := time.Now()

	assert.Equal(t, "account.created", evt.Type)
	assert.Equal(t, EntityTypeAccount, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.NotEmpty(t, evt.ID)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	evt := Event{
		ID:        "evt-1",
		Type:      "transaction.updated",
		Entity:    EntityTypeTransaction,
		Payload:   TransactionChange{TransactionID: 9, AccountIDs: []int32{1, 2}, Action: EventTypeUpdated},
		Timestamp: fixedTime,
	}

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "transaction.updated", decoded["type"])
	assert.Equal(t, "transaction", decoded["entity"])
	assert.Equal(t, "2026-01-15T10:30:00Z", decoded["timestamp"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(9), payload["transactionId"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, payload["accountIds"])
	assert.Equal(t, "updated", payload["action"])
}

func TestAffectedAccounts(t *testing.T) {
	tests := []struct {
		name     string
		ids      []int32
		expected []int32
	}{
		{"single account", []int32{3}, []int32{3}},
		{"moved between accounts", []int32{5, 2}, []int32{2, 5}},
		{"same account twice", []int32{4, 4}, []int32{4}},
		{"zero is dropped", []int32{0}, []int32{}},
		{"nothing", nil, []int32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AffectedAccounts(tt.ids...))
		})
	}
}

func TestTransactionUpdated_UnionOfAccounts(t *testing.T) {
	evt := TransactionUpdated(10, 1, 2)

	change, ok := evt.Payload.(TransactionChange)
	require.True(t, ok)
	assert.Equal(t, []int32{1, 2}, change.AccountIDs)
	assert.Equal(t, int32(10), change.TransactionID)
	assert.Equal(t, "transaction.updated", evt.Type)
}

func TestTransactionDeleted_NoAccount(t *testing.T) {
	evt := TransactionDeleted(10, 0)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accountIds":[]`)
}

func TestCategoryEvents(t *testing.T) {
	category := &domain.Category{ID: 4, Name: "Groceries", Slug: "groceries"}

	created := CategoryCreated(category, "txn-form-1")
	change, ok := created.Payload.(CategoryChange)
	require.True(t, ok)
	assert.Equal(t, CategoryChange{ID: 4, Name: "Groceries", Action: EventTypeCreated, CorrelationToken: "txn-form-1"}, change)

	deleted := CategoryDeleted(4)
	data, err := deleted.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"payload":{"id":4,"action":"deleted"}`)
}
