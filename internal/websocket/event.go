package websocket

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/google/uuid"
)

// EventType represents the type of change (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeAccount     EntityType = "account"
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeCategory    EntityType = "category"
)

// ParseEntityType accepts both singular and plural entity names
func ParseEntityType(s string) (EntityType, bool) {
	switch s {
	case "account", "accounts":
		return EntityTypeAccount, true
	case "transaction", "transactions":
		return EntityTypeTransaction, true
	case "category", "categories":
		return EntityTypeCategory, true
	}
	return "", false
}

// Event represents a change notification sent to clients
// Type combines entity and action, e.g. "transaction.created"
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// AccountChange is the payload of account events. Listeners treat it as a
// generic "accounts changed" signal; the id is informational.
type AccountChange struct {
	AccountID int32     `json:"accountId"`
	Action    EventType `json:"action"`
}

// TransactionChange names every account whose views must refresh
type TransactionChange struct {
	TransactionID int32     `json:"transactionId"`
	AccountIDs    []int32   `json:"accountIds"`
	Action        EventType `json:"action"`
}

// CategoryChange carries the category identity plus the optional token a caller
// supplied when creating the category inline from another form
type CategoryChange struct {
	ID               int32     `json:"id"`
	Name             string    `json:"name,omitempty"`
	Action           EventType `json:"action"`
	CorrelationToken string    `json:"correlationToken,omitempty"`
}

// AffectedAccounts returns the distinct non-zero account ids in ascending order.
// It never returns nil so the JSON form is always an array.
func AffectedAccounts(ids ...int32) []int32 {
	seen := make(map[int32]bool, len(ids))
	result := make([]int32, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// AccountCreated creates an account.created event
func AccountCreated(accountID int32) Event {
	return NewEvent(EventTypeCreated, EntityTypeAccount, AccountChange{AccountID: accountID, Action: EventTypeCreated})
}

// AccountUpdated creates an account.updated event
func AccountUpdated(accountID int32) Event {
	return NewEvent(EventTypeUpdated, EntityTypeAccount, AccountChange{AccountID: accountID, Action: EventTypeUpdated})
}

// AccountDeleted creates an account.deleted event
func AccountDeleted(accountID int32) Event {
	return NewEvent(EventTypeDeleted, EntityTypeAccount, AccountChange{AccountID: accountID, Action: EventTypeDeleted})
}

// TransactionCreated creates a transaction.created event for the owning account
func TransactionCreated(transactionID, accountID int32) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, TransactionChange{
		TransactionID: transactionID,
		AccountIDs:    AffectedAccounts(accountID),
		Action:        EventTypeCreated,
	})
}

// TransactionUpdated creates a transaction.updated event naming both the
// previous and the current account, so moving A to B refreshes A and B
func TransactionUpdated(transactionID, previousAccountID, accountID int32) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, TransactionChange{
		TransactionID: transactionID,
		AccountIDs:    AffectedAccounts(previousAccountID, accountID),
		Action:        EventTypeUpdated,
	})
}

// TransactionDeleted creates a transaction.deleted event. A zero accountID yields an empty account list.
func TransactionDeleted(transactionID, accountID int32) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, TransactionChange{
		TransactionID: transactionID,
		AccountIDs:    AffectedAccounts(accountID),
		Action:        EventTypeDeleted,
	})
}

// CategoryCreated creates a category.created event
func CategoryCreated(category *domain.Category, correlationToken string) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategory, CategoryChange{
		ID:               category.ID,
		Name:             category.Name,
		Action:           EventTypeCreated,
		CorrelationToken: correlationToken,
	})
}

// CategoryUpdated creates a category.updated event
func CategoryUpdated(category *domain.Category, correlationToken string) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCategory, CategoryChange{
		ID:               category.ID,
		Name:             category.Name,
		Action:           EventTypeUpdated,
		CorrelationToken: correlationToken,
	})
}

// CategoryDeleted creates a category.deleted event
func CategoryDeleted(categoryID int32) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCategory, CategoryChange{
		ID:     categoryID,
		Action: EventTypeDeleted,
	})
}
