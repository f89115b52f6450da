package websocket

import (
	"encoding/json"
	"fmt"
)

// HXTriggerHeader is the response header htmx reads client-side events from
const HXTriggerHeader = "HX-Trigger"

// Trigger names understood by the front end
const (
	TriggerAccountsChanged       = "accountsChanged"
	TriggerTransactionsChanged   = "transactionsChanged"
	TriggerCategoriesChanged     = "categoriesChanged"
	TriggerCloseAccountModal     = "closeAccountModal"
	TriggerCloseTransactionModal = "closeTransactionModal"
	TriggerCloseCategoryModal    = "closeCategoryModal"
)

type emptyDetail struct{}

// Triggers maps the event to the HX-Trigger object sent with a successful mutation.
// closeModal adds the companion "close the modal" signal for the entity's form.
func (e Event) Triggers(closeModal bool) (map[string]interface{}, error) {
	triggers := make(map[string]interface{}, 2)
	var modal string

	switch e.Entity {
	case EntityTypeAccount:
		triggers[TriggerAccountsChanged] = emptyDetail{}
		modal = TriggerCloseAccountModal
	case EntityTypeTransaction:
		change, ok := e.Payload.(TransactionChange)
		if !ok {
			return nil, fmt.Errorf("unexpected transaction payload %T", e.Payload)
		}
		triggers[TriggerTransactionsChanged] = map[string][]int32{"accountIds": change.AccountIDs}
		modal = TriggerCloseTransactionModal
	case EntityTypeCategory:
		change, ok := e.Payload.(CategoryChange)
		if !ok {
			return nil, fmt.Errorf("unexpected category payload %T", e.Payload)
		}
		triggers[TriggerCategoriesChanged] = change
		modal = TriggerCloseCategoryModal
	default:
		return nil, fmt.Errorf("no trigger for entity %q", e.Entity)
	}

	if closeModal {
		triggers[modal] = emptyDetail{}
	}
	return triggers, nil
}

// HXTrigger renders Triggers as the JSON header value
func (e Event) HXTrigger(closeModal bool) (string, error) {
	triggers, err := e.Triggers(closeModal)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(triggers)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
