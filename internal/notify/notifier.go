// Package notify is the alert sink: alerts are logged for the operator and
// recorded in the alerts relation.
package notify

import (
	"github.com/abelbrown/epiwatch/internal/logging"
	"github.com/abelbrown/epiwatch/internal/store"
)

// Notifier delivers alerts. A nil store (dry runs) logs only.
type Notifier struct {
	store *store.Store
}

// NewNotifier creates a Notifier writing to the given store.
func NewNotifier(st *store.Store) *Notifier {
	return &Notifier{store: st}
}

// SendAlert logs an alert and records it in the store. A failed store write
// is logged and absorbed; alert delivery never fails the caller.
func (n *Notifier) SendAlert(alertType, severity, message string) {
	logging.Warn("ALERT", "type", alertType, "severity", severity, "message", message)

	if n.store == nil {
		return
	}
	if err := n.store.InsertAlert(alertType, severity, message); err != nil {
		logging.Error("failed to persist alert", "type", alertType, "error", err)
	}
}
