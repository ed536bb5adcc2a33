package events

import (
	"context"

	"github.com/google/uuid"
)

// Streams
const (
	StreamContract = "events:contract"
	StreamPayment  = "events:payment"
)

// Event types
const (
	EventContractReceived = "contract_received"
	EventContractAgreed   = "contract_agreed"
	EventContractRejected = "contract_rejected"
	EventPaymentCompleted = "payment_completed"
	EventPaymentFailed    = "payment_failed"
	EventPaymentReminder  = "payment_reminder"
)

// Payload keys shared by producers and consumers.
const (
	KeyContractID    = "contract_id"
	KeyTitle         = "title"
	KeyTemplateType  = "template_type"
	KeyContractValue = "contract_value"
	KeyPaymentMethod = "payment_method"
	KeyActorID       = "actor_id"
	KeyReason        = "reason"
	KeyAmount        = "amount"
	KeyFee           = "fee"
	KeyRecipients    = "recipients"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, handler func(Event), streams ...string) error
}

// WithRecipients sets the users an event is addressed to.
func (e Event) WithRecipients(ids ...uuid.UUID) Event {
	if e.Payload == nil {
		e.Payload = map[string]any{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != uuid.Nil {
			out = append(out, id.String())
		}
	}
	e.Payload[KeyRecipients] = out
	return e
}

// Recipients reads the addressed users back. It accepts both the in-process
// []string form and the []any form produced by JSON decoding.
func (e Event) Recipients() []uuid.UUID {
	var raw []string
	switch v := e.Payload[KeyRecipients].(type) {
	case []string:
		raw = v
	case []any:
		for _, x := range v {
			if s, ok := x.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// String returns a payload value as a string, or "" when absent.
func (e Event) String(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

// Int returns a numeric payload value. JSON decoding turns numbers into float64.
func (e Event) Int(key string) int64 {
	switch v := e.Payload[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
