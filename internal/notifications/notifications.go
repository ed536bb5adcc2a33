// Package notifications turns contract and payment events into in-app
// notification rows, one per addressed user.
package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/events"
	"github.com/shokulab/backend/internal/metrics"
	"github.com/shokulab/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Store interface {
	Create(ctx context.Context, n *models.InAppNotification) error
}

type Bridge struct {
	store   Store
	printer *message.Printer
	log     *zap.Logger
}

func NewBridge(store Store, log *zap.Logger) *Bridge {
	return &Bridge{store: store, printer: message.NewPrinter(language.Japanese), log: log}
}

// Build returns the rows an event produces. Events it does not know, and
// events without recipients, produce none. The acting user is never notified
// of their own action.
func (b *Bridge) Build(ev events.Event) []models.InAppNotification {
	title, body, ok := b.render(ev)
	if !ok {
		return nil
	}

	actor, _ := uuid.Parse(ev.String(events.KeyActorID))
	data := map[string]any{events.KeyContractID: ev.String(events.KeyContractID)}

	var out []models.InAppNotification
	for _, uid := range ev.Recipients() {
		if uid == actor {
			continue
		}
		out = append(out, models.InAppNotification{
			UserID: uid,
			Type:   ev.Type,
			Title:  title,
			Body:   body,
			Data:   data,
		})
	}
	return out
}

func (b *Bridge) render(ev events.Event) (title, body string, ok bool) {
	name := ev.String(events.KeyTitle)
	if name == "" {
		name = "契約書"
	}
	switch ev.Type {
	case events.EventContractReceived:
		return "契約書が届きました", fmt.Sprintf("「%s」の内容を確認して、同意または拒否してください。", name), true
	case events.EventContractAgreed:
		return "契約が成立しました", fmt.Sprintf("「%s」に相手方が同意しました。", name), true
	case events.EventContractRejected:
		body := fmt.Sprintf("「%s」は相手方により拒否されました。", name)
		if r := ev.String(events.KeyReason); r != "" {
			body += "理由：" + r
		}
		return "契約が拒否されました", body, true
	case events.EventPaymentCompleted:
		return "決済が完了しました", b.printer.Sprintf("「%s」の決済（%d円）が完了しました。", name, ev.Int(events.KeyAmount)), true
	case events.EventPaymentFailed:
		return "決済に失敗しました", fmt.Sprintf("「%s」の決済処理に失敗しました。お支払い方法をご確認ください。", name), true
	case events.EventPaymentReminder:
		return "お支払いのお願い", b.printer.Sprintf("「%s」のエスクロー決済（%d円）が未完了です。", name, ev.Int(events.KeyAmount)), true
	}
	return "", "", false
}

// Handle writes the rows for ev. Write failures are logged per row.
func (b *Bridge) Handle(ctx context.Context, ev events.Event) int {
	written := 0
	for _, n := range b.Build(ev) {
		if err := b.store.Create(ctx, &n); err != nil {
			b.log.Error("failed to write notification",
				zap.String("type", n.Type),
				zap.String("user_id", n.UserID.String()),
				zap.Error(err))
			continue
		}
		metrics.RecordNotification(n.Type)
		written++
	}
	return written
}
