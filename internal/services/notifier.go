package services

import (
	"context"

	"backoffice/internal/amqp"
	"backoffice/internal/log"
)

// Notifier is told about every committed write that can move a report.
// Implementations must not fail the write: errors are theirs to log.
type Notifier interface {
	LedgerChanged(ctx context.Context, entity, entityID, operation string, year int)
}

// NopNotifier drops every event. Used when AMQP is not configured.
type NopNotifier struct{}

func (NopNotifier) LedgerChanged(context.Context, string, string, string, int) {}

// AMQPNotifier publishes ledger.changed events.
type AMQPNotifier struct {
	client *amqp.Client
	logger *log.Logger
}

func NewAMQPNotifier(client *amqp.Client, logger *log.Logger) *AMQPNotifier {
	if logger == nil {
		logger = log.Discard()
	}
	return &AMQPNotifier{client: client, logger: logger.WithComponent(log.ComponentAMQP)}
}

func (n *AMQPNotifier) LedgerChanged(ctx context.Context, entity, entityID, operation string, year int) {
	if n.client == nil {
		n.logger.WarnContext(ctx, "AMQP client not available, skipping ledger event")
		return
	}
	msg := amqp.NewLedgerChangedMessage(entity, entityID, operation, year)
	if err := n.client.PublishLedgerChanged(ctx, msg); err != nil {
		// The write is already committed; the exporter catches up on the next event.
		n.logger.ErrorContext(ctx, "Failed to publish ledger event",
			log.FieldError, err,
			log.FieldEntity, entity,
			log.FieldEntityID, entityID,
			log.FieldOperation, operation)
	}
}

// Notifiers fans one event out to every member in order.
type Notifiers []Notifier

func (ns Notifiers) LedgerChanged(ctx context.Context, entity, entityID, operation string, year int) {
	for _, n := range ns {
		if n != nil {
			n.LedgerChanged(ctx, entity, entityID, operation, year)
		}
	}
}

// notifyYears reports one write once per distinct year. Updates that move a
// record's date pass both the stored and the new year.
func notifyYears(ctx context.Context, n Notifier, entity, id, op string, years ...int) {
	seen := make(map[int]bool, len(years))
	for _, y := range years {
		if !seen[y] {
			seen[y] = true
			n.LedgerChanged(ctx, entity, id, op, y)
		}
	}
}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return NopNotifier{}
	}
	return n
}
