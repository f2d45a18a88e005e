package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"

	"github.com/chicken-dinner-club/pubg-tracker/internal/pubgapi"
)

// NATSNotifier publishes match notifications to a NATS subject through
// watermill. The renderer subscribes on the other side.
type NATSNotifier struct {
	publisher message.Publisher
	subject   string
	logger    *slog.Logger
}

// NewNATSNotifier connects to NATS and returns a notifier publishing to the
// given subject.
func NewNATSNotifier(natsURL, subject string, logger *slog.Logger) (*NATSNotifier, error) {
	watermillLogger := watermill.NewSlogLogger(logger)

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:       natsURL,
			Marshaler: &wmnats.NATSMarshaler{},
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	return &NATSNotifier{
		publisher: publisher,
		subject:   subject,
		logger:    logger,
	}, nil
}

// NewPublisherNotifier wraps an existing watermill publisher. Used by tests
// and by callers providing their own transport.
func NewPublisherNotifier(publisher message.Publisher, subject string, logger *slog.Logger) *NATSNotifier {
	return &NATSNotifier{
		publisher: publisher,
		subject:   subject,
		logger:    logger,
	}
}

// Deliver publishes one notification. The processed mark must only be written
// after a nil return.
func (n *NATSNotifier) Deliver(ctx context.Context, summary MatchSummary, squad []pubgapi.ParticipantRecord, events []pubgapi.TelemetryEvent) error {
	payload, err := json.Marshal(MatchNotification{
		Summary: summary,
		Squad:   squad,
		Events:  events,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal match notification: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("match_id", summary.MatchID)

	if err := n.publisher.Publish(n.subject, msg); err != nil {
		return fmt.Errorf("failed to publish match notification: %w", err)
	}

	n.logger.Info("match notification published",
		slog.String("match_id", summary.MatchID),
		slog.String("subject", n.subject),
		slog.Int("squad_size", len(squad)),
		slog.Int("event_count", len(events)))
	return nil
}

// Close releases the underlying publisher.
func (n *NATSNotifier) Close() error {
	return n.publisher.Close()
}
