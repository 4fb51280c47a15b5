package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"tasklist-backend/application/ports"
	"tasklist-backend/domain"
)

const eventSource = "tasklist.api"

// Publisher sends domain events to an EventBridge bus.
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates an EventBridge publisher. With an empty bus name
// publishing is a no-op, which keeps local development free of AWS calls.
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends a single event. Failures are returned for the caller to
// decide whether they are fatal; writes are never rolled back over them.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	if p.eventBusName == "" {
		return nil
	}

	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event %s: %w", event.EventType(), err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.eventBusName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(event.EventType()),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(event.OccurredAt()),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publishing event %s: %w", event.EventType(), err)
	}

	if out.FailedEntryCount > 0 {
		entry := out.Entries[0]
		p.logger.Error("event bus rejected event",
			zap.String("eventType", event.EventType()),
			zap.String("errorCode", aws.ToString(entry.ErrorCode)),
			zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
		)
		return fmt.Errorf("event bus rejected event %s", event.EventType())
	}

	return nil
}
