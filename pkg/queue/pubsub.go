package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"jobtrack-backend/internal/application/domain"
)

// PubSubQueue is the Cloud Pub/Sub implementation of WorkQueue. Redelivery
// backoff lives in the subscription's retry policy; a nacked message comes
// back no sooner than the minimum backoff.
type PubSubQueue struct {
	client      *pubsub.Client
	topicName   string
	subName     string
	concurrency int
}

func NewPubSubQueue(ctx context.Context, projectID, topicName string, concurrency int, credentialsFile string) (*PubSubQueue, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	if concurrency <= 0 {
		concurrency = 2
	}

	return &PubSubQueue{
		client:      client,
		topicName:   topicName,
		subName:     topicName + "-sub", // Convention: topic-sub
		concurrency: concurrency,
	}, nil
}

// Enqueue publishes one message with its priority as an attribute.
func (q *PubSubQueue) Enqueue(ctx context.Context, msg *domain.EmailMessage, priority Priority) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	topic, err := q.ensureTopic(ctx)
	if err != nil {
		return err
	}

	result := topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"priority": string(priority)},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish message %s: %w", msg.ID, err)
	}
	return nil
}

// Receive drains the subscription until ctx is done. Each worker finishes
// its current message before the pull stream stops handing out new ones, so
// shutdown never interrupts an item mid-flight.
func (q *PubSubQueue) Receive(ctx context.Context, handler Handler) error {
	sub, err := q.ensureSubscription(ctx)
	if err != nil {
		return err
	}

	// Bounded worker pool: one outstanding message per worker.
	sub.ReceiveSettings.MaxOutstandingMessages = q.concurrency
	sub.ReceiveSettings.NumGoroutines = 1

	log.Printf("[Queue] Listening on subscription %s (concurrency %d)", q.subName, q.concurrency)

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		var msg domain.EmailMessage
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			log.Printf("[Queue] Dropping undecodable message: %v", err)
			m.Ack()
			return
		}

		if err := handler(ctx, &msg); err != nil {
			log.Printf("[Queue] Handler failed for message %s, requeueing: %v", msg.ID, err)
			m.Nack()
			return
		}
		m.Ack()
	})
}

func (q *PubSubQueue) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	topic := q.client.Topic(q.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic existence: %w", err)
	}
	if !exists {
		topic, err = q.client.CreateTopic(ctx, q.topicName)
		if err != nil {
			return nil, fmt.Errorf("failed to create topic: %w", err)
		}
		log.Printf("[Queue] Created topic: %s", q.topicName)
	}
	return topic, nil
}

func (q *PubSubQueue) ensureSubscription(ctx context.Context) (*pubsub.Subscription, error) {
	sub := q.client.Subscription(q.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription existence: %w", err)
	}
	if exists {
		return sub, nil
	}

	topic, err := q.ensureTopic(ctx)
	if err != nil {
		return nil, err
	}

	sub, err = q.client.CreateSubscription(ctx, q.subName, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: 60 * time.Second,
		RetryPolicy: &pubsub.RetryPolicy{
			MinimumBackoff: 2 * time.Second,
			MaximumBackoff: 5 * time.Minute,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	log.Printf("[Queue] Created subscription: %s", q.subName)
	return sub, nil
}
