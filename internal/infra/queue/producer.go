package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/infra/metrics"
	"github.com/segmentio/kafka-go"
)

const (
	progressBufferSize   = 64
	progressWriteTimeout = 5 * time.Second
)

// ErrProgressDropped is returned when the publish buffer is full or the
// publisher is closed.
var ErrProgressDropped = errors.New("progress event dropped")

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProgressPublisher publishes load progress notifications as JSON.
// PublishProgress only enqueues; a background goroutine writes to Kafka,
// so a slow broker never holds up the caller.
type KafkaProgressPublisher struct {
	writer       messageWriter
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	events chan kafka.Message
	done   chan struct{}
}

func NewKafkaProgressPublisher(brokers []string, topic string) *KafkaProgressPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Hash balancer keeps one session's events on one partition
		BatchTimeout: 10 * time.Millisecond,
	}
	slog.Info("Kafka progress publisher initialized", "brokers", brokers, "topic", topic)
	return newKafkaProgressPublisher(w, progressBufferSize, progressWriteTimeout)
}

func newKafkaProgressPublisher(w messageWriter, buffer int, writeTimeout time.Duration) *KafkaProgressPublisher {
	p := &KafkaProgressPublisher{
		writer:       w,
		writeTimeout: writeTimeout,
		events:       make(chan kafka.Message, buffer),
		done:         make(chan struct{}),
	}
	go p.run()
	return p
}

// PublishProgress enqueues progress without waiting for the broker. A full
// buffer drops the event.
func (p *KafkaProgressPublisher) PublishProgress(_ context.Context, progress domain.Progress) error {
	payload, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(progress.SessionID),
		Value: payload,
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProgressDropped
	}
	select {
	case p.events <- msg:
		return nil
	default:
		return ErrProgressDropped
	}
}

func (p *KafkaProgressPublisher) run() {
	defer close(p.done)
	for msg := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			metrics.ProgressPublishErrors.Inc()
			slog.Error("Failed to write to kafka", "session_id", string(msg.Key), "error", err)
			continue
		}
		slog.Debug("Published progress to Kafka", "session_id", string(msg.Key))
	}
}

// Close flushes queued events and closes the writer.
func (p *KafkaProgressPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()

	<-p.done
	return p.writer.Close()
}

// NopProgressPublisher drops every notification.
type NopProgressPublisher struct{}

func (NopProgressPublisher) PublishProgress(context.Context, domain.Progress) error { return nil }

func (NopProgressPublisher) Close() error { return nil }
