package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReadinessWaiter blocks startup until the progress topic is reachable.
// With no brokers configured there is nothing to wait for.
type ReadinessWaiter struct {
	brokers  []string
	topic    string
	timeout  time.Duration
	interval time.Duration
	dial     func(ctx context.Context) error
}

// NewReadinessWaiter creates a waiter giving up after timeout. A
// non-positive timeout waits until the caller's context ends.
func NewReadinessWaiter(brokers []string, topic string, timeout time.Duration) *ReadinessWaiter {
	w := &ReadinessWaiter{
		brokers:  brokers,
		topic:    topic,
		timeout:  timeout,
		interval: 2 * time.Second,
	}
	w.dial = w.checkKafka
	return w
}

func (w *ReadinessWaiter) WaitForDependencies(ctx context.Context) error {
	if len(w.brokers) == 0 {
		slog.Info("Kafka disabled, skipping readiness check")
		return nil
	}
	if w.timeout <= 0 {
		return w.waitForKafka(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.waitForKafka(ctx); err != nil {
		return fmt.Errorf("kafka brokers %v with topic %s not ready within %s: %w",
			w.brokers, w.topic, w.timeout, err)
	}
	return nil
}

func (w *ReadinessWaiter) waitForKafka(ctx context.Context) error {
	slog.Info("Waiting for Kafka...", "brokers", w.brokers, "topic", w.topic)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.dial(ctx); err != nil {
				slog.Warn("Kafka not ready yet", "error", err)
				continue
			}
			slog.Info("Kafka is ready")
			return nil
		}
	}
}

func (w *ReadinessWaiter) checkKafka(ctx context.Context) error {
	dialer := &net.Dialer{Timeout: 2 * time.Second}
	for _, broker := range w.brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			return fmt.Errorf("failed to connect to broker %s: %w", broker, err)
		}
		_ = conn.Close()
	}

	conn, err := kafka.DialContext(ctx, "tcp", w.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	partitions, err := conn.ReadPartitions(w.topic)
	if err != nil {
		return fmt.Errorf("failed to read partitions for topic %s: %w", w.topic, err)
	}
	if len(partitions) == 0 {
		return fmt.Errorf("topic %s has no partitions", w.topic)
	}
	return nil
}
