package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrQueueFull is returned by Publish when the in-memory buffer is saturated.
// Callers treat delivery as best-effort, so the event is dropped rather than
// blocking the request path.
var ErrQueueFull = errors.New("event queue full")

// Publisher accepts roster events for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, event RosterEvent) error
}

// Nop discards all events. Used when no Kafka brokers are configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, RosterEvent) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisherConfig contains tunables for the Kafka publisher.
type KafkaPublisherConfig struct {
	Brokers      []string
	Topic        string
	QueueSize    int
	WriteTimeout time.Duration
}

func (c *KafkaPublisherConfig) applyDefaults() {
	if c.Topic == "" {
		c.Topic = Topic
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
}

// KafkaPublisher buffers roster events and drains them to Kafka from a
// background goroutine. Publish never blocks the request path: when the
// buffer is full the event is counted as dropped and ErrQueueFull returned.
type KafkaPublisher struct {
	writer       messageWriter
	queue        chan RosterEvent
	done         chan struct{}
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewKafkaPublisher constructs a publisher writing to the configured brokers
// and starts the dispatch loop.
func NewKafkaPublisher(cfg KafkaPublisherConfig, logger *zap.Logger) *KafkaPublisher {
	cfg.applyDefaults()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	return newKafkaPublisher(writer, cfg, logger)
}

func newKafkaPublisher(writer messageWriter, cfg KafkaPublisherConfig, logger *zap.Logger) *KafkaPublisher {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &KafkaPublisher{
		writer:       writer,
		queue:        make(chan RosterEvent, cfg.QueueSize),
		done:         make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
		logger:       logger,
	}
	go p.dispatch()
	return p
}

// Publish enqueues the event for delivery.
func (p *KafkaPublisher) Publish(_ context.Context, event RosterEvent) error {
	select {
	case p.queue <- event:
		queueDepthGauge.Set(float64(len(p.queue)))
		return nil
	default:
		droppedCounter.Inc()
		return ErrQueueFull
	}
}

// Close drains the queue, waits for the dispatch loop to finish, and
// releases the underlying writer.
func (p *KafkaPublisher) Close() error {
	close(p.queue)
	<-p.done
	return p.writer.Close()
}

func (p *KafkaPublisher) dispatch() {
	defer close(p.done)

	for event := range p.queue {
		queueDepthGauge.Set(float64(len(p.queue)))
		if err := p.deliver(event); err != nil {
			publishFailedCounter.WithLabelValues(event.Type).Inc()
			p.logger.Warn("roster event delivery failed",
				zap.String("event_type", event.Type),
				zap.String("activity", event.Activity),
				zap.Error(err))
			continue
		}
		publishedCounter.WithLabelValues(event.Type).Inc()
	}
}

func (p *KafkaPublisher) deliver(event RosterEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Activity),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "activity", Value: []byte(event.Activity)},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()
	return p.writer.WriteMessages(ctx, msg)
}
