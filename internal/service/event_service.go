package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/models"
	"github.com/noah-isme/dlservice-api/pkg/events"
	"github.com/noah-isme/dlservice-api/pkg/jobs"
)

type eventQueue interface {
	Enqueue(job jobs.Job) error
}

// EventService fans license events out to Kafka through the job queue.
// Without a queue, events are logged and dropped.
type EventService struct {
	writer  events.Writer
	queue   eventQueue
	metrics *MetricsService
	logger  *zap.Logger
	now     Clock
}

// NewEventService constructs the service. writer may be nil when publishing is disabled.
func NewEventService(writer events.Writer, metrics *MetricsService, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{writer: writer, metrics: metrics, logger: logger, now: systemClock}
}

// AttachQueue routes Publish through the given queue.
func (s *EventService) AttachQueue(q eventQueue) {
	s.queue = q
}

// Publish enqueues the event for delivery. It never fails the caller.
func (s *EventService) Publish(ctx context.Context, event models.LicenseEvent) {
	if s == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if s.queue == nil || s.writer == nil {
		s.logger.Info("license event dropped, publishing disabled", zap.String("type", event.Type), zap.String("reference", event.Reference))
		s.metrics.RecordEvent(event.Type, "dropped")
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to marshal license event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	job := jobs.Job{ID: event.ID, Type: event.Type, Key: event.Reference, Payload: payload}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue license event", zap.String("type", event.Type), zap.String("reference", event.Reference), zap.Error(err))
		s.metrics.RecordEvent(event.Type, "dropped")
	}
}

// Deliver is the queue handler writing one event to Kafka.
func (s *EventService) Deliver(ctx context.Context, job jobs.Job) error {
	if s.writer == nil {
		return fmt.Errorf("kafka writer not configured")
	}
	if err := s.writer.WriteMessages(ctx, events.Message(job.Type, job.Key, job.Payload)); err != nil {
		s.metrics.RecordEvent(job.Type, "failed")
		return fmt.Errorf("write %s event: %w", job.Type, err)
	}
	s.metrics.RecordEvent(job.Type, "published")
	s.logger.Debug("license event published", zap.String("type", job.Type), zap.String("reference", job.Key))
	return nil
}
