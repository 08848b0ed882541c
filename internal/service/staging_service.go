package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

// PendingStore persists staged workflow steps.
type PendingStore interface {
	Put(ctx context.Context, tx *models.PendingTransaction) error
	Get(ctx context.Context, workflow models.Workflow, userID string) (*models.PendingTransaction, error)
	Delete(ctx context.Context, workflow models.Workflow, userID string) error
}

// StagingService holds validated workflow input until its payment arrives.
type StagingService struct {
	store   PendingStore
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	now     Clock
}

// NewStagingService constructs a staging service.
func NewStagingService(store PendingStore, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, now Clock) *StagingService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &StagingService{store: store, metrics: metrics, ttl: ttl, logger: logger, now: now}
}

// Stage replaces the user's pending step for workflow with payload.
func (s *StagingService) Stage(ctx context.Context, workflow models.Workflow, userID string, payload interface{}) (*models.PendingTransaction, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode staged data")
	}
	now := s.now()
	tx := &models.PendingTransaction{
		Workflow:  workflow,
		UserID:    userID,
		Payload:   raw,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	start := time.Now()
	err = s.store.Put(ctx, tx)
	s.metrics.ObserveStagingWrite(time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stage application")
	}
	return tx, nil
}

// Peek returns the live pending step or nil when there is none.
func (s *StagingService) Peek(ctx context.Context, workflow models.Workflow, userID string) (*models.PendingTransaction, error) {
	start := time.Now()
	tx, err := s.store.Get(ctx, workflow, userID)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordStagedLookup(workflow, false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, nil
		}
		s.logger.Warn("pending transaction lookup failed", zap.String("workflow", string(workflow)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staged data")
	}
	if !tx.ExpiresAt.After(s.now()) {
		s.metrics.RecordStagedLookup(workflow, false, duration)
		return nil, nil
	}
	s.metrics.RecordStagedLookup(workflow, true, duration)
	return tx, nil
}

// Load decodes the pending step into dest. A missing or expired step is ErrMissingStagedData.
func (s *StagingService) Load(ctx context.Context, workflow models.Workflow, userID string, dest interface{}) error {
	tx, err := s.Peek(ctx, workflow, userID)
	if err != nil {
		return err
	}
	if tx == nil {
		return appErrors.ErrMissingStagedData
	}
	if err := json.Unmarshal(tx.Payload, dest); err != nil {
		s.logger.Warn("discarding unreadable staged data", zap.String("workflow", string(workflow)), zap.Error(err))
		s.Clear(ctx, workflow, userID)
		return appErrors.ErrMissingStagedData
	}
	return nil
}

// Clear drops the pending step. Failures only log since the entry expires anyway.
func (s *StagingService) Clear(ctx context.Context, workflow models.Workflow, userID string) {
	if err := s.store.Delete(ctx, workflow, userID); err != nil {
		s.logger.Warn("failed to clear staged data", zap.String("workflow", string(workflow)), zap.String("user_id", userID), zap.Error(err))
	}
}
