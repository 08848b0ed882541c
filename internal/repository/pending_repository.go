package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

// PendingRepository keeps one staged workflow step per user and workflow in Redis.
type PendingRepository struct {
	client *redis.Client
}

// NewPendingRepository constructs the repository.
func NewPendingRepository(client *redis.Client) *PendingRepository {
	return &PendingRepository{client: client}
}

// PendingKey is the Redis key of a staged step.
func PendingKey(workflow models.Workflow, userID string) string {
	return fmt.Sprintf("pending:%s:%s", workflow, userID)
}

// Put stores the transaction, replacing any earlier one for the same workflow.
func (r *PendingRepository) Put(ctx context.Context, tx *models.PendingTransaction) error {
	ttl := time.Until(tx.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("pending %s for %s already expired", tx.Workflow, tx.UserID)
	}
	payload, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("marshal pending %s: %w", tx.Workflow, err)
	}
	key := PendingKey(tx.Workflow, tx.UserID)
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Get returns the staged transaction or appErrors.ErrCacheMiss when none is live.
func (r *PendingRepository) Get(ctx context.Context, workflow models.Workflow, userID string) (*models.PendingTransaction, error) {
	key := PendingKey(workflow, userID)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var tx models.PendingTransaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("unmarshal pending %s: %w", key, err)
	}
	return &tx, nil
}

// Delete clears the staged transaction.
func (r *PendingRepository) Delete(ctx context.Context, workflow models.Workflow, userID string) error {
	key := PendingKey(workflow, userID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}
