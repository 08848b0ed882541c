package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dlservice-api/internal/models"
)

const paymentColumns = `id, user_id, license_type, amount, card_last4, card_holder, reference, status, paid_at`

// PaymentRepository stores simulated charges.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment record.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	const query = `INSERT INTO payments (` + paymentColumns + `) VALUES (:id, :user_id, :license_type, :amount, :card_last4, :card_holder, :reference, :status, :paid_at)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// FindByIDForUser returns a payment owned by userID.
func (r *PaymentRepository) FindByIDForUser(ctx context.Context, id, userID string) (*models.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND user_id = $2 LIMIT 1`
	var p models.Payment
	if err := r.db.GetContext(ctx, &p, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &p, nil
}
