package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Insert(ctx context.Context, p *model.Payment) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO payments (id, agent_id, agent_name, method, plan, amount, reference, status, created_at)
		VALUES (:id, :agent_id, :agent_name, :method, :plan, :amount, :reference, :status, :created_at)
	`, p)
	if err != nil {
		return fmt.Errorf("PaymentRepository.Insert: %w", err)
	}
	return nil
}

func (r *PaymentRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE payments SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("PaymentRepository.SetStatus: %w", err)
	}
	return expectOneRow(res, "PaymentRepository.SetStatus")
}

// ListRecent returns the newest payments first.
func (r *PaymentRepository) ListRecent(ctx context.Context, limit int) ([]model.Payment, error) {
	var list []model.Payment
	err := r.db.SelectContext(ctx, &list, `
		SELECT * FROM payments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("PaymentRepository.ListRecent: %w", err)
	}
	return list, nil
}

// SumSuccessful is the platform revenue in TSh.
func (r *PaymentRepository) SumSuccessful(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = $1`, string(model.PaymentSuccess))
	if err != nil {
		return 0, fmt.Errorf("PaymentRepository.SumSuccessful: %w", err)
	}
	return total, nil
}
