package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"avtobot/internal/domain/entity"
	"avtobot/internal/repository"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Add(ctx context.Context, sender string, amount int, description *string) (*entity.Payment, error) {
	p := &entity.Payment{Sender: sender, Amount: amount, Description: description}
	query := `
        INSERT INTO payments (sender, amount, description)
        VALUES ($1, $2, $3)
        RETURNING id, payment_date`
	err := r.db.QueryRowContext(ctx, query, sender, amount, description).
		Scan(&p.ID, &p.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("failed to add payment for %s: %w", sender, err)
	}
	return p, nil
}

func (r *paymentRepository) ListBySender(ctx context.Context, sender string) ([]entity.Payment, error) {
	payments := []entity.Payment{}
	query := `SELECT * FROM payments WHERE sender = $1 ORDER BY payment_date DESC`
	if err := r.db.SelectContext(ctx, &payments, query, sender); err != nil {
		return nil, fmt.Errorf("failed to list payments of %s: %w", sender, err)
	}
	return payments, nil
}
