package store

import (
	"context"
	"fmt"
	"time"

	"rentdesk/internal/utils"
	"rentdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentTableName = "rentdesk.payments"

var paymentColumns = utils.StructTagValues(types.Payment{})

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Payment(ctx context.Context, paymentID string) (*types.Payment, error) {
	query, args, err := psql().
		Select(paymentColumns...).
		From(paymentTableName).
		Where(sq.Eq{"id": paymentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment query: %w", err)
	}

	var payment types.Payment
	err = pgxscan.Get(ctx, r.pool, &payment, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	return &payment, nil
}

// PaymentByRef finds the payment holding the given gateway reference
// (Stripe intent id, PayPal order id or M-Pesa checkout id).
func (r *PaymentRepository) PaymentByRef(ctx context.Context, gatewayRef string) (*types.Payment, error) {
	query, args, err := psql().
		Select(paymentColumns...).
		From(paymentTableName).
		Where(sq.Eq{"gateway_ref": gatewayRef}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment by ref query: %w", err)
	}

	var payment types.Payment
	err = pgxscan.Get(ctx, r.pool, &payment, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment by ref: %w", err)
	}

	return &payment, nil
}

func (r *PaymentRepository) Payments(ctx context.Context, filter types.PaymentFilter) ([]*types.Payment, error) {
	builder := psql().
		Select(paymentColumns...).
		From(paymentTableName).
		OrderBy("created_at desc")

	if filter.TenantID != "" {
		builder = builder.Where(sq.Eq{"tenant_id": filter.TenantID})
	}

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payments query: %w", err)
	}

	payments := make([]*types.Payment, 0)
	err = pgxscan.Select(ctx, r.pool, &payments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	return payments, nil
}

func (r *PaymentRepository) Create(ctx context.Context, payment *types.Payment) error {
	now := time.Now()
	if payment.ID == "" {
		payment.ID = utils.NanoID()
	}
	if payment.Currency == "" {
		payment.Currency = "usd"
	}
	if payment.Status == "" {
		payment.Status = types.PaymentStatusPending
	}
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query, args, err := psql().
		Insert(paymentTableName).
		SetMap(utils.StructToMap(payment)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create payment query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create payment")
}

func (r *PaymentRepository) Update(ctx context.Context, paymentID string, payment *types.Payment) error {
	payment.ID = paymentID
	payment.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(paymentTableName).
		SetMap(utils.StructToMap(payment)).
		Where(sq.Eq{"id": paymentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update payment query for payment %s: %w", paymentID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update payment")
}
