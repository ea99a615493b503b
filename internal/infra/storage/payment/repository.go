package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	"github.com/sparkwash/CW-BookingService/pkg/dbmetrics"
	"github.com/sparkwash/CW-BookingService/pkg/psqlbuilder"
)

const pqUniqueViolation = "23505"

var paymentColumns = []string{
	"id",
	"user_id",
	"order_id",
	"appointment_id",
	"amount",
	"status",
	"method",
	"transaction_id",
	"gateway_code",
	"created_at",
}

// Repository репозиторий платежей
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись о платеже.
// Уникальный индекс по transaction_id делает операцию идемпотентной на
// уровне хранилища: повторный callback получает ErrDuplicateTransaction,
// а не вторую строку.
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"user_id",
			"order_id",
			"appointment_id",
			"amount",
			"status",
			"method",
			"transaction_id",
			"gateway_code",
		).
		Values(
			payment.UserID,
			payment.OrderID,
			payment.AppointmentID,
			payment.Amount,
			payment.Status,
			payment.Method,
			payment.TransactionID,
			payment.GatewayCode,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&createdAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, ErrDuplicateTransaction
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	payment.CreatedAt = createdAt.Time

	return payment, nil
}

// GetByTransactionID получает платеж по ссылке на транзакцию шлюза
func (r *Repository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"transaction_id": transactionID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTransactionID - build select query: %v", ErrBuildQuery, err)
	}

	var payment domain.Payment
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&payment.UserID,
		&payment.OrderID,
		&payment.AppointmentID,
		&payment.Amount,
		&payment.Status,
		&payment.Method,
		&payment.TransactionID,
		&payment.GatewayCode,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTransactionID - scan payment: %v", ErrScanRow, err)
	}

	payment.CreatedAt = createdAt.Time

	return &payment, nil
}
