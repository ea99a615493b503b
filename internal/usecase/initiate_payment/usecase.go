package initiate_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	appointmentRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/appointment"
	orderRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/order"
)

// UseCase use case инициации платежа.
// Генерирует transaction UUID, привязывает его к заказу или записи и
// строит подписанную форму шлюза. Привязка идет в транзакции: сущность
// перечитывается с блокировкой, чтобы два параллельных запроса не выдали
// разные UUID на одну и ту же оплату.
type UseCase struct {
	appointmentRepo AppointmentRepository
	orderRepo       OrderRepository
	gateway         GatewayClient
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	orderRepo OrderRepository,
	gateway GatewayClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		orderRepo:       orderRepo,
		gateway:         gateway,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case инициации платежа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("InitiatePayment: user=%d, entity=%s/%d", req.UserID, req.EntityType, req.EntityID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("InitiatePayment: validation failed: %v", err)
		return nil, err
	}

	transactionID := uuid.NewString()

	var amount float64

	// 2. Привязываем transaction UUID к сущности в транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		switch req.EntityType {
		case EntityOrder:
			return uc.prepareOrder(txCtx, req, transactionID, &amount)
		default:
			return uc.prepareAppointment(txCtx, req, transactionID, &amount)
		}
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("InitiatePayment: transaction %s assigned to %s/%d, amount=%.2f",
		transactionID, req.EntityType, req.EntityID, amount)

	// 3. Строим подписанную форму шлюза
	form := uc.gateway.BuildPaymentForm(amount, transactionID)

	return &Response{
		TransactionID: transactionID,
		Amount:        amount,
		PaymentForm:   form,
	}, nil
}

// prepareOrder проверяет заказ и привязывает к нему transaction UUID
func (uc *UseCase) prepareOrder(ctx context.Context, req *Request, transactionID string, amount *float64) error {
	order, err := uc.orderRepo.GetByID(ctx, req.EntityID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			uc.logger.Warn("InitiatePayment: order id=%d not found", req.EntityID)
			return ErrEntityNotFound
		}
		uc.logger.Error("InitiatePayment: failed to get order id=%d: %v", req.EntityID, err)
		return fmt.Errorf("%w: failed to get order: %v", ErrInternal, err)
	}

	if order.UserID != req.UserID {
		uc.logger.Warn("InitiatePayment: user=%d does not own order id=%d", req.UserID, req.EntityID)
		return ErrAccessDenied
	}

	if !order.AwaitsPayment() {
		uc.logger.Warn("InitiatePayment: order id=%d does not await payment, status=%s/%s",
			req.EntityID, order.Status, order.PaymentStatus)
		return ErrAlreadyPaid
	}

	if err := uc.orderRepo.AssignTransaction(ctx, order.ID, transactionID); err != nil {
		uc.logger.Error("InitiatePayment: failed to assign transaction to order id=%d: %v", order.ID, err)
		return fmt.Errorf("%w: failed to assign transaction: %v", ErrInternal, err)
	}

	*amount = order.TotalAmount
	return nil
}

// prepareAppointment проверяет запись и привязывает к ней transaction UUID.
// При типе оплаты half к оплате выставляется половина цены.
func (uc *UseCase) prepareAppointment(ctx context.Context, req *Request, transactionID string, amount *float64) error {
	appt, err := uc.appointmentRepo.GetByID(ctx, req.EntityID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("InitiatePayment: appointment id=%d not found", req.EntityID)
			return ErrEntityNotFound
		}
		uc.logger.Error("InitiatePayment: failed to get appointment id=%d: %v", req.EntityID, err)
		return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if appt.UserID != req.UserID {
		uc.logger.Warn("InitiatePayment: user=%d does not own appointment id=%d", req.UserID, req.EntityID)
		return ErrAccessDenied
	}

	if appt.PaymentStatus == domain.PaymentPaid || appt.Status == domain.AppointmentCancelled {
		uc.logger.Warn("InitiatePayment: appointment id=%d is not payable, status=%s/%s",
			req.EntityID, appt.Status, appt.PaymentStatus)
		return ErrAlreadyPaid
	}

	if err := uc.appointmentRepo.AssignTransaction(ctx, appt.ID, transactionID); err != nil {
		uc.logger.Error("InitiatePayment: failed to assign transaction to appointment id=%d: %v", appt.ID, err)
		return fmt.Errorf("%w: failed to assign transaction: %v", ErrInternal, err)
	}

	*amount = appt.Price
	if appt.PaymentType == domain.PaymentTypeHalf {
		*amount = appt.Price / 2
	}
	// Доплата после частичной оплаты — оставшаяся половина
	if appt.PaymentStatus == domain.PaymentHalfPaid {
		*amount = appt.Price / 2
	}

	return nil
}
