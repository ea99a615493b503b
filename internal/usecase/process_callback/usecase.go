package process_callback

import (
	"context"
	"errors"
	"fmt"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	paymentRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/payment"
	orderRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/order"
	appointmentRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/appointment"
	"github.com/sparkwash/CW-BookingService/internal/integrations/esewa"
	"github.com/sparkwash/CW-BookingService/pkg/metrics"
)

const paymentMethod = "esewa"

// UseCase use case обработки callback платежного шлюза.
// Переход состояния и запись о платеже фиксируются в одной сериализуемой
// транзакции; UNIQUE на transaction_id гарантирует exactly-once даже при
// параллельной доставке одного callback. Push уведомлений идет после
// коммита и не влияет на результат.
type UseCase struct {
	appointmentRepo  AppointmentRepository
	orderRepo        OrderRepository
	paymentRepo      PaymentRepository
	gateway          GatewayClient
	notifier         Notifier
	txManager        TransactionManager
	requireSignature bool
	metrics          *metrics.Metrics
	logger           Logger
}

// NewUseCase создает новый экземпляр use case.
// metrics может быть nil, если сбор метрик выключен.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	orderRepo OrderRepository,
	paymentRepo PaymentRepository,
	gateway GatewayClient,
	notifier Notifier,
	txManager TransactionManager,
	requireSignature bool,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		orderRepo:        orderRepo,
		paymentRepo:      paymentRepo,
		gateway:          gateway,
		notifier:         notifier,
		txManager:        txManager,
		requireSignature: requireSignature,
		metrics:          m,
		logger:           logger,
	}
}

// Execute выполняет use case обработки callback
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Декодируем payload. Недекодируемый base64/JSON и декодируемый, но
	// неполный payload — разные коды причин для клиента
	cb, err := uc.gateway.DecodeCallback(req.Data)
	if err != nil {
		uc.logger.Warn("ProcessCallback: failed to decode payload: %v", err)
		if errors.Is(err, esewa.ErrMissingFields) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	uc.logger.Info("ProcessCallback: transaction=%s, status=%s, amount=%s, payment_id=%s",
		cb.TransactionUUID, cb.Status, cb.TotalAmount, cb.PaymentID)

	// 2. Проверяем подпись
	if err := uc.gateway.VerifySignature(cb); err != nil {
		if uc.requireSignature {
			uc.logger.Warn("ProcessCallback: signature verification failed for transaction=%s: %v",
				cb.TransactionUUID, err)
			return nil, ErrInvalidSignature
		}
		uc.logger.Warn("ProcessCallback: signature verification skipped for transaction=%s: %v",
			cb.TransactionUUID, err)
	}

	// 3. Разбираем сумму
	amount, err := esewa.ParseAmount(cb.TotalAmount)
	if err != nil {
		uc.logger.Warn("ProcessCallback: invalid amount %q for transaction=%s: %v",
			cb.TotalAmount, cb.TransactionUUID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	// 4. Статус не COMPLETE — фиксировать нечего, состояние не трогаем
	if !cb.IsComplete() {
		uc.logger.Info("ProcessCallback: transaction=%s has status=%s, nothing to record",
			cb.TransactionUUID, cb.Status)
		uc.metrics.ObservePayment(OutcomeNotComplete)
		return &Response{
			Outcome:       OutcomeNotComplete,
			Reason:        ReasonPaymentFailed,
			TransactionID: cb.TransactionUUID,
			GatewayStatus: cb.Status,
		}, nil
	}

	var (
		resp          *Response
		notifications []*domain.Notification
		adminNotes    []*domain.Notification
	)

	// 5. Переход состояния в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		notifications = nil
		adminNotes = nil

		// 5.1. Идемпотентность: платеж с этим transaction_id уже записан
		existing, err := uc.paymentRepo.GetByTransactionID(txCtx, cb.TransactionUUID)
		if err != nil && !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			return fmt.Errorf("%w: failed to check payment: %v", ErrInternal, err)
		}
		if existing != nil {
			uc.logger.Info("ProcessCallback: transaction=%s already processed, payment id=%d",
				cb.TransactionUUID, existing.ID)
			resp = uc.alreadyProcessedResponse(cb, existing)
			return nil
		}

		// 5.2. Строгое сопоставление: сначала заказ, затем запись
		order, err := uc.orderRepo.GetByTransactionID(txCtx, cb.TransactionUUID)
		if err != nil && !errors.Is(err, orderRepo.ErrOrderNotFound) {
			return fmt.Errorf("%w: failed to look up order: %v", ErrInternal, err)
		}
		if order != nil {
			r, err := uc.settleOrder(txCtx, order, cb, amount, &notifications, &adminNotes)
			if err != nil {
				return err
			}
			resp = r
			return nil
		}

		appt, err := uc.appointmentRepo.GetByTransactionID(txCtx, cb.TransactionUUID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("ProcessCallback: transaction=%s matches no order or appointment",
					cb.TransactionUUID)
				return ErrTransactionNotFound
			}
			return fmt.Errorf("%w: failed to look up appointment: %v", ErrInternal, err)
		}

		r, err := uc.settleAppointment(txCtx, appt, cb, amount, &notifications, &adminNotes)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.metrics.ObservePayment(resp.Outcome)

	// 6. Push после коммита, best effort
	for _, n := range notifications {
		uc.notifier.Deliver(ctx, n)
	}
	for _, n := range adminNotes {
		uc.notifier.Deliver(ctx, n)
		uc.notifier.DeliverToAdminChannel(ctx, n)
	}

	return resp, nil
}

// settleOrder фиксирует оплату заказа
func (uc *UseCase) settleOrder(
	ctx context.Context,
	order *domain.Order,
	cb *esewa.Callback,
	amount float64,
	notifications *[]*domain.Notification,
	adminNotes *[]*domain.Notification,
) (*Response, error) {
	if err := uc.orderRepo.MarkPaid(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("%w: failed to mark order paid: %v", ErrInternal, err)
	}

	if err := uc.recordPayment(ctx, order.UserID, &order.ID, nil, amount, cb); err != nil {
		return nil, err
	}

	title := "Оплата получена"
	message := fmt.Sprintf("Заказ №%d оплачен на сумму %.2f", order.ID, amount)
	if err := uc.collectUserNotification(ctx, order.UserID, title, message, notifications); err != nil {
		return nil, err
	}

	adminMsg := fmt.Sprintf("Заказ №%d пользователя %d оплачен на сумму %.2f", order.ID, order.UserID, amount)
	if err := uc.collectAdminNotifications(ctx, "Новая оплата заказа", adminMsg, adminNotes); err != nil {
		return nil, err
	}

	uc.logger.Info("ProcessCallback: order id=%d marked paid, transaction=%s", order.ID, cb.TransactionUUID)

	return &Response{
		Outcome:       OutcomeProcessed,
		TransactionID: cb.TransactionUUID,
		GatewayStatus: cb.Status,
		EntityType:    "order",
		EntityID:      order.ID,
		PaymentStatus: string(domain.PaymentPaid),
		Amount:        amount,
	}, nil
}

// settleAppointment фиксирует оплату записи.
// Частичная оплата определяется заявленным типом оплаты ИЛИ фактической
// суммой ниже порога от полной цены.
func (uc *UseCase) settleAppointment(
	ctx context.Context,
	appt *domain.Appointment,
	cb *esewa.Callback,
	amount float64,
	notifications *[]*domain.Notification,
	adminNotes *[]*domain.Notification,
) (*Response, error) {
	newStatus := domain.PaymentPaid
	if appt.PaymentType == domain.PaymentTypeHalf || amount < appt.Price*domain.HalfPaymentThreshold {
		newStatus = domain.PaymentHalfPaid
	}
	// Доплата после частичной оплаты закрывает остаток
	if appt.PaymentStatus == domain.PaymentHalfPaid {
		newStatus = domain.PaymentPaid
	}

	if err := uc.appointmentRepo.UpdatePaymentStatus(ctx, appt.ID, newStatus); err != nil {
		return nil, fmt.Errorf("%w: failed to update appointment payment status: %v", ErrInternal, err)
	}

	if err := uc.recordPayment(ctx, appt.UserID, nil, &appt.ID, amount, cb); err != nil {
		return nil, err
	}

	title := "Оплата получена"
	message := fmt.Sprintf("Запись на %s %s оплачена на сумму %.2f (%s)",
		appt.AppointmentDate.Format(domain.DateFormat), appt.StartSlot, amount, newStatus)
	if err := uc.collectUserNotification(ctx, appt.UserID, title, message, notifications); err != nil {
		return nil, err
	}

	adminMsg := fmt.Sprintf("Запись №%d пользователя %d оплачена на сумму %.2f (%s)",
		appt.ID, appt.UserID, amount, newStatus)
	if err := uc.collectAdminNotifications(ctx, "Новая оплата записи", adminMsg, adminNotes); err != nil {
		return nil, err
	}

	uc.logger.Info("ProcessCallback: appointment id=%d payment status=%s, transaction=%s",
		appt.ID, newStatus, cb.TransactionUUID)

	return &Response{
		Outcome:       OutcomeProcessed,
		TransactionID: cb.TransactionUUID,
		GatewayStatus: cb.Status,
		EntityType:    "appointment",
		EntityID:      appt.ID,
		PaymentStatus: string(newStatus),
		Amount:        amount,
	}, nil
}

// recordPayment создает запись о платеже; дубликат transaction_id ловится
// UNIQUE-ограничением и означает параллельную обработку того же callback
func (uc *UseCase) recordPayment(
	ctx context.Context,
	userID int64,
	orderID, appointmentID *int64,
	amount float64,
	cb *esewa.Callback,
) error {
	var gatewayCode *string
	if cb.TransactionCode != "" {
		code := cb.TransactionCode
		gatewayCode = &code
	}

	payment := &domain.Payment{
		UserID:        userID,
		OrderID:       orderID,
		AppointmentID: appointmentID,
		Amount:        amount,
		Status:        domain.PaymentRecordCompleted,
		Method:        paymentMethod,
		TransactionID: cb.TransactionUUID,
		GatewayCode:   gatewayCode,
	}

	if _, err := uc.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, paymentRepo.ErrDuplicateTransaction) {
			// Конкурентная доставка: сериализуемая транзакция все равно
			// откатится, шлюз получит already_processed на ретрае
			return fmt.Errorf("%w: concurrent callback delivery: %v", ErrInternal, err)
		}
		return fmt.Errorf("%w: failed to record payment: %v", ErrInternal, err)
	}

	return nil
}

// collectUserNotification создает durable-уведомление владельцу в рамках
// текущей транзакции. Ошибка создания откатывает весь переход состояния:
// durable-записи и фиксация платежа атомарны, ретрай шлюза передоставит обе
func (uc *UseCase) collectUserNotification(
	ctx context.Context,
	userID int64,
	title, message string,
	out *[]*domain.Notification,
) error {
	n, err := uc.notifier.Create(ctx, userID, title, message, domain.NotificationPayment)
	if err != nil {
		uc.logger.Error("ProcessCallback: failed to create notification for user=%d: %v", userID, err)
		return fmt.Errorf("%w: failed to create notification: %v", ErrInternal, err)
	}
	*out = append(*out, n)
	return nil
}

// collectAdminNotifications создает durable-уведомления всем админам;
// ошибка создания так же откатывает транзакцию
func (uc *UseCase) collectAdminNotifications(
	ctx context.Context,
	title, message string,
	out *[]*domain.Notification,
) error {
	ns, err := uc.notifier.CreateForAdmins(ctx, title, message, domain.NotificationPayment)
	if err != nil {
		uc.logger.Error("ProcessCallback: failed to create admin notifications: %v", err)
		return fmt.Errorf("%w: failed to create admin notifications: %v", ErrInternal, err)
	}
	*out = append(*out, ns...)
	return nil
}

// alreadyProcessedResponse строит ответ повторной доставки по записи платежа
func (uc *UseCase) alreadyProcessedResponse(cb *esewa.Callback, p *domain.Payment) *Response {
	resp := &Response{
		Outcome:       OutcomeAlreadyProcessed,
		TransactionID: cb.TransactionUUID,
		GatewayStatus: cb.Status,
		Amount:        p.Amount,
	}

	switch {
	case p.ForOrder():
		resp.EntityType = "order"
		resp.EntityID = *p.OrderID
	case p.ForAppointment():
		resp.EntityType = "appointment"
		resp.EntityID = *p.AppointmentID
	}

	return resp
}
