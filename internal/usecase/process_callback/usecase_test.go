package process_callback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	appointmentRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/appointment"
	orderRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/order"
	paymentRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/payment"
	"github.com/sparkwash/CW-BookingService/internal/integrations/esewa"
	"github.com/sparkwash/CW-BookingService/pkg/types"
)

type fakeAppointmentRepo struct {
	appointments  map[string]*domain.Appointment // по transaction_id
	statusUpdates map[int64]domain.PaymentStatus
}

func (r *fakeAppointmentRepo) GetByTransactionID(_ context.Context, transactionID string) (*domain.Appointment, error) {
	appt, ok := r.appointments[transactionID]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeAppointmentRepo) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	if r.statusUpdates == nil {
		r.statusUpdates = make(map[int64]domain.PaymentStatus)
	}
	r.statusUpdates[id] = status
	return nil
}

type fakeOrderRepo struct {
	orders map[string]*domain.Order
	paid   []int64
}

func (r *fakeOrderRepo) GetByTransactionID(_ context.Context, transactionID string) (*domain.Order, error) {
	order, ok := r.orders[transactionID]
	if !ok {
		return nil, orderRepo.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, id int64) error {
	r.paid = append(r.paid, id)
	return nil
}

type fakePaymentRepo struct {
	payments map[string]*domain.Payment
	created  []*domain.Payment
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if r.payments == nil {
		r.payments = make(map[string]*domain.Payment)
	}
	if _, ok := r.payments[payment.TransactionID]; ok {
		return nil, paymentRepo.ErrDuplicateTransaction
	}
	stored := *payment
	stored.ID = int64(len(r.payments) + 1)
	r.payments[payment.TransactionID] = &stored
	r.created = append(r.created, &stored)
	return &stored, nil
}

func (r *fakePaymentRepo) GetByTransactionID(_ context.Context, transactionID string) (*domain.Payment, error) {
	p, ok := r.payments[transactionID]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	copied := *p
	return &copied, nil
}

// fakeGateway отдает заранее подготовленный callback, не трогая base64
type fakeGateway struct {
	callback     *esewa.Callback
	decodeErr    error
	signatureErr error
}

func (g *fakeGateway) DecodeCallback(string) (*esewa.Callback, error) {
	if g.decodeErr != nil {
		return nil, g.decodeErr
	}
	return g.callback, nil
}

func (g *fakeGateway) VerifySignature(*esewa.Callback) error {
	return g.signatureErr
}

type fakeNotifier struct {
	nextID         int64
	created        []*domain.Notification
	delivered      []*domain.Notification
	adminPush      []*domain.Notification
	adminCount     int
	createErr      error
	createAdminErr error
}

func (n *fakeNotifier) Create(_ context.Context, userID int64, title, message string, ntype domain.NotificationType) (*domain.Notification, error) {
	if n.createErr != nil {
		return nil, n.createErr
	}
	n.nextID++
	note := &domain.Notification{ID: n.nextID, UserID: userID, Title: title, Message: message, Type: ntype}
	n.created = append(n.created, note)
	return note, nil
}

func (n *fakeNotifier) CreateForAdmins(_ context.Context, title, message string, ntype domain.NotificationType) ([]*domain.Notification, error) {
	if n.createAdminErr != nil {
		return nil, n.createAdminErr
	}
	notes := make([]*domain.Notification, 0, n.adminCount)
	for i := 0; i < n.adminCount; i++ {
		n.nextID++
		note := &domain.Notification{ID: n.nextID, UserID: int64(100 + i), Title: title, Message: message, Type: ntype}
		n.created = append(n.created, note)
		notes = append(notes, note)
	}
	return notes, nil
}

func (n *fakeNotifier) Deliver(_ context.Context, note *domain.Notification) {
	n.delivered = append(n.delivered, note)
}

func (n *fakeNotifier) DeliverToAdminChannel(_ context.Context, note *domain.Notification) {
	n.adminPush = append(n.adminPush, note)
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	appointments *fakeAppointmentRepo
	orders       *fakeOrderRepo
	payments     *fakePaymentRepo
	gateway      *fakeGateway
	notifier     *fakeNotifier
	uc           *UseCase
}

func newFixture(cb *esewa.Callback) *fixture {
	f := &fixture{
		appointments: &fakeAppointmentRepo{appointments: map[string]*domain.Appointment{}},
		orders:       &fakeOrderRepo{orders: map[string]*domain.Order{}},
		payments:     &fakePaymentRepo{},
		gateway:      &fakeGateway{callback: cb},
		notifier:     &fakeNotifier{adminCount: 1},
	}
	f.uc = NewUseCase(f.appointments, f.orders, f.payments, f.gateway, f.notifier,
		&fakeTxManager{}, true, nil, nopLogger{})
	return f
}

func completeCallback(transactionID, amount string) *esewa.Callback {
	return &esewa.Callback{
		TransactionUUID: transactionID,
		Status:          esewa.StatusComplete,
		TotalAmount:     amount,
		TransactionCode: "000ABC",
	}
}

func testAppointment(id int64, price float64, paymentType domain.PaymentType) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		UserID:          1,
		AppointmentDate: time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartSlot:       types.TimeSlot(14 * 60),
		Status:          domain.AppointmentPending,
		PaymentStatus:   domain.PaymentPending,
		PaymentType:     paymentType,
		Price:           price,
	}
}

func TestExecute_AppointmentFullPayment(t *testing.T) {
	f := newFixture(completeCallback("txn-1", "1,500.00"))
	f.appointments.appointments["txn-1"] = testAppointment(7, 1500, domain.PaymentTypeFull)

	resp, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeProcessed, resp.Outcome)
	assert.Equal(t, "appointment", resp.EntityType)
	assert.Equal(t, int64(7), resp.EntityID)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.InDelta(t, 1500, resp.Amount, 0.001)

	assert.Equal(t, domain.PaymentPaid, f.appointments.statusUpdates[7])

	require.Len(t, f.payments.created, 1)
	p := f.payments.created[0]
	assert.Equal(t, "txn-1", p.TransactionID)
	assert.Equal(t, "esewa", p.Method)
	require.NotNil(t, p.AppointmentID)
	assert.Equal(t, int64(7), *p.AppointmentID)
	assert.Nil(t, p.OrderID)

	// Владелец и админ получают push, админское уведомление дублируется
	// в общий админский канал
	assert.Len(t, f.notifier.delivered, 2)
	assert.Len(t, f.notifier.adminPush, 1)
}

func TestExecute_HalfPaymentByType(t *testing.T) {
	f := newFixture(completeCallback("txn-2", "750"))
	f.appointments.appointments["txn-2"] = testAppointment(7, 1500, domain.PaymentTypeHalf)

	resp, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentHalfPaid), resp.PaymentStatus)
	assert.Equal(t, domain.PaymentHalfPaid, f.appointments.statusUpdates[7])
}

func TestExecute_HalfPaymentByAmount(t *testing.T) {
	// Тип оплаты full, но фактическая сумма ниже порога от полной цены
	f := newFixture(completeCallback("txn-3", "1000"))
	f.appointments.appointments["txn-3"] = testAppointment(7, 1500, domain.PaymentTypeFull)

	resp, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentHalfPaid), resp.PaymentStatus)
}

func TestExecute_SecondPaymentClosesRemainder(t *testing.T) {
	f := newFixture(completeCallback("txn-4", "750"))
	appt := testAppointment(7, 1500, domain.PaymentTypeHalf)
	appt.PaymentStatus = domain.PaymentHalfPaid
	f.appointments.appointments["txn-4"] = appt

	resp, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Equal(t, domain.PaymentPaid, f.appointments.statusUpdates[7])
}

func TestExecute_OrderPayment(t *testing.T) {
	f := newFixture(completeCallback("txn-5", "2500"))
	f.orders.orders["txn-5"] = &domain.Order{
		ID:            11,
		UserID:        1,
		TotalAmount:   2500,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
	}

	resp, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeProcessed, resp.Outcome)
	assert.Equal(t, "order", resp.EntityType)
	assert.Equal(t, int64(11), resp.EntityID)
	assert.Equal(t, []int64{11}, f.orders.paid)

	require.Len(t, f.payments.created, 1)
	require.NotNil(t, f.payments.created[0].OrderID)
	assert.Equal(t, int64(11), *f.payments.created[0].OrderID)
}

func TestExecute_ReplayIsIdempotent(t *testing.T) {
	f := newFixture(completeCallback("txn-6", "1500"))
	f.appointments.appointments["txn-6"] = testAppointment(7, 1500, domain.PaymentTypeFull)

	first, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	require.NoError(t, err)
	require.Equal(t, OutcomeProcessed, first.Outcome)

	second, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeAlreadyProcessed, second.Outcome)
	assert.Equal(t, "appointment", second.EntityType)
	assert.Equal(t, int64(7), second.EntityID)

	// Повторная доставка не создает второй платеж и не шлет push
	assert.Len(t, f.payments.created, 1)
	assert.Len(t, f.notifier.delivered, 2)
}

func TestExecute_NotComplete(t *testing.T) {
	for _, status := range []string{esewa.StatusPending, esewa.StatusCanceled} {
		t.Run(status, func(t *testing.T) {
			cb := completeCallback("txn-7", "1500")
			cb.Status = status
			f := newFixture(cb)
			f.appointments.appointments["txn-7"] = testAppointment(7, 1500, domain.PaymentTypeFull)

			resp, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
			require.NoError(t, err)

			assert.Equal(t, OutcomeNotComplete, resp.Outcome)
			assert.Equal(t, ReasonPaymentFailed, resp.Reason)
			assert.Equal(t, status, resp.GatewayStatus)

			// Состояние не менялось
			assert.Empty(t, f.appointments.statusUpdates)
			assert.Empty(t, f.payments.created)
			assert.Empty(t, f.notifier.delivered)
		})
	}
}

func TestExecute_TransactionNotFound(t *testing.T) {
	f := newFixture(completeCallback("txn-unknown", "1500"))

	_, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Empty(t, f.payments.created)
}

func TestExecute_DecodeFailure(t *testing.T) {
	t.Run("undecodable payload", func(t *testing.T) {
		f := newFixture(nil)
		f.gateway.decodeErr = esewa.ErrMalformedPayload

		_, err := f.uc.Execute(context.Background(), &Request{Data: "not-base64"})
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("decodable but incomplete payload", func(t *testing.T) {
		f := newFixture(nil)
		f.gateway.decodeErr = esewa.ErrMissingFields

		_, err := f.uc.Execute(context.Background(), &Request{Data: "eyJ9"})
		assert.ErrorIs(t, err, ErrInvalidData)
		assert.NotErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestExecute_NotificationCreateFailureRollsBack(t *testing.T) {
	// Ошибка создания durable-уведомления откатывает всю транзакцию:
	// переход состояния без уведомлений зафиксироваться не должен,
	// ретрай шлюза передоставит и то и другое
	for _, tt := range []struct {
		name   string
		mutate func(n *fakeNotifier)
	}{
		{"user notification", func(n *fakeNotifier) { n.createErr = assert.AnError }},
		{"admin notifications", func(n *fakeNotifier) { n.createAdminErr = assert.AnError }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(completeCallback("txn-11", "1500"))
			f.appointments.appointments["txn-11"] = testAppointment(7, 1500, domain.PaymentTypeFull)
			tt.mutate(f.notifier)

			_, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
			assert.ErrorIs(t, err, ErrInternal)
			assert.Empty(t, f.notifier.delivered)
			assert.Empty(t, f.notifier.adminPush)
		})
	}
}

func TestExecute_SignatureRequired(t *testing.T) {
	f := newFixture(completeCallback("txn-8", "1500"))
	f.appointments.appointments["txn-8"] = testAppointment(7, 1500, domain.PaymentTypeFull)
	f.gateway.signatureErr = esewa.ErrInvalidSignature

	_, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, f.payments.created)
}

func TestExecute_SignatureOptional(t *testing.T) {
	f := newFixture(completeCallback("txn-9", "1500"))
	f.appointments.appointments["txn-9"] = testAppointment(7, 1500, domain.PaymentTypeFull)
	f.gateway.signatureErr = esewa.ErrInvalidSignature

	// requireSignature=false: плохая подпись логируется, но не блокирует
	f.uc = NewUseCase(f.appointments, f.orders, f.payments, f.gateway, f.notifier,
		&fakeTxManager{}, false, nil, nopLogger{})

	resp, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, resp.Outcome)
}

func TestExecute_InvalidAmount(t *testing.T) {
	f := newFixture(completeCallback("txn-10", "abc"))

	_, err := f.uc.Execute(context.Background(), &Request{Data: "ignored"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
