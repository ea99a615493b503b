package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	"github.com/sparkwash/CW-BookingService/pkg/ptr"
	"github.com/sparkwash/CW-BookingService/pkg/types"
)

type fakeAppointmentRepo struct {
	created   []*domain.Appointment
	createErr error
	nextID    int64
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	stored := *appt
	stored.ID = r.nextID
	r.created = append(r.created, &stored)
	return &stored, nil
}

func (r *fakeAppointmentRepo) GetActiveByDate(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return nil, nil
}

type fakeSlotCounter struct {
	schedule domain.ScheduleConfig
	occupied int
	countErr error
	calls    int
}

func (c *fakeSlotCounter) CountInSlot(_ context.Context, _ time.Time, _ types.TimeSlot, _ *int64) (int, error) {
	c.calls++
	return c.occupied, c.countErr
}

func (c *fakeSlotCounter) Schedule() domain.ScheduleConfig {
	return c.schedule
}

type fakeBroadcaster struct {
	dates []time.Time
}

func (b *fakeBroadcaster) Broadcast(_ context.Context, date time.Time) {
	b.dates = append(b.dates, date)
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testSchedule() domain.ScheduleConfig {
	return domain.ScheduleConfig{
		Open:                    types.TimeSlot(9 * 60),
		Close:                   types.TimeSlot(18 * 60),
		SlotDurationMinutes:     30,
		Capacity:                domain.SlotCapacity,
		MinBookingNoticeMinutes: 60,
	}
}

func newTestUseCase(repo *fakeAppointmentRepo, counter *fakeSlotCounter, broadcaster *fakeBroadcaster, now time.Time) *UseCase {
	uc := NewUseCase(repo, counter, broadcaster, &fakeTxManager{}, nil, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}
	return uc
}

func validRequest(date time.Time) *Request {
	return &Request{
		UserID:      1,
		ServiceID:   2,
		VehicleID:   3,
		Date:        date,
		StartSlot:   types.TimeSlot(14 * 60),
		PaymentType: string(domain.PaymentTypeFull),
		Price:       1500,
	}
}

func TestExecute_Success(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	repo := &fakeAppointmentRepo{}
	counter := &fakeSlotCounter{schedule: testSchedule(), occupied: 0}
	broadcaster := &fakeBroadcaster{}
	uc := newTestUseCase(repo, counter, broadcaster, now)

	resp, err := uc.Execute(context.Background(), validRequest(tomorrow))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "14:00", resp.StartTime)
	assert.Equal(t, "2:00 PM", resp.StartTime12)
	assert.Equal(t, string(domain.AppointmentPending), resp.Status)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)

	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.AppointmentPending, repo.created[0].Status)
	assert.Equal(t, domain.PaymentPending, repo.created[0].PaymentStatus)

	// После успешного создания публикуется снимок занятости даты
	require.Len(t, broadcaster.dates, 1)
	assert.True(t, broadcaster.dates[0].Equal(tomorrow))
}

func TestExecute_SlotFull(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	repo := &fakeAppointmentRepo{}
	counter := &fakeSlotCounter{schedule: testSchedule(), occupied: domain.SlotCapacity}
	broadcaster := &fakeBroadcaster{}
	uc := newTestUseCase(repo, counter, broadcaster, now)

	_, err := uc.Execute(context.Background(), validRequest(tomorrow))
	assert.ErrorIs(t, err, ErrSlotFull)

	// Отказ не создает записей и не публикует снимков
	assert.Empty(t, repo.created)
	assert.Empty(t, broadcaster.dates)
}

func TestExecute_LastSpot(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	repo := &fakeAppointmentRepo{}
	counter := &fakeSlotCounter{schedule: testSchedule(), occupied: domain.SlotCapacity - 1}
	uc := newTestUseCase(repo, counter, &fakeBroadcaster{}, now)

	resp, err := uc.Execute(context.Background(), validRequest(tomorrow))
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestExecute_Validation(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name     string
		mutate   func(req *Request)
		expected error
	}{
		{"zero user", func(r *Request) { r.UserID = 0 }, ErrInvalidInput},
		{"negative service", func(r *Request) { r.ServiceID = -1 }, ErrInvalidInput},
		{"zero vehicle", func(r *Request) { r.VehicleID = 0 }, ErrInvalidInput},
		{"zero date", func(r *Request) { r.Date = time.Time{} }, ErrInvalidInput},
		{"invalid slot", func(r *Request) { r.StartSlot = types.TimeSlot(types.MinutesPerDay) }, ErrInvalidInput},
		{"negative price", func(r *Request) { r.Price = -10 }, ErrInvalidInput},
		{"unknown payment type", func(r *Request) { r.PaymentType = "credit" }, ErrInvalidInput},
		{"past date", func(r *Request) { r.Date = now.AddDate(0, 0, -1) }, ErrInvalidDate},
		{"slot before opening", func(r *Request) { r.StartSlot = types.TimeSlot(8 * 60) }, ErrSlotOutsideSchedule},
		{"slot after closing", func(r *Request) { r.StartSlot = types.TimeSlot(18 * 60) }, ErrSlotOutsideSchedule},
		{"unaligned slot", func(r *Request) { r.StartSlot = types.TimeSlot(14*60 + 15) }, ErrSlotOutsideSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAppointmentRepo{}
			counter := &fakeSlotCounter{schedule: testSchedule()}
			uc := newTestUseCase(repo, counter, &fakeBroadcaster{}, now)

			req := validRequest(tomorrow)
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, repo.created)
			assert.Zero(t, counter.calls, "validation must reject before touching storage")
		})
	}
}

func TestExecute_LongNotes(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeSlotCounter{schedule: testSchedule()}, &fakeBroadcaster{}, now)

	notes := make([]byte, domain.MaxNotesLength+1)
	for i := range notes {
		notes[i] = 'x'
	}
	req := validRequest(now.AddDate(0, 0, 1))
	req.Notes = ptr.Ptr(string(notes))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_MinimumNotice(t *testing.T) {
	// Сегодня, 10:00, минимальный запас 60 минут
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	t.Run("too late for near slot", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeSlotCounter{schedule: testSchedule()}, &fakeBroadcaster{}, now)

		req := validRequest(now)
		req.StartSlot = types.TimeSlot(10*60 + 30) // 10:30, до начала 30 минут

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrTooLateToBook)
	})

	t.Run("allowed at exactly the notice boundary", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeSlotCounter{schedule: testSchedule()}, &fakeBroadcaster{}, now)

		req := validRequest(now)
		req.StartSlot = types.TimeSlot(11 * 60) // ровно 60 минут до начала

		_, err := uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("notice does not apply to future dates", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeSlotCounter{schedule: testSchedule()}, &fakeBroadcaster{}, now)

		req := validRequest(now.AddDate(0, 0, 1))
		req.StartSlot = types.TimeSlot(9 * 60) // раньше текущего времени, но завтра

		_, err := uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})
}

// liveSlotCounter считает занятость по реально созданным записям,
// как это делает настоящий репозиторий внутри транзакции
type liveSlotCounter struct {
	schedule domain.ScheduleConfig
	repo     *fakeAppointmentRepo
	base     int
	calls    int
}

func (c *liveSlotCounter) CountInSlot(_ context.Context, _ time.Time, _ types.TimeSlot, _ *int64) (int, error) {
	c.calls++
	return c.base + len(c.repo.created), nil
}

func (c *liveSlotCounter) Schedule() domain.ScheduleConfig {
	return c.schedule
}

// conflictTxManager имитирует проигрыш конкуренту: первая попытка
// откатывается (40001 на commit), перед повтором конкурент занимает место
type conflictTxManager struct {
	repo     *fakeAppointmentRepo
	counter  *fakeSlotCounter
	attempts int
}

func (m *conflictTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	for {
		m.attempts++
		err := fn(ctx)
		if m.attempts == 1 {
			// Откат первой попытки: наша запись исчезает, чужая фиксируется
			m.repo.created = nil
			m.repo.nextID = 0
			m.counter.occupied++
			continue
		}
		return err
	}
}

func TestExecute_ConcurrentAdmission(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	// Одно свободное место; две заявки на один и тот же слот
	repo := &fakeAppointmentRepo{}
	counter := &liveSlotCounter{schedule: testSchedule(), repo: repo, base: domain.SlotCapacity - 1}
	broadcaster := &fakeBroadcaster{}
	uc := NewUseCase(repo, counter, broadcaster, &fakeTxManager{}, nil, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}

	first, err := uc.Execute(context.Background(), validRequest(tomorrow))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	_, err = uc.Execute(context.Background(), validRequest(tomorrow))
	assert.ErrorIs(t, err, ErrSlotFull)

	// Ровно одна запись прошла, снимок опубликован один раз
	assert.Len(t, repo.created, 1)
	assert.Len(t, broadcaster.dates, 1)
}

func TestExecute_AdmissionRecountAfterConflict(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	repo := &fakeAppointmentRepo{}
	counter := &fakeSlotCounter{schedule: testSchedule(), occupied: domain.SlotCapacity - 1}
	broadcaster := &fakeBroadcaster{}
	txm := &conflictTxManager{repo: repo, counter: counter}
	uc := NewUseCase(repo, counter, broadcaster, txm, nil, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}

	_, err := uc.Execute(context.Background(), validRequest(tomorrow))
	assert.ErrorIs(t, err, ErrSlotFull)

	// Повтор пересчитал занятость и увидел занявшего место конкурента
	assert.Equal(t, 2, txm.attempts)
	assert.Equal(t, 2, counter.calls)
	assert.Empty(t, repo.created)
	assert.Empty(t, broadcaster.dates)
}

func TestExecute_RepoErrors(t *testing.T) {
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	t.Run("count failure", func(t *testing.T) {
		counter := &fakeSlotCounter{schedule: testSchedule(), countErr: errors.New("db down")}
		uc := newTestUseCase(&fakeAppointmentRepo{}, counter, &fakeBroadcaster{}, now)

		_, err := uc.Execute(context.Background(), validRequest(tomorrow))
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("create failure", func(t *testing.T) {
		repo := &fakeAppointmentRepo{createErr: errors.New("db down")}
		uc := newTestUseCase(repo, &fakeSlotCounter{schedule: testSchedule()}, &fakeBroadcaster{}, now)

		_, err := uc.Execute(context.Background(), validRequest(tomorrow))
		assert.ErrorIs(t, err, ErrInternal)
	})
}
