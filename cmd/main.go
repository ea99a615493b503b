package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/get_availability"
	getNotificationsHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/get_notifications"
	getScheduleHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/get_schedule"
	getUserAppointmentsHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/get_user_appointments"
	initiatePaymentHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/initiate_payment"
	markNotificationReadHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/mark_notification_read"
	paymentCallbackHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/payment_callback"
	rescheduleAppointmentHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/sparkwash/CW-BookingService/internal/api/handlers/update_appointment_status"
	"github.com/sparkwash/CW-BookingService/internal/api/middleware"
	"github.com/sparkwash/CW-BookingService/internal/config"
	"github.com/sparkwash/CW-BookingService/internal/infra/broker"
	appointmentRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/appointment"
	notificationRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/notification"
	orderRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/order"
	paymentRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/payment"
	userRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/user"
	"github.com/sparkwash/CW-BookingService/internal/integrations/esewa"
	appointmentsService "github.com/sparkwash/CW-BookingService/internal/service/appointments"
	availabilityService "github.com/sparkwash/CW-BookingService/internal/service/availability"
	notificationsService "github.com/sparkwash/CW-BookingService/internal/service/notifications"
	createAppointmentUC "github.com/sparkwash/CW-BookingService/internal/usecase/create_appointment"
	getAvailabilityUC "github.com/sparkwash/CW-BookingService/internal/usecase/get_availability"
	initiatePaymentUC "github.com/sparkwash/CW-BookingService/internal/usecase/initiate_payment"
	processCallbackUC "github.com/sparkwash/CW-BookingService/internal/usecase/process_callback"
	rescheduleAppointmentUC "github.com/sparkwash/CW-BookingService/internal/usecase/reschedule_appointment"
	"github.com/sparkwash/CW-BookingService/pkg/dbmetrics"
	"github.com/sparkwash/CW-BookingService/pkg/logger"
	"github.com/sparkwash/CW-BookingService/pkg/metrics"
	"github.com/sparkwash/CW-BookingService/pkg/simpletxmanager"
	"github.com/sparkwash/CW-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CW-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Рабочая сетка мойки
	schedule, err := cfg.Schedule.ToDomain()
	if err != nil {
		log.Fatal("Invalid schedule config: %v", err)
	}
	log.Info("Schedule: %s-%s, slot=%dmin, capacity=%d",
		schedule.Open, schedule.Close, schedule.SlotDurationMinutes, schedule.Capacity)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции схемы
	if err := runMigrations(cfg); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Подключаемся к брокеру live-каналов
	publisher, err := broker.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
	if err != nil {
		log.Fatal("Failed to connect to broker: %v", err)
	}
	defer publisher.Close()
	log.Info("Connected to broker (exchange=%s)", cfg.Broker.Exchange)

	// Клиент платежного шлюза
	gatewayClient := esewa.NewClient(
		cfg.Esewa.GatewayURL,
		cfg.Esewa.ProductCode,
		cfg.Esewa.SecretKey,
		cfg.Esewa.SuccessURL,
		cfg.Esewa.FailureURL,
	)
	log.Info("Payment gateway client initialized (product=%s)", cfg.Esewa.ProductCode)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		appointmentRepository  *appointmentRepo.Repository
		orderRepository        *orderRepo.Repository
		paymentRepository      *paymentRepo.Repository
		notificationRepository *notificationRepo.Repository
		userRepository         *userRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		orderRepository = orderRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		userRepository = userRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		orderRepository = orderRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		userRepository = userRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	notificationsSvc := notificationsService.NewService(
		notificationRepository,
		userRepository,
		publisher,
		metricsCollector,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		appointmentRepository,
		publisher,
		schedule,
		metricsCollector,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		userRepository,
		availabilitySvc,
		notificationsSvc,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilitySvc,
		availabilitySvc,
		txMgr,
		metricsCollector,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		userRepository,
		availabilitySvc,
		availabilitySvc,
		txMgr,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(availabilitySvc, log)
	initiatePaymentUseCase := initiatePaymentUC.NewUseCase(
		appointmentRepository,
		orderRepository,
		gatewayClient,
		txMgr,
		log,
	)
	processCallbackUseCase := processCallbackUC.NewUseCase(
		appointmentRepository,
		orderRepository,
		paymentRepository,
		gatewayClient,
		notificationsSvc,
		txMgr,
		cfg.Esewa.RequireSignature,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getSchedule := getScheduleHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	initiatePayment := initiatePaymentHandler.NewHandler(initiatePaymentUseCase, log)
	paymentCallback := paymentCallbackHandler.NewHandler(processCallbackUseCase, log)
	getNotifications := getNotificationsHandler.NewHandler(notificationsSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Занятость слотов на дату
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Редирект платежного шлюза (success и failure приходят сюда же)
	api.HandleFunc("/payments/callback", paymentCallback.Handle).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/payments/success", paymentCallback.Handle).Methods(http.MethodGet)
	api.HandleFunc("/payments/failure", paymentCallback.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на мойку ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

	// --- Расписание дня (админ) ---
	protected.HandleFunc("/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// --- Платежи ---
	protected.HandleFunc("/payments/initiate", initiatePayment.Handle).Methods(http.MethodPost)

	// --- Уведомления ---
	protected.HandleFunc("/notifications", getNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", markNotificationRead.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// runMigrations применяет невыполненные миграции схемы
func runMigrations(cfg *config.Config) error {
	m, err := migrate.New(cfg.Migration.Path, cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
