package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration *prometheus.HistogramVec
	DBPoolOpenConns prometheus.Gauge
	DBPoolInUse     prometheus.Gauge
	DBPoolIdle      prometheus.Gauge

	// Доменные метрики
	AdmissionRejectedTotal prometheus.Counter
	PaymentsProcessedTotal *prometheus.CounterVec
	BroadcastsTotal        *prometheus.CounterVec
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		DBPoolOpenConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}),

		DBPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of database connections currently in use",
			ConstLabels: constLabels,
		}),

		DBPoolIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),

		AdmissionRejectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "slot_admission_rejected_total",
			Help:        "Total number of bookings rejected because the slot was full",
			ConstLabels: constLabels,
		}),

		PaymentsProcessedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "payments_processed_total",
			Help:        "Total number of processed payment callbacks by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		BroadcastsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "realtime_broadcasts_total",
			Help:        "Total number of real-time channel publishes by result",
			ConstLabels: constLabels,
		}, []string{"channel", "result"}),
	}
}

// Nil-safe обёртки доменных метрик: при выключенных метриках в зависимостях
// лежит nil *Metrics, вызовы превращаются в no-op.

// ObserveAdmissionRejected фиксирует отказ в создании записи из-за
// переполненного слота
func (m *Metrics) ObserveAdmissionRejected() {
	if m == nil {
		return
	}
	m.AdmissionRejectedTotal.Inc()
}

// ObservePayment фиксирует исход обработки платежного callback
func (m *Metrics) ObservePayment(outcome string) {
	if m == nil {
		return
	}
	m.PaymentsProcessedTotal.WithLabelValues(outcome).Inc()
}

// ObserveBroadcast фиксирует публикацию в live-канал
func (m *Metrics) ObserveBroadcast(channel, result string) {
	if m == nil {
		return
	}
	m.BroadcastsTotal.WithLabelValues(channel, result).Inc()
}
