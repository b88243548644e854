package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics содержит метрики проверок заказов и расписаний.
type ValidationMetrics struct {
	// Счётчики проверок с результатом
	complianceChecks *prometheus.CounterVec
	scheduleChecks   *prometheus.CounterVec

	// Детализация нарушений
	conflictsDetected *prometheus.CounterVec
	lineRejections    *prometheus.CounterVec

	// Гистограмма времени выполнения проверок
	checkDuration *prometheus.HistogramVec

	// Gauge для последнего загруженного снапшота справочников
	snapshotRecords prometheus.Gauge
}

// NewValidationMetrics создаёт новый экземпляр метрик валидации.
func NewValidationMetrics() *ValidationMetrics {
	return newValidationMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newValidationMetricsWithRegisterer(registerer prometheus.Registerer) *ValidationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ValidationMetrics{
		complianceChecks: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fleetops_compliance_checks_total",
			Help: "Total number of sourcing compliance checks by result",
		}, []string{"result"}),
		scheduleChecks: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fleetops_schedule_checks_total",
			Help: "Total number of assignment validations by result",
		}, []string{"result"}),
		conflictsDetected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fleetops_schedule_conflicts_total",
			Help: "Total number of schedule conflicts detected by dimension",
		}, []string{"dimension"}),
		lineRejections: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fleetops_order_line_rejections_total",
			Help: "Total number of rejected order lines by reason",
		}, []string{"reason"}),
		checkDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "fleetops_check_duration_seconds",
			Help:    "Duration of validation checks in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"check"}),
		snapshotRecords: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "fleetops_reference_snapshot_records",
			Help: "Number of reference records in the last loaded snapshot",
		}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordComplianceCheck увеличивает счётчик проверок правила 80/20.
func (m *ValidationMetrics) RecordComplianceCheck(compliant bool) {
	m.complianceChecks.WithLabelValues(checkResult(compliant)).Inc()
}

// RecordScheduleCheck увеличивает счётчик проверок назначений.
func (m *ValidationMetrics) RecordScheduleCheck(valid bool) {
	m.scheduleChecks.WithLabelValues(checkResult(valid)).Inc()
}

// RecordConflict увеличивает счётчик обнаруженных конфликтов расписания.
func (m *ValidationMetrics) RecordConflict(dimension string) {
	m.conflictsDetected.WithLabelValues(dimension).Inc()
}

// RecordLineRejection увеличивает счётчик отклонённых строк заказа.
func (m *ValidationMetrics) RecordLineRejection(reason string) {
	m.lineRejections.WithLabelValues(reason).Inc()
}

// RecordCheckDuration записывает время выполнения проверки.
func (m *ValidationMetrics) RecordCheckDuration(check string, duration time.Duration) {
	m.checkDuration.WithLabelValues(check).Observe(duration.Seconds())
}

// RecordSnapshotSize фиксирует размер загруженного снапшота справочников.
func (m *ValidationMetrics) RecordSnapshotSize(records int) {
	m.snapshotRecords.Set(float64(records))
}

func checkResult(ok bool) string {
	if ok {
		return "ok"
	}
	return "rejected"
}
