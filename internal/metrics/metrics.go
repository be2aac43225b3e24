package metrics

import (
	"sync"
	"time"
)

// MetricsCollector provides a centralized way to collect and retrieve metrics
type MetricsCollector struct {
	mutex               sync.RWMutex
	counters            map[string]int64
	gauges              map[string]float64
	requestLatencies    map[string][]time.Duration
	requestCounts       map[string]int64
	transitionCounts    map[string]int64
	transitionLatencies map[string][]time.Duration
	messageBusCounts    map[string]int64
	messageBusLatencies map[string][]time.Duration
	databaseQueryCounts map[string]int64
	databaseLatencies   map[string][]time.Duration
	errorCounts         map[string]int64
	startTime           time.Time
	maxHistogramSamples int
}

// Counter metrics
const (
	CounterHTTPRequests        = "http_requests_total"
	CounterHTTPRequestsSuccess = "http_requests_success_total"
	CounterHTTPRequestsError   = "http_requests_error_total"
	CounterServiciosCreados    = "servicios_creados_total"
	CounterServiciosEnviados   = "servicios_enviados_total"
	CounterServiciosValidados  = "servicios_validados_total"
	CounterServiciosCompletos  = "servicios_completados_total"
	CounterFalsosFletes        = "falsos_fletes_total"
	CounterTransicionRechazada = "transiciones_rechazadas_total"
	CounterMessagesSent        = "messages_sent_total"
	CounterMessagesError       = "messages_error_total"
	CounterDBQueriesTotal      = "db_queries_total"
	CounterDBQueriesError      = "db_queries_error_total"
	CounterErrorsTotal         = "errors_total"
)

// Gauge metrics
const (
	GaugeServiciosActivos     = "servicios_activos"
	GaugePendientesDevolucion = "servicios_pendiente_devolucion"
	GaugeSystemMemory         = "system_memory_bytes"
)

// Transition types for transition metrics
const (
	TransitionTypeCreate     = "crear"
	TransitionTypeSubmit     = "enviar"
	TransitionTypeAssign     = "asignar"
	TransitionTypeFalsoFlete = "falso_flete"
	TransitionTypeReview     = "validar"
	TransitionTypeFinalize   = "finalizar"
	TransitionTypeRejected   = "rechazada"
)

// Database query types
const (
	DBQueryTypeSelect = "select"
	DBQueryTypeInsert = "insert"
	DBQueryTypeUpdate = "update"
	DBQueryTypeDelete = "delete"
)

// Message bus operations
const (
	MessageBusOperationSend = "send"
)

// Error types
const (
	ErrorTypeHTTP         = "http"
	ErrorTypeValidation   = "validation"
	ErrorTypePrecondition = "precondition"
	ErrorTypeDatabase     = "database"
	ErrorTypeMessageBus   = "message_bus"
	ErrorTypeSearch       = "search"
	ErrorTypeInternal     = "internal"
)

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:            make(map[string]int64),
		gauges:              make(map[string]float64),
		requestLatencies:    make(map[string][]time.Duration),
		requestCounts:       make(map[string]int64),
		transitionCounts:    make(map[string]int64),
		transitionLatencies: make(map[string][]time.Duration),
		messageBusCounts:    make(map[string]int64),
		messageBusLatencies: make(map[string][]time.Duration),
		databaseQueryCounts: make(map[string]int64),
		databaseLatencies:   make(map[string][]time.Duration),
		errorCounts:         make(map[string]int64),
		startTime:           time.Now(),
		maxHistogramSamples: 1000,
	}
}

// IncrementCounter increments a counter by the given value
func (m *MetricsCollector) IncrementCounter(name string, value int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.counters[name] += value
}

// SetGauge sets a gauge to the given value
func (m *MetricsCollector) SetGauge(name string, value float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.gauges[name] = value
}

func appendSample(samples []time.Duration, value time.Duration, max int) []time.Duration {
	if samples == nil {
		samples = make([]time.Duration, 0, max)
	}
	if len(samples) >= max {
		samples = samples[1:]
	}
	return append(samples, value)
}

// RecordHTTPRequest records metrics for an HTTP request
func (m *MetricsCollector) RecordHTTPRequest(path string, statusCode int, latency time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.counters[CounterHTTPRequests]++
	m.requestCounts[path]++
	m.requestLatencies[path] = appendSample(m.requestLatencies[path], latency, m.maxHistogramSamples)

	if statusCode >= 200 && statusCode < 400 {
		m.counters[CounterHTTPRequestsSuccess]++
	} else {
		m.counters[CounterHTTPRequestsError]++
		m.errorCounts[ErrorTypeHTTP]++
	}
}

// RecordTransition records metrics for a lifecycle transition
func (m *MetricsCollector) RecordTransition(transitionType string, latency time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.transitionCounts[transitionType]++

	switch transitionType {
	case TransitionTypeCreate:
		m.counters[CounterServiciosCreados]++
	case TransitionTypeSubmit:
		m.counters[CounterServiciosEnviados]++
	case TransitionTypeReview:
		m.counters[CounterServiciosValidados]++
	case TransitionTypeFinalize:
		m.counters[CounterServiciosCompletos]++
	case TransitionTypeFalsoFlete:
		m.counters[CounterFalsosFletes]++
	case TransitionTypeRejected:
		m.counters[CounterTransicionRechazada]++
		m.errorCounts[ErrorTypePrecondition]++
	}

	m.transitionLatencies[transitionType] = appendSample(m.transitionLatencies[transitionType], latency, m.maxHistogramSamples)
}

// RecordMessageBusOperation records metrics for a message bus operation
func (m *MetricsCollector) RecordMessageBusOperation(operation string, success bool, latency time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.messageBusCounts[operation]++
	if operation == MessageBusOperationSend {
		m.counters[CounterMessagesSent]++
	}
	if !success {
		m.counters[CounterMessagesError]++
		m.errorCounts[ErrorTypeMessageBus]++
	}

	m.messageBusLatencies[operation] = appendSample(m.messageBusLatencies[operation], latency, m.maxHistogramSamples)
}

// RecordDatabaseQuery records metrics for a database query
func (m *MetricsCollector) RecordDatabaseQuery(queryType string, success bool, latency time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.databaseQueryCounts[queryType]++
	m.counters[CounterDBQueriesTotal]++
	if !success {
		m.counters[CounterDBQueriesError]++
		m.errorCounts[ErrorTypeDatabase]++
	}

	m.databaseLatencies[queryType] = appendSample(m.databaseLatencies[queryType], latency, m.maxHistogramSamples)
}

// RecordError records an error of the given type
func (m *MetricsCollector) RecordError(errorType string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.errorCounts[errorType]++
	m.counters[CounterErrorsTotal]++
}

// SetServiciosActivos sets the number of services currently in flight
func (m *MetricsCollector) SetServiciosActivos(count int) {
	m.SetGauge(GaugeServiciosActivos, float64(count))
}

// SetPendientesDevolucion sets the number of services awaiting container return
func (m *MetricsCollector) SetPendientesDevolucion(count int) {
	m.SetGauge(GaugePendientesDevolucion, float64(count))
}

func averageLatencies(source map[string][]time.Duration) map[string]float64 {
	averages := make(map[string]float64)
	for key, latencies := range source {
		if len(latencies) == 0 {
			continue
		}
		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		averages[key] = float64(sum.Milliseconds()) / float64(len(latencies))
	}
	return averages
}

// GetMetrics returns all collected metrics in a structured format
func (m *MetricsCollector) GetMetrics() map[string]interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return map[string]interface{}{
		"uptime_seconds":           time.Since(m.startTime).Seconds(),
		"counters":                 m.counters,
		"gauges":                   m.gauges,
		"request_counts":           m.requestCounts,
		"request_latencies_ms":     averageLatencies(m.requestLatencies),
		"transition_counts":        m.transitionCounts,
		"transition_latencies_ms":  averageLatencies(m.transitionLatencies),
		"message_bus_counts":       m.messageBusCounts,
		"message_bus_latencies_ms": averageLatencies(m.messageBusLatencies),
		"database_query_counts":    m.databaseQueryCounts,
		"database_latencies_ms":    averageLatencies(m.databaseLatencies),
		"error_counts":             m.errorCounts,
	}
}

// GetHealthStatus returns a simple health status based on metrics
func (m *MetricsCollector) GetHealthStatus() map[string]interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	healthy := true

	errorRate := 0.0
	totalRequests := m.counters[CounterHTTPRequests]
	if totalRequests > 0 {
		errorRate = float64(m.counters[CounterHTTPRequestsError]) / float64(totalRequests)
	}

	// 5% error rate is considered unhealthy
	const errorRateThreshold = 0.05
	if errorRate > errorRateThreshold {
		healthy = false
	}

	return map[string]interface{}{
		"status": map[string]interface{}{
			"healthy":        healthy,
			"uptime_seconds": time.Since(m.startTime).Seconds(),
		},
		"metrics": map[string]interface{}{
			"total_requests":        totalRequests,
			"error_rate":            errorRate,
			"servicios_creados":     m.counters[CounterServiciosCreados],
			"servicios_completados": m.counters[CounterServiciosCompletos],
			"falsos_fletes":         m.counters[CounterFalsosFletes],
			"messages_sent":         m.counters[CounterMessagesSent],
			"messages_error":        m.counters[CounterMessagesError],
		},
	}
}

// Global metrics collector instance
var globalCollector *MetricsCollector
var once sync.Once

// GetMetricsCollector returns the global metrics collector instance
func GetMetricsCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector()
	})
	return globalCollector
}
