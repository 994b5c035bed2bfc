package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/slok/tfe-notifier/internal/info"
)

// Recorder records the notifier metrics on a prometheus registry.
type Recorder struct {
	notificationsReceived *prometheus.CounterVec
	runsCreated           *prometheus.CounterVec
	signatureFailures     *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		notificationsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: info.PrometheusNamespace,
			Subsystem: "notifications",
			Name:      "received_total",
			Help:      "The number of received notifications.",
		}, []string{"endpoint", "kind"}),

		runsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: info.PrometheusNamespace,
			Subsystem: "runs",
			Name:      "created_total",
			Help:      "The number of runs created from notifications.",
		}, []string{"action"}),

		signatureFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: info.PrometheusNamespace,
			Subsystem: "notifications",
			Name:      "signature_failures_total",
			Help:      "The number of notifications rejected because of signature verification failures.",
		}, []string{"reason"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: info.PrometheusNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "The duration of the handled HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),
	}

	reg.MustRegister(
		r.notificationsReceived,
		r.runsCreated,
		r.signatureFailures,
		r.httpRequestDuration,
	)

	return r
}

func (r Recorder) NotificationReceived(endpoint, kind string) {
	r.notificationsReceived.WithLabelValues(endpoint, kind).Inc()
}

func (r Recorder) RunCreated(action string) {
	r.runsCreated.WithLabelValues(action).Inc()
}

func (r Recorder) SignatureFailure(reason string) {
	r.signatureFailures.WithLabelValues(reason).Inc()
}

func (r Recorder) HTTPRequest(path, method string, status int, duration time.Duration) {
	r.httpRequestDuration.WithLabelValues(path, method, strconv.Itoa(status)).Observe(duration.Seconds())
}
