package http

import "time"

// MetricsRecorder knows how to record the metrics of the notifier HTTP layer.
type MetricsRecorder interface {
	NotificationReceived(endpoint, kind string)
	RunCreated(action string)
	SignatureFailure(reason string)
	HTTPRequest(path, method string, status int, duration time.Duration)
}

// NoopMetricsRecorder doesn't record anything.
const NoopMetricsRecorder = noopMetricsRecorder(false)

type noopMetricsRecorder bool

func (noopMetricsRecorder) NotificationReceived(endpoint, kind string)                         {}
func (noopMetricsRecorder) RunCreated(action string)                                           {}
func (noopMetricsRecorder) SignatureFailure(reason string)                                     {}
func (noopMetricsRecorder) HTTPRequest(path, method string, status int, duration time.Duration) {}
