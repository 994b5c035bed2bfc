package info

var (
	// Version is set in compile time.
	Version = "dev"

	// Prometheus namespace (prefix) used for prometheus metrics.
	PrometheusNamespace = "tfe_notifier"
)
