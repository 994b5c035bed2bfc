package commands

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/hashicorp/go-tfe"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/slok/tfe-notifier/internal/dispatch"
	internalhttp "github.com/slok/tfe-notifier/internal/http"
	"github.com/slok/tfe-notifier/internal/log"
	internalprometheus "github.com/slok/tfe-notifier/internal/metrics/prometheus"
	"github.com/slok/tfe-notifier/internal/notification"
	"github.com/slok/tfe-notifier/internal/storage/fake"
	tfestorage "github.com/slok/tfe-notifier/internal/storage/tfe"
)

// tfeClientTimeout bounds every outbound TFE API call, there are no retries.
const tfeClientTimeout = 30 * time.Second

type ServerCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	dryRun        bool
	listenAddress string
	metricsPath   string
	pprofPath     string
}

// NewServerCommand returns the server command.
func NewServerCommand(rootConfig *RootCommand, app *kingpin.Application) *ServerCommand {
	cmd := app.Command("server", "Runs the notification webhook server.")
	c := &ServerCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("dry-run", "Will receive and classify notifications without creating any run, without a TFE token it uses a fake TFE API.").BoolVar(&c.dryRun)
	cmd.Flag("listen-address", "The address where the server will be listening.").Default(":5000").StringVar(&c.listenAddress)
	cmd.Flag("metrics-path", "The path where Prometheus metrics will be served.").Default("/metrics").StringVar(&c.metricsPath)
	cmd.Flag("pprof-path", "The path where the pprof handlers will be served.").Default("/debug/pprof").StringVar(&c.pprofPath)

	return c
}

func (c ServerCommand) Name() string { return c.cmd.FullCommand() }
func (c ServerCommand) Run(ctx context.Context) error {
	logger := c.rootConfig.Logger

	repo, err := c.storageRepository(logger)
	if err != nil {
		return err
	}

	dispatcher, err := dispatch.NewDispatcher(logger, repo)
	if err != nil {
		return fmt.Errorf("could not create run dispatcher: %w", err)
	}

	validator := notification.NewSignatureValidator(c.rootConfig.NotificationHMACSecret)
	if !validator.Enabled() {
		logger.Warningf("Notification HMAC secret not set, webhook signatures will not be verified")
	}

	if c.rootConfig.AutoApply {
		logger.Warningf("Auto-apply is enabled, created runs will apply automatically after a successful plan")
	}

	metricsRecorder := internalprometheus.NewRecorder(prometheus.DefaultRegisterer)

	handler, err := internalhttp.NewHandler(internalhttp.HandlerConfig{
		Logger:             logger,
		Dispatcher:         dispatcher,
		SignatureValidator: validator,
		MetricsRecorder:    metricsRecorder,
		AutoApply:          c.rootConfig.AutoApply,
	})
	if err != nil {
		return fmt.Errorf("could not create webhook handler: %w", err)
	}

	logger.WithValues(log.Kv{
		"tfe-address":       c.rootConfig.TFEAddress,
		"auto-apply":        c.rootConfig.AutoApply,
		"hmac-verification": validator.Enabled(),
		"dry-run":           c.dryRun,
	}).Infof("Starting TFE notification middleware")

	var g run.Group

	// Serving HTTP server.
	{
		logger := logger.WithValues(log.Kv{
			"addr":    c.listenAddress,
			"metrics": c.metricsPath,
			"pprof":   c.pprofPath,
		})

		mux := http.NewServeMux()

		// Metrics.
		mux.Handle(c.metricsPath, promhttp.Handler())

		// Pprof.
		mux.HandleFunc(c.pprofPath+"/", pprof.Index)
		mux.HandleFunc(c.pprofPath+"/cmdline", pprof.Cmdline)
		mux.HandleFunc(c.pprofPath+"/profile", pprof.Profile)
		mux.HandleFunc(c.pprofPath+"/symbol", pprof.Symbol)
		mux.HandleFunc(c.pprofPath+"/trace", pprof.Trace)

		// Webhook and health endpoints.
		mux.Handle("/", handler)

		// Create server.
		server := &http.Server{
			Addr:    c.listenAddress,
			Handler: mux,
		}

		g.Add(
			func() error {
				logger.Infof("HTTP server listening for requests")
				return server.ListenAndServe()
			},
			func(_ error) {
				logger.Infof("HTTP server shutdown, draining connections...")

				ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				err := server.Shutdown(ctx)
				if err != nil {
					logger.Errorf("Error shutting down server: %s", err)
				}

				logger.Infof("Connections drained")
			},
		)
	}

	// In case we are stopped from the upper level context.
	{
		g.Add(
			func() error {
				<-ctx.Done()
				return nil
			},
			func(_ error) {},
		)
	}

	return g.Run()
}

// storageRepository builds the TFE repository the dispatcher will create
// runs with. Without a token only dry-run mode can start, backed by a fake
// TFE API.
func (c ServerCommand) storageRepository(logger log.Logger) (tfestorage.Repository, error) {
	if c.rootConfig.TFEToken == "" {
		if !c.dryRun {
			return nil, fmt.Errorf("a TFE API token is required")
		}

		logger.Warningf("No TFE token provided, using a fake TFE repository")
		return fake.NewRepository(), nil
	}

	httpClient := &http.Client{Timeout: tfeClientTimeout}
	if c.rootConfig.TFETLSSkipVerify {
		logger.Warningf("TLS certificate verification disabled for TFE API calls")
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	client, err := tfe.NewClient(&tfe.Config{
		Token:      c.rootConfig.TFEToken,
		Address:    c.rootConfig.TFEAddress,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create tfe client: %w", err)
	}

	repo, err := tfestorage.NewRepository(tfestorage.NewClient(client))
	if err != nil {
		return nil, fmt.Errorf("could not create tfe storage repository: %w", err)
	}

	if c.dryRun {
		repo = tfestorage.NewDryRunRepository(logger, repo)
	}

	return repo, nil
}
