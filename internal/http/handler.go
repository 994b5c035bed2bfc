package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"strings"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/slok/tfe-notifier/internal/internalerrors"
	"github.com/slok/tfe-notifier/internal/log"
	"github.com/slok/tfe-notifier/internal/model"
	"github.com/slok/tfe-notifier/internal/notification"
)

// Dispatcher knows how to create a run from an already classified notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, n model.Notification, action model.Action, autoApply bool) (*model.Run, error)
}

//go:generate mockery --case underscore --output httpmock --outpkg httpmock --name Dispatcher

// HandlerConfig is the configuration of the notifier webhook handler.
type HandlerConfig struct {
	Logger             log.Logger
	Dispatcher         Dispatcher
	SignatureValidator notification.SignatureValidator
	MetricsRecorder    MetricsRecorder
	AutoApply          bool
}

func (c *HandlerConfig) defaults() error {
	if c.Dispatcher == nil {
		return fmt.Errorf("dispatcher is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "http.Handler"})

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = NoopMetricsRecorder
	}

	return nil
}

// NewHandler returns the HTTP handler with all the webhook routes of the
// notifier.
func NewHandler(config HandlerConfig) (http.Handler, error) {
	err := config.defaults()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	h := handler{
		logger:     config.Logger,
		dispatcher: config.Dispatcher,
		validator:  config.SignatureValidator,
		metrics:    config.MetricsRecorder,
		autoApply:  config.AutoApply,
	}

	r := mux.NewRouter()

	// Catch panics and return 500s.
	r.Use(gorillahandlers.RecoveryHandler(gorillahandlers.PrintRecoveryStack(true)))
	r.Use(newRequestMiddleware(config.Logger, config.MetricsRecorder))

	r.Methods(http.MethodGet).Path("/health").HandlerFunc(h.health)
	r.Methods(http.MethodPost).Path("/webhook/apply").HandlerFunc(h.webhook(model.ActionApply, false))
	r.Methods(http.MethodPost).Path("/webhook/destroy").HandlerFunc(h.webhook(model.ActionDestroy, false))
	r.Methods(http.MethodPost).Path("/webhook/conditional").HandlerFunc(h.webhook(model.ActionApply, true))

	return r, nil
}

type handler struct {
	logger     log.Logger
	dispatcher Dispatcher
	validator  notification.SignatureValidator
	metrics    MetricsRecorder
	autoApply  bool
}

func (h handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

// webhook returns the handler of a webhook endpoint. When conditional is
// true the action argument is ignored and resolved per notification instead.
func (h handler) webhook(action model.Action, conditional bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := h.logger.WithCtxValues(ctx).WithValues(log.Kv{"endpoint": r.URL.Path})

		body, err := io.ReadAll(r.Body)
		if err != nil || len(body) == 0 {
			logger.Warningf("No payload provided")
			h.writeError(w, http.StatusBadRequest, "No payload provided")
			return
		}

		var payload notification.Payload
		err = json.Unmarshal(body, &payload)
		if err != nil {
			logger.Warningf("%s: %s", internalerrors.ErrMalformedPayload, err)
			h.writeError(w, http.StatusBadRequest, internalerrors.ErrMalformedPayload.Error())
			return
		}

		// Probe detection goes first: probes are exempt from missing
		// signatures, so the validator needs to know.
		isProbe := notification.IsVerification(payload)

		err = h.validator.Validate(body, signatureFromRequest(r), isProbe)
		if err != nil {
			logger.Warningf("Signature verification failed: %s", err)
			h.metrics.SignatureFailure(signatureFailureReason(err))
			h.writeError(w, http.StatusUnauthorized, "Unauthorized: invalid notification signature")
			return
		}

		if isProbe {
			logger.Infof("Verification request received")
			h.metrics.NotificationReceived(r.URL.Path, "verification")
			h.writeJSON(w, http.StatusOK, map[string]any{
				"status":  "success",
				"message": "Webhook verified successfully",
				"type":    "verification",
			})
			return
		}

		n, err := notification.Parse(payload)
		if err != nil {
			logger.Warningf("Could not classify notification: %s", err)
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.metrics.NotificationReceived(r.URL.Path, "notification")

		// The resolved action is request local, the closed over action is
		// shared by every request of the route.
		resolvedAction := action
		if conditional {
			resolvedAction = notification.DecideAction(*n)
		}

		run, err := h.dispatcher.Dispatch(ctx, *n, resolvedAction, h.autoApply)
		if err != nil {
			switch {
			case errors.Is(err, internalerrors.ErrMissingWorkspace):
				h.writeError(w, http.StatusBadRequest, internalerrors.ErrMissingWorkspace.Error())
			default:
				logger.Errorf("Could not dispatch run: %s", err)
				h.writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		h.metrics.RunCreated(string(resolvedAction))

		resp := map[string]any{
			"status":  "success",
			"run_id":  run.ID,
			"message": fmt.Sprintf("%s run created successfully", capitalize(string(resolvedAction))),
		}
		if conditional {
			resp["action"] = string(resolvedAction)
		}
		h.writeJSON(w, http.StatusOK, resp)
	}
}

func (h handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		h.logger.Errorf("Could not encode response: %s", err)
	}
}

func (h handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// signatureFromRequest reads the signature header keeping the distinction
// between a header that is absent and one that is present but empty.
func signatureFromRequest(r *http.Request) notification.Signature {
	values, ok := r.Header[textproto.CanonicalMIMEHeaderKey(notification.SignatureHeader)]
	if !ok || len(values) == 0 {
		return notification.Signature{}
	}

	return notification.Signature{Value: values[0], Present: true}
}

func signatureFailureReason(err error) string {
	switch {
	case errors.Is(err, internalerrors.ErrSignatureMissing):
		return "missing_header"
	case errors.Is(err, internalerrors.ErrSignatureEmpty):
		return "empty_header"
	default:
		return "invalid"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
