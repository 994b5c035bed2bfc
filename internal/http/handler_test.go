package http_test

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	internalhttp "github.com/slok/tfe-notifier/internal/http"
	"github.com/slok/tfe-notifier/internal/http/httpmock"
	"github.com/slok/tfe-notifier/internal/log"
	"github.com/slok/tfe-notifier/internal/model"
	"github.com/slok/tfe-notifier/internal/notification"
)

func hmacSHA512Hex(secret, body string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHandler(t *testing.T) {
	tests := map[string]struct {
		secret    string
		autoApply bool
		method    string
		path      string
		body      string
		headers   func(h http.Header, body string)
		mock      func(md *httpmock.Dispatcher)
		expCode   int
		expBody   string
	}{
		"The health endpoint should return healthy.": {
			method:  http.MethodGet,
			path:    "/health",
			mock:    func(md *httpmock.Dispatcher) {},
			expCode: http.StatusOK,
			expBody: `{"status": "healthy"}`,
		},

		"An apply notification without secret configured should create an apply run.": {
			method: http.MethodPost,
			path:   "/webhook/apply",
			body:   `{"workspace_id": "ws-123", "trigger": "run:needs_attention", "message": "drift detected"}`,
			mock: func(md *httpmock.Dispatcher) {
				expNotification := model.Notification{
					WorkspaceID: "ws-123",
					Trigger:     "run:needs_attention",
					Message:     "drift detected",
				}
				md.On("Dispatch", mock.Anything, expNotification, model.ActionApply, false).Once().Return(&model.Run{ID: "run-1"}, nil)
			},
			expCode: http.StatusOK,
			expBody: `{"status": "success", "run_id": "run-1", "message": "Apply run created successfully"}`,
		},

		"A destroy notification should create a destroy run.": {
			method: http.MethodPost,
			path:   "/webhook/destroy",
			body:   `{"workspace_id": "ws-123"}`,
			mock: func(md *httpmock.Dispatcher) {
				md.On("Dispatch", mock.Anything, model.Notification{WorkspaceID: "ws-123"}, model.ActionDestroy, false).Once().Return(&model.Run{ID: "run-1"}, nil)
			},
			expCode: http.StatusOK,
			expBody: `{"status": "success", "run_id": "run-1", "message": "Destroy run created successfully"}`,
		},

		"The configured auto-apply default should be handed to the dispatcher.": {
			autoApply: true,
			method:    http.MethodPost,
			path:      "/webhook/apply",
			body:      `{"workspace_id": "ws-123"}`,
			mock: func(md *httpmock.Dispatcher) {
				md.On("Dispatch", mock.Anything, model.Notification{WorkspaceID: "ws-123"}, model.ActionApply, true).Once().Return(&model.Run{ID: "run-1"}, nil)
			},
			expCode: http.StatusOK,
			expBody: `{"status": "success", "run_id": "run-1", "message": "Apply run created successfully"}`,
		},

		"A conditional notification asking for a teardown should resolve to a destroy run.": {
			method: http.MethodPost,
			path:   "/webhook/conditional",
			body:   `{"workspace_id": "ws-1", "run_message": "please teardown env"}`,
			mock: func(md *httpmock.Dispatcher) {
				expNotification := model.Notification{WorkspaceID: "ws-1", RunMessage: "please teardown env"}
				md.On("Dispatch", mock.Anything, expNotification, model.ActionDestroy, false).Once().Return(&model.Run{ID: "run-1"}, nil)
			},
			expCode: http.StatusOK,
			expBody: `{"status": "success", "run_id": "run-1", "action": "destroy", "message": "Destroy run created successfully"}`,
		},

		"A conditional notification of an errored run should resolve to an apply run.": {
			method: http.MethodPost,
			path:   "/webhook/conditional",
			body:   `{"workspace_id": "ws-1", "run_status": "errored"}`,
			mock: func(md *httpmock.Dispatcher) {
				expNotification := model.Notification{WorkspaceID: "ws-1", RunStatus: "errored"}
				md.On("Dispatch", mock.Anything, expNotification, model.ActionApply, false).Once().Return(&model.Run{ID: "run-1"}, nil)
			},
			expCode: http.StatusOK,
			expBody: `{"status": "success", "run_id": "run-1", "action": "apply", "message": "Apply run created successfully"}`,
		},

		"A verification probe should be answered without creating any run.": {
			method:  http.MethodPost,
			path:    "/webhook/destroy",
			body:    `{"notifications": [{"trigger": "verification"}]}`,
			mock:    func(md *httpmock.Dispatcher) {},
			expCode: http.StatusOK,
			expBody: `{"status": "success", "message": "Webhook verified successfully", "type": "verification"}`,
		},

		"An empty body should be a bad request.": {
			method:  http.MethodPost,
			path:    "/webhook/apply",
			body:    "",
			mock:    func(md *httpmock.Dispatcher) {},
			expCode: http.StatusBadRequest,
			expBody: `{"error": "No payload provided"}`,
		},

		"An invalid JSON body should be a bad request.": {
			method:  http.MethodPost,
			path:    "/webhook/apply",
			body:    `{"workspace_id":`,
			mock:    func(md *httpmock.Dispatcher) {},
			expCode: http.StatusBadRequest,
			expBody: `{"error": "missing or invalid notification payload"}`,
		},

		"A notification without resolvable workspace should be a bad request.": {
			method:  http.MethodPost,
			path:    "/webhook/apply",
			body:    `{"trigger": "run:completed"}`,
			mock:    func(md *httpmock.Dispatcher) {},
			expCode: http.StatusBadRequest,
			expBody: `{"error": "workspace id not found in notification payload"}`,
		},

		"With secret configured, a correctly signed notification should pass.": {
			secret: "test-secret",
			method: http.MethodPost,
			path:   "/webhook/apply",
			body:   `{"workspace_id": "ws-123"}`,
			headers: func(h http.Header, body string) {
				h.Set(notification.SignatureHeader, hmacSHA512Hex("test-secret", body))
			},
			mock: func(md *httpmock.Dispatcher) {
				md.On("Dispatch", mock.Anything, model.Notification{WorkspaceID: "ws-123"}, model.ActionApply, false).Once().Return(&model.Run{ID: "run-1"}, nil)
			},
			expCode: http.StatusOK,
			expBody: `{"status": "success", "run_id": "run-1", "message": "Apply run created successfully"}`,
		},

		"With secret configured, a wrongly signed notification should be unauthorized.": {
			secret: "test-secret",
			method: http.MethodPost,
			path:   "/webhook/apply",
			body:   `{"workspace_id": "ws-123"}`,
			headers: func(h http.Header, body string) {
				h.Set(notification.SignatureHeader, hmacSHA512Hex("other-secret", body))
			},
			mock:    func(md *httpmock.Dispatcher) {},
			expCode: http.StatusUnauthorized,
			expBody: `{"error": "Unauthorized: invalid notification signature"}`,
		},

		"With secret configured, a notification without signature header should be unauthorized.": {
			secret:  "test-secret",
			method:  http.MethodPost,
			path:    "/webhook/apply",
			body:    `{"workspace_id": "ws-123"}`,
			mock:    func(md *httpmock.Dispatcher) {},
			expCode: http.StatusUnauthorized,
			expBody: `{"error": "Unauthorized: invalid notification signature"}`,
		},

		"With secret configured, an unsigned verification probe should still pass.": {
			secret:  "test-secret",
			method:  http.MethodPost,
			path:    "/webhook/apply",
			body:    `{"notifications": [{"trigger": "verification"}]}`,
			mock:    func(md *httpmock.Dispatcher) {},
			expCode: http.StatusOK,
			expBody: `{"status": "success", "message": "Webhook verified successfully", "type": "verification"}`,
		},

		"A dispatch failure should be an opaque internal error.": {
			method: http.MethodPost,
			path:   "/webhook/apply",
			body:   `{"workspace_id": "ws-123"}`,
			mock: func(md *httpmock.Dispatcher) {
				md.On("Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Once().Return(nil, fmt.Errorf("something"))
			},
			expCode: http.StatusInternalServerError,
			expBody: `{"error": "Internal server error"}`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			md := httpmock.NewDispatcher(t)
			test.mock(md)

			h, err := internalhttp.NewHandler(internalhttp.HandlerConfig{
				Logger:             log.Noop,
				Dispatcher:         md,
				SignatureValidator: notification.NewSignatureValidator(test.secret),
				AutoApply:          test.autoApply,
			})
			assert.NoError(err)

			req := httptest.NewRequest(test.method, test.path, strings.NewReader(test.body))
			if test.headers != nil {
				test.headers(req.Header, test.body)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(test.expCode, w.Code)
			assert.JSONEq(test.expBody, w.Body.String())
		})
	}
}

func TestHandlerConditionalActionIsRequestLocal(t *testing.T) {
	assert := assert.New(t)

	// The conditional endpoint resolves the action per notification, so
	// concurrent requests must each be dispatched and reported with their
	// own action. The mock matches on exact arguments, a notification
	// dispatched with the wrong action fails the expectations.
	md := httpmock.NewDispatcher(t)
	md.On("Dispatch", mock.Anything, model.Notification{WorkspaceID: "ws-1", RunMessage: "please teardown env"}, model.ActionDestroy, false).Return(&model.Run{ID: "run-1"}, nil)
	md.On("Dispatch", mock.Anything, model.Notification{WorkspaceID: "ws-2"}, model.ActionApply, false).Return(&model.Run{ID: "run-2"}, nil)

	h, err := internalhttp.NewHandler(internalhttp.HandlerConfig{
		Logger:     log.Noop,
		Dispatcher: md,
	})
	assert.NoError(err)

	requests := []struct {
		body      string
		expAction string
	}{
		{body: `{"workspace_id": "ws-1", "run_message": "please teardown env"}`, expAction: "destroy"},
		{body: `{"workspace_id": "ws-2"}`, expAction: "apply"},
	}

	const requestsPerKind = 25

	var wg sync.WaitGroup
	for i := 0; i < requestsPerKind; i++ {
		for _, request := range requests {
			request := request
			wg.Add(1)
			go func() {
				defer wg.Done()

				req := httptest.NewRequest(http.MethodPost, "/webhook/conditional", strings.NewReader(request.body))
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)

				assert.Equal(http.StatusOK, w.Code)

				resp := struct {
					Action string `json:"action"`
				}{}
				assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(request.expAction, resp.Action)
			}()
		}
	}
	wg.Wait()
}
