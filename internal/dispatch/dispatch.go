package dispatch

import (
	"context"
	"fmt"

	"github.com/slok/tfe-notifier/internal/internalerrors"
	"github.com/slok/tfe-notifier/internal/log"
	"github.com/slok/tfe-notifier/internal/model"
)

// RunCreator knows how to create runs on TFE workspaces.
type RunCreator interface {
	CreateRun(ctx context.Context, r model.RunRequest) (*model.Run, error)
}

//go:generate mockery --case underscore --output dispatchmock --outpkg dispatchmock --name RunCreator

// Dispatcher creates TFE runs from classified notifications.
type Dispatcher struct {
	creator RunCreator
	logger  log.Logger
}

func NewDispatcher(logger log.Logger, creator RunCreator) (*Dispatcher, error) {
	if creator == nil {
		return nil, fmt.Errorf("run creator is required")
	}

	if logger == nil {
		logger = log.Noop
	}
	logger = logger.WithValues(log.Kv{"svc": "dispatch.Dispatcher"})

	return &Dispatcher{
		creator: creator,
		logger:  logger,
	}, nil
}

// Dispatch creates a run of the given action on the workspace the
// notification refers to. The run is a destroy iff the action is destroy,
// the notification itself never decides that.
func (d Dispatcher) Dispatch(ctx context.Context, n model.Notification, action model.Action, autoApply bool) (*model.Run, error) {
	if n.WorkspaceID == "" {
		return nil, internalerrors.ErrMissingWorkspace
	}

	logger := d.logger.WithCtxValues(ctx).WithValues(log.Kv{
		"workspace-id":   n.WorkspaceID,
		"workspace-name": n.WorkspaceName,
		"org":            n.OrganizationName,
		"action":         action,
	})

	message := synthesizeMessage(n, action)
	logger.Debugf("Creating run with message %q (auto-apply: %t)", message, autoApply)

	run, err := d.creator.CreateRun(ctx, model.RunRequest{
		WorkspaceID: n.WorkspaceID,
		IsDestroy:   action == model.ActionDestroy,
		Message:     message,
		AutoApply:   autoApply,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create %s run: %w", action, err)
	}

	logger.WithValues(log.Kv{"run-id": run.ID}).Infof("Run created")

	return run, nil
}

// synthesizeMessage builds the human readable message of the new run from
// the notification context. First match wins.
func synthesizeMessage(n model.Notification, action model.Action) string {
	switch {
	case n.Trigger != "":
		return fmt.Sprintf("Triggered by %s: %s", n.Trigger, n.Message)
	case n.RunID != "":
		message := fmt.Sprintf("Triggered by notification from run %s (status: %s)", n.RunID, n.RunStatus)
		if n.RunMessage != "" {
			message += fmt.Sprintf(" - Previous run message: %s", n.RunMessage)
		}
		return message
	default:
		return fmt.Sprintf("Triggered by notification middleware - %s", action)
	}
}
