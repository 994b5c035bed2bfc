package tfe

import (
	"context"
	"fmt"
	"time"

	gotfe "github.com/hashicorp/go-tfe"

	"github.com/slok/tfe-notifier/internal/log"
	"github.com/slok/tfe-notifier/internal/model"
)

// NewDryRunRepository wraps a repository so reads hit the real API but run
// creation is faked, returning a synthetic run without side effects.
func NewDryRunRepository(logger log.Logger, r Repository) Repository {
	return dryRunRepository{
		r:      r,
		logger: logger.WithValues(log.Kv{"storage": "DryRunRepository"}),
	}
}

type dryRunRepository struct {
	r      Repository
	logger log.Logger
}

func (d dryRunRepository) CreateRun(ctx context.Context, rr model.RunRequest) (*model.Run, error) {
	d.logger.WithValues(log.Kv{
		"workspace-id": rr.WorkspaceID,
		"is-destroy":   rr.IsDestroy,
		"auto-apply":   rr.AutoApply,
	}).Infof("Dry run mode, run creation ignored")

	now := time.Now().UTC()

	return &model.Run{
		ID:        fmt.Sprintf("run-dry-%d", now.UnixNano()),
		Message:   rr.Message,
		Status:    string(gotfe.RunPending),
		CreatedAt: now,
	}, nil
}

func (d dryRunRepository) GetWorkspace(ctx context.Context, workspaceID string) (*model.Workspace, error) {
	return d.r.GetWorkspace(ctx, workspaceID)
}
