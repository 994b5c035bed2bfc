package fake

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/tfe-notifier/internal/model"
	"github.com/slok/tfe-notifier/internal/storage/tfe"
)

// NewRepository returns a repository that doesn't talk to any TFE API, handy
// for running the notifier locally without a token.
func NewRepository() tfe.Repository {
	return repository{}
}

type repository struct{}

func (r repository) CreateRun(ctx context.Context, rr model.RunRequest) (*model.Run, error) {
	now := time.Now().UTC()

	return &model.Run{
		ID:        fmt.Sprintf("run-fake-%d", now.UnixNano()),
		Message:   rr.Message,
		Status:    "pending",
		CreatedAt: now,
	}, nil
}

func (r repository) GetWorkspace(ctx context.Context, workspaceID string) (*model.Workspace, error) {
	return &model.Workspace{
		ID:   workspaceID,
		Name: fmt.Sprintf("workspace-%s", workspaceID),
		Org:  "fake",
	}, nil
}
