package tfe

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-tfe"

	"github.com/slok/tfe-notifier/internal/internalerrors"
	"github.com/slok/tfe-notifier/internal/model"
)

// Repository knows how to manage runs and workspaces on Terraform enterprise or cloud.
type Repository interface {
	CreateRun(ctx context.Context, r model.RunRequest) (*model.Run, error)
	GetWorkspace(ctx context.Context, workspaceID string) (*model.Workspace, error)
}

func NewRepository(c Client) (Repository, error) {
	return repository{c: c}, nil
}

type repository struct {
	c Client
}

func (r repository) CreateRun(ctx context.Context, rr model.RunRequest) (*model.Run, error) {
	run, err := r.c.CreateRun(ctx, tfe.RunCreateOptions{
		IsDestroy: tfe.Bool(rr.IsDestroy),
		Message:   tfe.String(rr.Message),
		AutoApply: tfe.Bool(rr.AutoApply),
		Workspace: &tfe.Workspace{ID: rr.WorkspaceID},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: could not create run in tfe: %v", internalerrors.ErrRemoteAPI, err)
	}

	return mapRunTFE2Model(run), nil
}

func (r repository) GetWorkspace(ctx context.Context, workspaceID string) (*model.Workspace, error) {
	wk, err := r.c.ReadWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("%w: could not get workspace from tfe: %v", internalerrors.ErrRemoteAPI, err)
	}

	return mapWorkspaceTFE2Model(wk), nil
}

func mapRunTFE2Model(r *tfe.Run) *model.Run {
	return &model.Run{
		ID:             r.ID,
		Message:        r.Message,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		OriginalObject: r,
	}
}

func mapWorkspaceTFE2Model(w *tfe.Workspace) *model.Workspace {
	wk := &model.Workspace{
		ID:             w.ID,
		Name:           w.Name,
		OriginalObject: w,
	}
	if w.Organization != nil {
		wk.Org = w.Organization.Name
	}

	return wk
}
