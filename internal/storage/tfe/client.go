package tfe

import (
	"context"

	"github.com/hashicorp/go-tfe"
)

// Client is a helper interface to be able to manage in a simpler way the TFE official client.
type Client interface {
	CreateRun(ctx context.Context, options tfe.RunCreateOptions) (*tfe.Run, error)
	ReadWorkspace(ctx context.Context, workspaceID string) (*tfe.Workspace, error)
}

//go:generate mockery --case underscore --output tfemock --outpkg tfemock --name Client

func NewClient(c *tfe.Client) Client {
	return tfeClient{c: c}
}

type tfeClient struct {
	c *tfe.Client
}

func (t tfeClient) CreateRun(ctx context.Context, options tfe.RunCreateOptions) (*tfe.Run, error) {
	return t.c.Runs.Create(ctx, options)
}

func (t tfeClient) ReadWorkspace(ctx context.Context, workspaceID string) (*tfe.Workspace, error) {
	return t.c.Workspaces.ReadByID(ctx, workspaceID)
}
