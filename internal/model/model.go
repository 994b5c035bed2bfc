package model

import (
	"time"

	"github.com/hashicorp/go-tfe"
)

// Action is the kind of run that will be created from a notification.
type Action string

const (
	ActionApply   Action = "apply"
	ActionDestroy Action = "destroy"
)

// Notification is a TFE notification with the target workspace identity
// already resolved.
type Notification struct {
	WorkspaceID      string
	WorkspaceName    string
	OrganizationName string

	Trigger      string
	TriggerScope string
	Message      string

	RunID      string
	RunStatus  string
	RunMessage string
}

// RunRequest is the data needed to create a new run on a workspace.
type RunRequest struct {
	WorkspaceID string
	IsDestroy   bool
	Message     string
	AutoApply   bool
}

// Run is a run created on TFE.
type Run struct {
	ID        string
	Message   string
	Status    string
	CreatedAt time.Time

	// OriginalObject is the object from the original APIs (e.g go-tfe).
	OriginalObject *tfe.Run
}

type Workspace struct {
	ID   string
	Name string
	Org  string

	// OriginalObject is the object from the original APIs (e.g go-tfe).
	OriginalObject *tfe.Workspace
}
