package notification

import (
	"strings"

	"github.com/slok/tfe-notifier/internal/internalerrors"
	"github.com/slok/tfe-notifier/internal/model"
)

// triggerVerification is the trigger TFE sets on the connectivity check it
// sends when a notification configuration is created or verified.
const triggerVerification = "verification"

// Payload is the notification document TFE posts on webhook endpoints.
//
// The same document comes in two shapes: run notifications carry the
// workspace identity at the top level, drift/assessment notifications nest
// it under `details`. Verification probes carry none of that and instead
// have a `notifications` array.
type Payload struct {
	WorkspaceID      string `json:"workspace_id"`
	WorkspaceName    string `json:"workspace_name"`
	OrganizationName string `json:"organization_name"`

	Trigger      string `json:"trigger"`
	TriggerScope string `json:"trigger_scope"`
	Message      string `json:"message"`

	RunID      string `json:"run_id"`
	RunStatus  string `json:"run_status"`
	RunMessage string `json:"run_message"`

	Details       *PayloadDetails       `json:"details"`
	Notifications []PayloadNotification `json:"notifications"`
}

// PayloadDetails is the nested workspace identity of drift/assessment
// notifications.
type PayloadDetails struct {
	WorkspaceID      string `json:"workspace_id"`
	WorkspaceName    string `json:"workspace_name"`
	OrganizationName string `json:"organization_name"`
}

// PayloadNotification is an element of the `notifications` array.
type PayloadNotification struct {
	Trigger string `json:"trigger"`
	Message string `json:"message"`
}

// IsVerification returns true when the payload is a verification probe: a
// non empty `notifications` array with at least one element triggered by
// "verification". A top level trigger field never qualifies, probes only
// come inside the array.
func IsVerification(p Payload) bool {
	for _, n := range p.Notifications {
		if n.Trigger == triggerVerification {
			return true
		}
	}

	return false
}

// Parse resolves the notification payload into a model notification.
//
// The workspace identity is resolved checking the top level first and
// falling through to `details` only when there is no top level workspace id.
// Org and workspace names always come from the same level as the id, partial
// fields are never merged across levels. Not being able to resolve a
// workspace id is an error, never a silent default.
func Parse(p Payload) (*model.Notification, error) {
	n := model.Notification{
		Trigger:      p.Trigger,
		TriggerScope: p.TriggerScope,
		Message:      p.Message,
		RunID:        p.RunID,
		RunStatus:    p.RunStatus,
		RunMessage:   p.RunMessage,
	}

	switch {
	case p.WorkspaceID != "":
		n.WorkspaceID = p.WorkspaceID
		n.WorkspaceName = p.WorkspaceName
		n.OrganizationName = p.OrganizationName
	case p.Details != nil && p.Details.WorkspaceID != "":
		n.WorkspaceID = p.Details.WorkspaceID
		n.WorkspaceName = p.Details.WorkspaceName
		n.OrganizationName = p.Details.OrganizationName
	default:
		return nil, internalerrors.ErrMissingWorkspace
	}

	return &n, nil
}

// DecideAction resolves the run action for the conditional webhook endpoint
// from the notification context.
//
// This is sample policy: a previous run message asking for a destroy or
// teardown triggers a destroy run, anything else (including errored previous
// runs) triggers an apply.
func DecideAction(n model.Notification) model.Action {
	runMessage := strings.ToLower(n.RunMessage)

	switch {
	case strings.Contains(runMessage, "destroy"), strings.Contains(runMessage, "teardown"):
		return model.ActionDestroy
	case n.RunStatus == "errored":
		return model.ActionApply
	default:
		return model.ActionApply
	}
}
