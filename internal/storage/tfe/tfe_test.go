package tfe_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	gotfe "github.com/hashicorp/go-tfe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/slok/tfe-notifier/internal/internalerrors"
	"github.com/slok/tfe-notifier/internal/model"
	"github.com/slok/tfe-notifier/internal/storage/tfe"
	"github.com/slok/tfe-notifier/internal/storage/tfe/tfemock"
)

func TestRepositoryCreateRun(t *testing.T) {
	t0 := time.Now()

	tests := map[string]struct {
		mock       func(mc *tfemock.Client)
		runRequest model.RunRequest
		expRun     *model.Run
		expErr     error
	}{
		"Having an error while creating a run should fail with a remote API error.": {
			mock: func(mc *tfemock.Client) {
				mc.On("CreateRun", mock.Anything, mock.Anything).Once().Return(nil, fmt.Errorf("something"))
			},
			runRequest: model.RunRequest{WorkspaceID: "ws-123"},
			expErr:     internalerrors.ErrRemoteAPI,
		},

		"Creating a run should send the request options and map the model.": {
			mock: func(mc *tfemock.Client) {
				expOpts := gotfe.RunCreateOptions{
					IsDestroy: gotfe.Bool(true),
					Message:   gotfe.String("Triggered by notification middleware - destroy"),
					AutoApply: gotfe.Bool(true),
					Workspace: &gotfe.Workspace{ID: "ws-123"},
				}
				mc.On("CreateRun", mock.Anything, expOpts).Once().Return(&gotfe.Run{
					ID:        "run-1",
					Message:   "Triggered by notification middleware - destroy",
					Status:    gotfe.RunPending,
					CreatedAt: t0,
				}, nil)
			},
			runRequest: model.RunRequest{
				WorkspaceID: "ws-123",
				IsDestroy:   true,
				Message:     "Triggered by notification middleware - destroy",
				AutoApply:   true,
			},
			expRun: &model.Run{
				ID:        "run-1",
				Message:   "Triggered by notification middleware - destroy",
				Status:    "pending",
				CreatedAt: t0,
				OriginalObject: &gotfe.Run{
					ID:        "run-1",
					Message:   "Triggered by notification middleware - destroy",
					Status:    gotfe.RunPending,
					CreatedAt: t0,
				},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			// Mocks.
			mc := tfemock.NewClient(t)
			test.mock(mc)

			r, _ := tfe.NewRepository(mc)
			gotRun, err := r.CreateRun(context.TODO(), test.runRequest)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				assert.Equal(test.expRun, gotRun)
			}
		})
	}
}

func TestRepositoryGetWorkspace(t *testing.T) {
	tests := map[string]struct {
		mock         func(mc *tfemock.Client)
		expWorkspace *model.Workspace
		expErr       error
	}{
		"Having an error while getting a workspace should fail with a remote API error.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ReadWorkspace", mock.Anything, "ws-123").Once().Return(nil, fmt.Errorf("something"))
			},
			expErr: internalerrors.ErrRemoteAPI,
		},

		"Getting a workspace should map the model.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ReadWorkspace", mock.Anything, "ws-123").Once().Return(&gotfe.Workspace{
					ID:           "ws-123",
					Name:         "test",
					Organization: &gotfe.Organization{Name: "test-org"},
				}, nil)
			},
			expWorkspace: &model.Workspace{
				ID:   "ws-123",
				Name: "test",
				Org:  "test-org",
				OriginalObject: &gotfe.Workspace{
					ID:           "ws-123",
					Name:         "test",
					Organization: &gotfe.Organization{Name: "test-org"},
				},
			},
		},

		"A workspace without organization should map without org.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ReadWorkspace", mock.Anything, "ws-123").Once().Return(&gotfe.Workspace{
					ID:   "ws-123",
					Name: "test",
				}, nil)
			},
			expWorkspace: &model.Workspace{
				ID:             "ws-123",
				Name:           "test",
				OriginalObject: &gotfe.Workspace{ID: "ws-123", Name: "test"},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			// Mocks.
			mc := tfemock.NewClient(t)
			test.mock(mc)

			r, _ := tfe.NewRepository(mc)
			gotWk, err := r.GetWorkspace(context.TODO(), "ws-123")

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				assert.Equal(test.expWorkspace, gotWk)
			}
		})
	}
}
