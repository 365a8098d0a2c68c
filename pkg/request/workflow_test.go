package request_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/go-vapil/internal/vaulttest"
	"github.com/ylchen07/go-vapil/pkg/request"
)

func TestWorkflowRequest(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodGet, "/api/{version}/objects/objectworkflows", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "product__v", r.URL.Query().Get("object__v"))
		assert.Equal(t, "0PR000000000101", r.URL.Query().Get("record_id__v"))
		assert.Equal(t, "me()", r.URL.Query().Get("participant"))
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{
			"responseDetails": map[string]any{"total": 1},
			"data":            []map[string]any{{"id": 801, "label__v": "Approval", "status__v": "active__v"}},
		}))
	})
	srv.HandleJSON(http.MethodGet, "/api/{version}/objects/objectworkflows/tasks", http.StatusOK, vaulttest.Success(map[string]any{
		"data": []map[string]any{{"id": 9, "workflow__v": 801, "status__v": "assigned__v"}},
	}))
	srv.HandleJSON(http.MethodGet, "/api/{version}/objects/objectworkflows/{id:[0-9]+}/actions", http.StatusOK, vaulttest.Success(map[string]any{
		"data": []map[string]any{{"name": "cancel", "label": "Cancel Workflow"}},
	}))
	srv.Handle(http.MethodPost, "/api/{version}/objects/objectworkflows/{id:[0-9]+}/actions/{action}", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "No longer needed", r.PostForm.Get("comment__v"))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(nil))
	})

	ctx := context.Background()
	c := srv.NewClient(t)

	workflows, err := request.NewWorkflowRequest(c).
		SetObject("product__v").
		SetRecordID("0PR000000000101").
		SetParticipant("me()").
		SetPageSize(50).
		RetrieveWorkflows(ctx)
	require.NoError(t, err)
	require.Len(t, workflows.Data, 1)
	assert.Equal(t, "Approval", workflows.Data[0].Label)

	tasks, err := request.NewWorkflowRequest(c).SetAssignee("61603").RetrieveWorkflowTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks.Data, 1)
	assert.Equal(t, 801, tasks.Data[0].WorkflowID)
	assert.Equal(t, "61603", srv.LastRequest(t).Query.Get("assignee__v"))

	actions, err := request.NewWorkflowRequest(c).RetrieveWorkflowActions(ctx, 801)
	require.NoError(t, err)
	require.Len(t, actions.Data, 1)
	assert.Equal(t, "cancel", actions.Data[0].Name)

	resp, err := request.NewWorkflowRequest(c).InitiateWorkflowAction(ctx, 801, "cancel", map[string]string{"comment__v": "No longer needed"})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, "/api/v25.1/objects/objectworkflows/801/actions/cancel", srv.LastRequest(t).Path)
}

func TestWorkflowRequest_Validation(t *testing.T) {
	srv := vaulttest.New(t)
	c := srv.NewClient(t)

	_, err := request.NewWorkflowRequest(c).RetrieveWorkflowDetails(context.Background(), 0)
	require.Error(t, err)

	_, err = request.NewWorkflowRequest(c).InitiateWorkflowAction(context.Background(), 801, "", nil)
	require.Error(t, err)

	assert.Empty(t, srv.Requests())
}
