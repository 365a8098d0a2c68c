package request

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// WorkflowRequest covers object workflows and their tasks
type WorkflowRequest struct {
	vaultRequest

	object      string
	recordID    string
	participant string
	assignee    string
	status      string
	offset      int
	pageSize    int
	loc         bool
}

// NewWorkflowRequest creates a workflow builder
func NewWorkflowRequest(c *client.Client) *WorkflowRequest {
	return &WorkflowRequest{vaultRequest: newVaultRequest(c)}
}

// SetObject filters by object name, used together with SetRecordID
func (r *WorkflowRequest) SetObject(object string) *WorkflowRequest {
	r.object = object
	return r
}

// SetRecordID filters by record ID
func (r *WorkflowRequest) SetRecordID(id string) *WorkflowRequest {
	r.recordID = id
	return r
}

// SetParticipant filters workflows by participant user ID, or "me()"
func (r *WorkflowRequest) SetParticipant(participant string) *WorkflowRequest {
	r.participant = participant
	return r
}

// SetAssignee filters tasks by assignee user ID
func (r *WorkflowRequest) SetAssignee(assignee string) *WorkflowRequest {
	r.assignee = assignee
	return r
}

// SetStatus filters by status, e.g. active__v
func (r *WorkflowRequest) SetStatus(status string) *WorkflowRequest {
	r.status = status
	return r
}

// SetOffset sets the paging offset
func (r *WorkflowRequest) SetOffset(offset int) *WorkflowRequest {
	r.offset = offset
	return r
}

// SetPageSize sets the page size
func (r *WorkflowRequest) SetPageSize(size int) *WorkflowRequest {
	r.pageSize = size
	return r
}

// SetLoc requests localized labels
func (r *WorkflowRequest) SetLoc(loc bool) *WorkflowRequest {
	r.loc = loc
	return r
}

func (r *WorkflowRequest) filters(call *client.Call) {
	call.SetQuery("object__v", r.object)
	call.SetQuery("record_id__v", r.recordID)
	call.SetQuery("status__v", r.status)
	setInt(call.Query, "offset", r.offset)
	setInt(call.Query, "page_size", r.pageSize)
	if r.loc {
		call.Query.Set("loc", "true")
	}
}

func workflowPath(workflowID int, suffix string) string {
	return "/objects/objectworkflows/" + strconv.Itoa(workflowID) + suffix
}

// RetrieveWorkflows lists workflows matching the filters
func (r *WorkflowRequest) RetrieveWorkflows(ctx context.Context) (*models.WorkflowResponse, error) {
	call := client.NewCall(http.MethodGet, "/objects/objectworkflows")
	r.filters(call)
	call.SetQuery("participant", r.participant)

	resp := &models.WorkflowResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveWorkflowDetails reads a single workflow
func (r *WorkflowRequest) RetrieveWorkflowDetails(ctx context.Context, workflowID int) (*models.WorkflowResponse, error) {
	if err := validateID("workflow_id", workflowID); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodGet, workflowPath(workflowID, ""))
	if r.loc {
		call.Query.Set("loc", "true")
	}

	resp := &models.WorkflowResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveWorkflowActions lists the actions available on a workflow
func (r *WorkflowRequest) RetrieveWorkflowActions(ctx context.Context, workflowID int) (*models.WorkflowActionsResponse, error) {
	if err := validateID("workflow_id", workflowID); err != nil {
		return nil, err
	}

	resp := &models.WorkflowActionsResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, workflowPath(workflowID, "/actions")), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// InitiateWorkflowAction runs a workflow action such as cancel or replaceworkflowowner
func (r *WorkflowRequest) InitiateWorkflowAction(ctx context.Context, workflowID int, action string, fields map[string]string) (*models.VaultResponse, error) {
	if err := validateID("workflow_id", workflowID); err != nil {
		return nil, err
	}
	if err := validateRequired(map[string]string{"action": action}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, workflowPath(workflowID, "/actions/"+url.PathEscape(action)))
	setFields(call, fields)

	resp := &models.VaultResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveWorkflowTasks lists workflow tasks matching the filters
func (r *WorkflowRequest) RetrieveWorkflowTasks(ctx context.Context) (*models.WorkflowTasksResponse, error) {
	call := client.NewCall(http.MethodGet, "/objects/objectworkflows/tasks")
	r.filters(call)
	call.SetQuery("assignee__v", r.assignee)

	resp := &models.WorkflowTasksResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
