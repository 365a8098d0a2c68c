package request

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// JobRequest covers asynchronous job status, histories and monitors
type JobRequest struct {
	vaultRequest

	startDate string
	endDate   string
	status    string
	title     string
	limit     int
	offset    int
}

// NewJobRequest creates a job builder
func NewJobRequest(c *client.Client) *JobRequest {
	return &JobRequest{vaultRequest: newVaultRequest(c)}
}

// SetStartDate filters by start date, formatted YYYY-MM-DDTHH:MM:SSZ
func (r *JobRequest) SetStartDate(date string) *JobRequest {
	r.startDate = date
	return r
}

// SetEndDate filters by end date, formatted YYYY-MM-DDTHH:MM:SSZ
func (r *JobRequest) SetEndDate(date string) *JobRequest {
	r.endDate = date
	return r
}

// SetStatus filters by job status
func (r *JobRequest) SetStatus(status string) *JobRequest {
	r.status = status
	return r
}

// SetTitle filters by job title
func (r *JobRequest) SetTitle(title string) *JobRequest {
	r.title = title
	return r
}

// SetLimit sets the page size
func (r *JobRequest) SetLimit(limit int) *JobRequest {
	r.limit = limit
	return r
}

// SetOffset sets the paging offset
func (r *JobRequest) SetOffset(offset int) *JobRequest {
	r.offset = offset
	return r
}

func jobPath(jobID int, suffix string) string {
	return "/services/jobs/" + strconv.Itoa(jobID) + suffix
}

func (r *JobRequest) filters(call *client.Call) {
	call.SetQuery("start_date", r.startDate)
	call.SetQuery("end_date", r.endDate)
	call.SetQuery("status", r.status)
	call.SetQuery("title", r.title)
	setInt(call.Query, "limit", r.limit)
	setInt(call.Query, "offset", r.offset)
}

// RetrieveJobStatus reads the status of a job
func (r *JobRequest) RetrieveJobStatus(ctx context.Context, jobID int) (*models.JobStatusResponse, error) {
	if err := validateID("job_id", jobID); err != nil {
		return nil, err
	}

	resp := &models.JobStatusResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, jobPath(jobID, "")), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveJobTasks lists the tasks of a multi-task job
func (r *JobRequest) RetrieveJobTasks(ctx context.Context, jobID int) (*models.JobTaskResponse, error) {
	if err := validateID("job_id", jobID); err != nil {
		return nil, err
	}

	resp := &models.JobTaskResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, jobPath(jobID, "/tasks")), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveJobHistories lists completed jobs
func (r *JobRequest) RetrieveJobHistories(ctx context.Context) (*models.JobHistoryResponse, error) {
	call := client.NewCall(http.MethodGet, "/services/jobs/histories")
	r.filters(call)

	resp := &models.JobHistoryResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveJobMonitors lists scheduled, queued and running jobs
func (r *JobRequest) RetrieveJobMonitors(ctx context.Context) (*models.JobMonitorResponse, error) {
	call := client.NewCall(http.MethodGet, "/services/jobs/monitors")
	r.filters(call)

	resp := &models.JobMonitorResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// StartJob runs a scheduled job immediately
func (r *JobRequest) StartJob(ctx context.Context, jobID int) (*models.JobStartResponse, error) {
	if err := validateID("job_id", jobID); err != nil {
		return nil, err
	}

	resp := &models.JobStartResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodPost, "/services/jobs/start_now/"+strconv.Itoa(jobID)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}
