package models

// Job holds the status of an asynchronous Vault job
type Job struct {
	ID           int    `json:"id"`
	Status       string `json:"status"`
	Method       string `json:"method,omitempty"`
	Title        string `json:"title,omitempty"`
	CreatedBy    int    `json:"created_by,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
	RunStartDate string `json:"run_start_date,omitempty"`
	RunEndDate   string `json:"run_end_date,omitempty"`
	Links        []Link `json:"links,omitempty"`
}

// Job status values.
const (
	JobStatusScheduled = "SCHEDULED"
	JobStatusQueued    = "QUEUED"
	JobStatusRunning   = "RUNNING"
	JobStatusSuccess   = "SUCCESS"
	JobStatusErrors    = "ERRORS_ENCOUNTERED"
	JobStatusCancelled = "CANCELLED"
	JobStatusMissed    = "MISSED_SCHEDULE"
)

// IsFinished reports whether the job reached a terminal state
func (j Job) IsFinished() bool {
	switch j.Status {
	case JobStatusSuccess, JobStatusErrors, JobStatusCancelled, JobStatusMissed:
		return true
	default:
		return false
	}
}

// Href returns the link for rel, if present
func (j Job) Href(rel string) (string, bool) {
	for _, l := range j.Links {
		if l.Rel == rel {
			return l.Href, true
		}
	}
	return "", false
}

// JobStatusResponse is returned when reading a job
type JobStatusResponse struct {
	VaultResponse
	Data *Job `json:"data,omitempty"`
}

// JobTask is a task of a multi-task job
type JobTask struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// JobTaskResponse lists job tasks
type JobTaskResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails `json:"responseDetails,omitempty"`
	Data            *struct {
		ID    int       `json:"id"`
		Tasks []JobTask `json:"tasks"`
	} `json:"data,omitempty"`
}

// JobHistoryEntry is an entry of job histories and job monitors
type JobHistoryEntry struct {
	ID           int    `json:"id"`
	JobID        int    `json:"job_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Status       string `json:"status"`
	Queue        string `json:"queue,omitempty"`
	Type         string `json:"type,omitempty"`
	Owner        string `json:"owner,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
	RunStartDate string `json:"run_start_date,omitempty"`
	RunEndDate   string `json:"run_end_date,omitempty"`
}

// JobHistoryResponse lists completed jobs
type JobHistoryResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails  `json:"responseDetails,omitempty"`
	Jobs            []JobHistoryEntry `json:"jobs,omitempty"`
}

// JobMonitorResponse lists scheduled, queued and running jobs
type JobMonitorResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails  `json:"responseDetails,omitempty"`
	Jobs            []JobHistoryEntry `json:"jobs,omitempty"`
}

// JobStartResponse is returned when a scheduled job is started immediately
type JobStartResponse struct {
	VaultResponse
	Data *struct {
		JobID int    `json:"job_id"`
		URL   string `json:"url"`
	} `json:"data,omitempty"`
}
