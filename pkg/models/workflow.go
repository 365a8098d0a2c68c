package models

// Workflow is an object or document workflow instance
type Workflow struct {
	ID              int    `json:"id"`
	Label           string `json:"label__v,omitempty"`
	Status          string `json:"status__v,omitempty"`
	Object          string `json:"object__v,omitempty"`
	RecordID        string `json:"record_id__v,omitempty"`
	Initiator       int    `json:"initiator__v,omitempty"`
	StartedDate     string `json:"started_date__v,omitempty"`
	DueDate         string `json:"due_date__v,omitempty"`
	CompletedDate   string `json:"completed_date__v,omitempty"`
	CancelationDate string `json:"cancelation_date__v,omitempty"`
}

// WorkflowResponse is returned when listing workflows or reading one
type WorkflowResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails `json:"responseDetails,omitempty"`
	Data            []Workflow       `json:"data,omitempty"`
}

// WorkflowAction describes an action available on a workflow
type WorkflowAction struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// WorkflowActionsResponse lists actions available on a workflow
type WorkflowActionsResponse struct {
	VaultResponse
	Data []WorkflowAction `json:"data,omitempty"`
}

// WorkflowTask is an open or completed workflow task
type WorkflowTask struct {
	ID            int    `json:"id"`
	Label         string `json:"label__v,omitempty"`
	Status        string `json:"status__v,omitempty"`
	Object        string `json:"object__v,omitempty"`
	RecordID      string `json:"record_id__v,omitempty"`
	WorkflowID    int    `json:"workflow__v,omitempty"`
	AssigneeID    int    `json:"assignee__v,omitempty"`
	Instructions  string `json:"instructions__v,omitempty"`
	CreatedDate   string `json:"created_date__v,omitempty"`
	DueDate       string `json:"due_date__v,omitempty"`
	CompletedDate string `json:"completed_date__v,omitempty"`
}

// WorkflowTasksResponse lists workflow tasks
type WorkflowTasksResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails `json:"responseDetails,omitempty"`
	Data            []WorkflowTask   `json:"data,omitempty"`
}
