package model

// Workflow is an ordered list of device function calls run by a kiosk.
type Workflow struct {
	WorkflowID     string         `json:"workflowId"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Type           string         `json:"type"`
	ProductID      *string        `json:"productId"`
	KioskVersionID string         `json:"kioskVersionId,omitempty"`
	Steps          []WorkflowStep `json:"steps,omitempty"`
	CreatedDate    Timestamp      `json:"createdDate"`
}

// WorkflowStep is one device function invocation inside a workflow.
type WorkflowStep struct {
	WorkflowStepID     string  `json:"workflowStepId,omitempty"`
	Name               string  `json:"name"`
	Type               string  `json:"type"`
	Sequence           int     `json:"sequence"`
	DeviceModelID      string  `json:"deviceModelId"`
	DeviceFunctionID   string  `json:"deviceFunctionId"`
	MaxRetries         int     `json:"maxRetries"`
	CallbackWorkflowID *string `json:"callbackWorkflowId"`
	Parameters         string  `json:"parameters"`
}

// Product is sold by kiosks and may be attached to a workflow.
type Product struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Status    string  `json:"status"`
}
