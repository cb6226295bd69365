package dialog

import (
	"context"
	"fmt"
	"strings"

	"kiosk-admin-console/internal/model"
)

// StepForm is one step of the workflow builder.
type StepForm struct {
	Name               string  `json:"name" validate:"required"`
	Type               string  `json:"type"`
	Sequence           int     `json:"sequence" validate:"min=1"`
	DeviceModelID      string  `json:"deviceModelId" validate:"required"`
	DeviceFunctionID   string  `json:"deviceFunctionId" validate:"required"`
	MaxRetries         int     `json:"maxRetries" validate:"gte=0"`
	CallbackWorkflowID *string `json:"callbackWorkflowId"`
	Parameters         string  `json:"parameters"`
}

// WorkflowForm is the workflow builder's form state.
type WorkflowForm struct {
	Name           string     `json:"name" validate:"required"`
	Description    string     `json:"description"`
	Type           string     `json:"type" validate:"required,oneof=Activity Callback"`
	ProductID      *string    `json:"productId"`
	KioskVersionID string     `json:"kioskVersionId"`
	Steps          []StepForm `json:"steps" validate:"min=1,dive"`
}

func (WorkflowForm) Messages() map[string]string {
	return map[string]string{
		"name":                   "Tên quy trình không được để trống.",
		"type":                   "Vui lòng chọn loại quy trình.",
		"steps":                  "Quy trình phải có ít nhất một bước.",
		"steps.deviceModelId":    "Vui lòng chọn mẫu thiết bị.",
		"steps.deviceFunctionId": "Vui lòng chọn chức năng thiết bị.",
		"steps.maxRetries":       "Số lần thử lại không được âm.",
	}
}

// StepName is the placeholder name of the step at sequence n.
func StepName(n int) string {
	return fmt.Sprintf("Bước %d", n)
}

// NewWorkflowForm starts with a single placeholder step.
func NewWorkflowForm() WorkflowForm {
	return WorkflowForm{
		Type:  model.WorkflowTypeActivity,
		Steps: []StepForm{{Name: StepName(1), Sequence: 1}},
	}
}

// AddStep appends a placeholder step and returns its index.
func (f *WorkflowForm) AddStep() int {
	n := len(f.Steps) + 1
	f.Steps = append(f.Steps, StepForm{Name: StepName(n), Sequence: n})
	return n - 1
}

// RemoveStep drops step i and renumbers the rest.
func (f *WorkflowForm) RemoveStep(i int) {
	if i < 0 || i >= len(f.Steps) {
		return
	}
	f.Steps = append(f.Steps[:i:i], f.Steps[i+1:]...)
	f.renumber()
}

// MoveUp swaps step i with the one before it.
func (f *WorkflowForm) MoveUp(i int) {
	if i <= 0 || i >= len(f.Steps) {
		return
	}
	f.Steps[i-1], f.Steps[i] = f.Steps[i], f.Steps[i-1]
	f.renumber()
}

// MoveDown swaps step i with the one after it.
func (f *WorkflowForm) MoveDown(i int) {
	if i < 0 || i >= len(f.Steps)-1 {
		return
	}
	f.Steps[i], f.Steps[i+1] = f.Steps[i+1], f.Steps[i]
	f.renumber()
}

// renumber sets sequences 1..n. Steps without a device function take the
// placeholder name of their new position.
func (f *WorkflowForm) renumber() {
	for i := range f.Steps {
		s := &f.Steps[i]
		s.Sequence = i + 1
		if s.DeviceFunctionID == "" {
			s.Name = StepName(s.Sequence)
		}
	}
}

func (f *WorkflowForm) step(i int) *StepForm {
	if i < 0 || i >= len(f.Steps) {
		return nil
	}
	return &f.Steps[i]
}

// SetDeviceModel selects the model of step i and clears everything that
// depended on the previous model.
func (f *WorkflowForm) SetDeviceModel(i int, deviceModelID string) {
	s := f.step(i)
	if s == nil {
		return
	}
	s.DeviceModelID = deviceModelID
	s.DeviceFunctionID = ""
	s.Name = StepName(s.Sequence)
	s.Type = ""
	s.Parameters = ""
}

// SetDeviceFunction selects the function of step i. The step takes the
// function's name as name and type; an unknown function resets both.
func (f *WorkflowForm) SetDeviceFunction(i int, functionID string, models []model.DeviceModel) {
	s := f.step(i)
	if s == nil {
		return
	}
	s.DeviceFunctionID = functionID
	s.Name = StepName(s.Sequence)
	s.Type = ""
	if functionID == "" || s.DeviceModelID == "" {
		return
	}
	for _, m := range models {
		if m.DeviceModelID != s.DeviceModelID {
			continue
		}
		if fn, ok := m.FindFunction(functionID); ok {
			if name := strings.TrimSpace(fn.Name); name != "" {
				s.Name = name
				s.Type = name
			}
		}
		return
	}
}

// SetMaxRetries clamps negative values to 0.
func (f *WorkflowForm) SetMaxRetries(i, n int) {
	if s := f.step(i); s != nil {
		if n < 0 {
			n = 0
		}
		s.MaxRetries = n
	}
}

// SetCallback sets the callback workflow of step i; "" removes it.
func (f *WorkflowForm) SetCallback(i int, workflowID string) {
	s := f.step(i)
	if s == nil {
		return
	}
	if workflowID == "" {
		s.CallbackWorkflowID = nil
		return
	}
	s.CallbackWorkflowID = &workflowID
}

func (f *WorkflowForm) SetParameters(i int, params string) {
	if s := f.step(i); s != nil {
		s.Parameters = params
	}
}

// WorkflowPayload is the create request sent to the backend.
type WorkflowPayload struct {
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Type           string        `json:"type"`
	ProductID      *string       `json:"productId"`
	KioskVersionID string        `json:"kioskVersionId,omitempty"`
	Steps          []StepPayload `json:"steps"`
}

type StepPayload struct {
	Name               string `json:"name"`
	Type               string `json:"type"`
	Sequence           int    `json:"sequence"`
	DeviceModelID      string `json:"deviceModelId,omitempty"`
	DeviceFunctionID   string `json:"deviceFunctionId,omitempty"`
	MaxRetries         int    `json:"maxRetries"`
	CallbackWorkflowID string `json:"callbackWorkflowId,omitempty"`
	Parameters         string `json:"parameters,omitempty"`
}

// Payload builds the create request with empty optionals left out.
func (f WorkflowForm) Payload() WorkflowPayload {
	p := WorkflowPayload{
		Name:           f.Name,
		Description:    f.Description,
		Type:           f.Type,
		KioskVersionID: f.KioskVersionID,
		Steps:          make([]StepPayload, 0, len(f.Steps)),
	}
	if f.ProductID != nil && *f.ProductID != "" {
		p.ProductID = f.ProductID
	}
	for _, s := range f.Steps {
		sp := StepPayload{
			Name:             s.Name,
			Type:             s.Type,
			Sequence:         s.Sequence,
			DeviceModelID:    s.DeviceModelID,
			DeviceFunctionID: s.DeviceFunctionID,
			MaxRetries:       s.MaxRetries,
			Parameters:       s.Parameters,
		}
		if sp.Sequence < 1 {
			sp.Sequence = 1
		}
		if s.CallbackWorkflowID != nil {
			sp.CallbackWorkflowID = *s.CallbackWorkflowID
		}
		p.Steps = append(p.Steps, sp)
	}
	return p
}

// CreateWorkflowWith posts the builder's payload.
func CreateWorkflowWith(w Writer, resource string) Submitter[WorkflowForm] {
	return func(ctx context.Context, form WorkflowForm) error {
		return w.Create(ctx, resource, form.Payload())
	}
}
