package dialog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-admin-console/internal/model"
)

var builderModels = []model.DeviceModel{
	{
		DeviceModelID: "m1",
		DeviceFunctions: []model.DeviceFunction{
			{DeviceFunctionID: "f1", Name: "PrintReceipt"},
			{DeviceFunctionID: "f2", Name: ""},
		},
	},
}

func names(f WorkflowForm) []string {
	out := make([]string, len(f.Steps))
	for i, s := range f.Steps {
		out[i] = s.Name
	}
	return out
}

func sequences(f WorkflowForm) []int {
	out := make([]int, len(f.Steps))
	for i, s := range f.Steps {
		out[i] = s.Sequence
	}
	return out
}

func TestWorkflowForm_StartsWithOneStep(t *testing.T) {
	f := NewWorkflowForm()
	require.Len(t, f.Steps, 1)
	assert.Equal(t, "Bước 1", f.Steps[0].Name)
	assert.Equal(t, 1, f.Steps[0].Sequence)
}

func TestWorkflowForm_AddRemoveMoveRenumber(t *testing.T) {
	f := NewWorkflowForm()
	assert.Equal(t, 1, f.AddStep())
	f.AddStep()
	assert.Equal(t, []string{"Bước 1", "Bước 2", "Bước 3"}, names(f))

	f.SetDeviceModel(1, "m1")
	f.SetDeviceFunction(1, "f1", builderModels)
	assert.Equal(t, "PrintReceipt", f.Steps[1].Name)
	assert.Equal(t, "PrintReceipt", f.Steps[1].Type)

	f.MoveUp(1)
	assert.Equal(t, []string{"PrintReceipt", "Bước 2", "Bước 3"}, names(f))
	assert.Equal(t, []int{1, 2, 3}, sequences(f))

	f.MoveDown(0)
	assert.Equal(t, []string{"Bước 1", "PrintReceipt", "Bước 3"}, names(f))

	f.RemoveStep(0)
	assert.Equal(t, []string{"PrintReceipt", "Bước 2"}, names(f))
	assert.Equal(t, []int{1, 2}, sequences(f))

	f.MoveUp(0)
	f.MoveDown(1)
	f.RemoveStep(5)
	assert.Equal(t, []string{"PrintReceipt", "Bước 2"}, names(f))
}

func TestWorkflowForm_SetDeviceModelClearsDependents(t *testing.T) {
	f := NewWorkflowForm()
	f.SetDeviceModel(0, "m1")
	f.SetDeviceFunction(0, "f1", builderModels)
	f.SetParameters(0, `{"copies":1}`)

	f.SetDeviceModel(0, "m2")
	s := f.Steps[0]
	assert.Equal(t, "m2", s.DeviceModelID)
	assert.Empty(t, s.DeviceFunctionID)
	assert.Empty(t, s.Type)
	assert.Empty(t, s.Parameters)
	assert.Equal(t, "Bước 1", s.Name)
}

func TestWorkflowForm_SetDeviceFunctionFallbacks(t *testing.T) {
	f := NewWorkflowForm()
	f.SetDeviceModel(0, "m1")

	f.SetDeviceFunction(0, "f2", builderModels)
	assert.Equal(t, "Bước 1", f.Steps[0].Name)
	assert.Empty(t, f.Steps[0].Type)

	f.SetDeviceFunction(0, "PrintReceipt", builderModels)
	assert.Equal(t, "PrintReceipt", f.Steps[0].Type, "functions are also matched by name")

	f.SetDeviceFunction(0, "missing", builderModels)
	assert.Equal(t, "Bước 1", f.Steps[0].Name)
	assert.Equal(t, "missing", f.Steps[0].DeviceFunctionID)
}

func TestWorkflowForm_RetriesAndCallback(t *testing.T) {
	f := NewWorkflowForm()
	f.SetMaxRetries(0, -4)
	assert.Equal(t, 0, f.Steps[0].MaxRetries)
	f.SetMaxRetries(0, 3)
	assert.Equal(t, 3, f.Steps[0].MaxRetries)

	f.SetCallback(0, "wf-9")
	require.NotNil(t, f.Steps[0].CallbackWorkflowID)
	f.SetCallback(0, "")
	assert.Nil(t, f.Steps[0].CallbackWorkflowID)
}

func TestWorkflowForm_PayloadOmitsEmptyOptionals(t *testing.T) {
	f := NewWorkflowForm()
	f.Name = "Pha cà phê"
	empty := ""
	f.ProductID = &empty
	f.SetDeviceModel(0, "m1")
	f.SetDeviceFunction(0, "f1", builderModels)

	raw, err := json.Marshal(f.Payload())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["productId"])
	assert.NotContains(t, decoded, "description")
	assert.NotContains(t, decoded, "kioskVersionId")

	steps := decoded["steps"].([]any)
	require.Len(t, steps, 1)
	step := steps[0].(map[string]any)
	assert.NotContains(t, step, "callbackWorkflowId")
	assert.NotContains(t, step, "parameters")
	assert.Equal(t, "f1", step["deviceFunctionId"])
	assert.Equal(t, float64(1), step["sequence"])
}

func TestWorkflowForm_Validation(t *testing.T) {
	f := NewWorkflowForm()
	fe, err := NewValidator().Validate(f)
	require.NoError(t, err)
	assert.Equal(t, "Tên quy trình không được để trống.", fe["name"])
	assert.Equal(t, "Vui lòng chọn mẫu thiết bị.", fe["steps[0].deviceModelId"])
	assert.Equal(t, "Vui lòng chọn chức năng thiết bị.", fe["steps[0].deviceFunctionId"])

	f.Steps = nil
	fe, err = NewValidator().Validate(f)
	require.NoError(t, err)
	assert.Equal(t, "Quy trình phải có ít nhất một bước.", fe["steps"])
}
