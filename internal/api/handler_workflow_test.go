package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/model"
)

func TestParseOp(t *testing.T) {
	testCases := []struct {
		raw       string
		wantOp    string
		wantIndex int
	}{
		{raw: "add", wantOp: opAdd, wantIndex: -1},
		{raw: "remove:2", wantOp: opRemove, wantIndex: 2},
		{raw: "up:x", wantOp: opRefresh, wantIndex: -1},
		{raw: "", wantOp: "", wantIndex: -1},
	}
	for _, tc := range testCases {
		op, index := parseOp(tc.raw)
		assert.Equal(t, tc.wantOp, op, tc.raw)
		assert.Equal(t, tc.wantIndex, index, tc.raw)
	}
}

func TestApplyBuilder(t *testing.T) {
	models := []model.DeviceModel{{
		DeviceModelID:   "dm-1",
		DeviceFunctions: []model.DeviceFunction{{DeviceFunctionID: "fn-1", Name: "PrintReceipt"}},
	}}

	t.Run("function of the current model is applied", func(t *testing.T) {
		form := dialog.NewWorkflowForm()
		form.Steps[0].DeviceModelID = "dm-1"
		applyBuilder(&form, url.Values{
			"name":                       {"  Thanh toán  "},
			"productId":                  {""},
			"steps.0.deviceModelId":      {"dm-1"},
			"steps.0.deviceFunctionId":   {"fn-1"},
			"steps.0.maxRetries":         {"-3"},
			"steps.0.callbackWorkflowId": {"wf-9"},
		}, models)

		assert.Equal(t, "Thanh toán", form.Name)
		assert.Nil(t, form.ProductID)
		step := form.Steps[0]
		assert.Equal(t, "fn-1", step.DeviceFunctionID)
		assert.Equal(t, "PrintReceipt", step.Name)
		assert.Equal(t, 0, step.MaxRetries)
		require.NotNil(t, step.CallbackWorkflowID)
		assert.Equal(t, "wf-9", *step.CallbackWorkflowID)
	})

	t.Run("stale function is dropped when the model changes", func(t *testing.T) {
		form := dialog.NewWorkflowForm()
		form.Steps[0].DeviceModelID = "dm-0"
		form.Steps[0].DeviceFunctionID = "old"
		applyBuilder(&form, url.Values{
			"steps.0.deviceModelId":    {"dm-1"},
			"steps.0.deviceFunctionId": {"old"},
		}, models)

		assert.Equal(t, "dm-1", form.Steps[0].DeviceModelID)
		assert.Empty(t, form.Steps[0].DeviceFunctionID)
		assert.Equal(t, dialog.StepName(1), form.Steps[0].Name)
	})

	t.Run("absent fields are left alone", func(t *testing.T) {
		form := dialog.NewWorkflowForm()
		form.Name = "Giữ nguyên"
		applyBuilder(&form, url.Values{}, models)
		assert.Equal(t, "Giữ nguyên", form.Name)
		assert.Equal(t, model.WorkflowTypeActivity, form.Type)
	})
}

func TestWorkflowBuilder(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/ui/workflows/builder", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Máy in K80")

	w = env.do(t, http.MethodGet, "/ui/organizations/builder", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/ui/workflows/builder", url.Values{"op": {"add"}, "name": {"Bán hàng"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2. Bước 2")
	assert.Contains(t, w.Body.String(), `value="Bán hàng"`)

	w = env.do(t, http.MethodPost, "/ui/workflows/builder", url.Values{"op": {"submit"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Tên quy trình không được để trống.")
	assert.Empty(t, env.backend.workflows)
}

func TestWorkflowBuilder_Submit(t *testing.T) {
	env := newTestEnv(t)

	form := dialog.NewWorkflowForm()
	form.Steps[0].DeviceModelID = "dm-1"
	payload, err := json.Marshal(form)
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/ui/workflows/builder", url.Values{
		"op":                       {"submit"},
		"payload":                  {string(payload)},
		"name":                     {"Bán hàng"},
		"type":                     {model.WorkflowTypeActivity},
		"steps.0.deviceModelId":    {"dm-1"},
		"steps.0.deviceFunctionId": {"fn-1"},
		"steps.0.maxRetries":       {"2"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/ui/workflows", w.Header().Get("Location"))

	require.Len(t, env.backend.workflows, 1)
	created := env.backend.workflows[0]
	assert.Equal(t, "Bán hàng", created["name"])
	steps, ok := created["steps"].([]any)
	require.True(t, ok)
	require.Len(t, steps, 1)
	step := steps[0].(map[string]any)
	assert.Equal(t, "PrintReceipt", step["name"])
	assert.Equal(t, "fn-1", step["deviceFunctionId"])
	assert.EqualValues(t, 2, step["maxRetries"])
}
