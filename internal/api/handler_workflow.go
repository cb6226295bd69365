package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/model"
	"kiosk-admin-console/internal/resource"
	"kiosk-admin-console/internal/upstream"
)

// Builder operations posted in the "op" field. Step operations carry the
// step index after a colon, e.g. "remove:2".
const (
	opRefresh = "refresh"
	opAdd     = "add"
	opRemove  = "remove"
	opUp      = "up"
	opDown    = "down"
	opSubmit  = "submit"
)

// builder resolves the workflows screen; any other resource is 404.
func (h *Handler) builder(c *gin.Context) (resource.Info, bool) {
	if c.Param("resource") != upstream.Workflows {
		h.notFound(c)
		return resource.Info{}, false
	}
	screen, ok := h.screen(c)
	if !ok {
		return resource.Info{}, false
	}
	return screen.Info(), true
}

// WorkflowBuilder renders an empty builder.
func (h *Handler) WorkflowBuilder(c *gin.Context) {
	info, ok := h.builder(c)
	if !ok {
		return
	}
	h.renderBuilder(c, info, http.StatusOK, dialog.NewWorkflowForm(), nil, "")
}

// SubmitWorkflowBuilder applies one builder operation, or creates the
// workflow on "submit".
func (h *Handler) SubmitWorkflowBuilder(c *gin.Context) {
	info, ok := h.builder(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	form := dialog.NewWorkflowForm()
	var msg string
	if raw := c.PostForm("payload"); raw != "" {
		var posted dialog.WorkflowForm
		if err := json.Unmarshal([]byte(raw), &posted); err != nil {
			msg = "Dữ liệu không hợp lệ."
		} else {
			form = posted
		}
	}

	models, err := resource.DeviceModels(ctx, h.Client, h.Cache)
	if err != nil {
		logError("load device models", err)
	}
	if err := c.Request.ParseForm(); err == nil {
		applyBuilder(&form, c.Request.PostForm, models)
	}

	op, index := parseOp(c.PostForm("op"))
	switch op {
	case opAdd:
		form.AddStep()
	case opRemove:
		form.RemoveStep(index)
	case opUp:
		form.MoveUp(index)
	case opDown:
		form.MoveDown(index)
	case opSubmit:
		if msg != "" {
			break
		}
		success, failure := h.hooks(c, info)
		d := dialog.New(dialog.Spec{
			Resource: info.Name,
			Noun:     info.Noun,
			Action:   model.ActionCreate,
			Actor:    actor(c),
		}, h.Validator, dialog.CreateWorkflowWith(h.Client, info.Name)).OnSuccess(success...).OnFailure(failure...)
		d.Open(&form)

		outcome, err := d.Submit(ctx, form)
		if outcome == dialog.Succeeded {
			c.Redirect(http.StatusSeeOther, info.BasePath())
			return
		}
		if err != nil {
			logError("create workflow", err)
		}
		status := http.StatusOK
		if outcome == dialog.Invalid {
			status = http.StatusUnprocessableEntity
		}
		h.renderBuilder(c, info, status, d.Form(), d.FieldErrors(), d.Error())
		return
	}
	h.renderBuilder(c, info, http.StatusOK, form, nil, msg)
}

func parseOp(raw string) (string, int) {
	op, arg, found := strings.Cut(raw, ":")
	if !found {
		return op, -1
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return opRefresh, -1
	}
	return op, n
}

// applyBuilder copies the posted field values into form. A step whose
// device model changed ignores its posted function, which belonged to the
// previous model.
func applyBuilder(form *dialog.WorkflowForm, v url.Values, models []model.DeviceModel) {
	if _, ok := v["name"]; ok {
		form.Name = strings.TrimSpace(v.Get("name"))
	}
	if _, ok := v["description"]; ok {
		form.Description = v.Get("description")
	}
	if _, ok := v["type"]; ok {
		form.Type = v.Get("type")
	}
	if _, ok := v["kioskVersionId"]; ok {
		form.KioskVersionID = v.Get("kioskVersionId")
	}
	if _, ok := v["productId"]; ok {
		if p := v.Get("productId"); p != "" {
			form.ProductID = &p
		} else {
			form.ProductID = nil
		}
	}

	for i := range form.Steps {
		field := func(name string) (string, bool) {
			vals, ok := v[fmt.Sprintf("steps.%d.%s", i, name)]
			if !ok || len(vals) == 0 {
				return "", false
			}
			return vals[0], true
		}

		modelChanged := false
		if m, ok := field("deviceModelId"); ok && m != form.Steps[i].DeviceModelID {
			form.SetDeviceModel(i, m)
			modelChanged = true
		}
		if fn, ok := field("deviceFunctionId"); ok && !modelChanged && fn != form.Steps[i].DeviceFunctionID {
			form.SetDeviceFunction(i, fn, models)
		}
		if r, ok := field("maxRetries"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(r)); err == nil {
				form.SetMaxRetries(i, n)
			}
		}
		if cb, ok := field("callbackWorkflowId"); ok {
			form.SetCallback(i, cb)
		}
		if p, ok := field("parameters"); ok {
			form.SetParameters(i, p)
		}
	}
}

func (h *Handler) renderBuilder(c *gin.Context, info resource.Info, status int, form dialog.WorkflowForm, errs dialog.FieldErrors, msg string) {
	ctx := c.Request.Context()
	opts, err := h.builderOptions(ctx)
	if err != nil {
		logError("load builder options", err)
		if msg == "" {
			msg = "Không thể tải danh sách lựa chọn."
		}
	}

	payload, _ := json.Marshal(form)
	view := builderPage{
		page:      h.page(c, "Tạo quy trình mới", info.Name),
		Info:      info,
		Form:      form,
		Payload:   string(payload),
		Types:     model.WorkflowTypes,
		Models:    opts.models,
		Callbacks: opts.callbacks,
		Versions:  opts.versions,
		Products:  opts.products,
		Errors:    errs,
		Error:     msg,
	}
	if form.ProductID != nil {
		view.Product = *form.ProductID
	}
	for i, s := range form.Steps {
		sv := stepView{Index: i, Step: s, Errors: stepErrors(errs, i)}
		if s.CallbackWorkflowID != nil {
			sv.Callback = *s.CallbackWorkflowID
		}
		for _, m := range opts.models {
			if m.DeviceModelID != s.DeviceModelID {
				continue
			}
			sv.Functions = m.DeviceFunctions
			if fn, ok := m.FindFunction(s.DeviceFunctionID); ok && s.DeviceFunctionID != "" {
				sv.Parameters = fn.FunctionParameters
			}
		}
		view.Steps = append(view.Steps, sv)
	}
	c.HTML(status, "builder", view)
}

func stepErrors(errs dialog.FieldErrors, i int) map[string]string {
	prefix := fmt.Sprintf("steps[%d].", i)
	out := map[string]string{}
	for path, msg := range errs {
		if strings.HasPrefix(path, prefix) {
			out[strings.TrimPrefix(path, prefix)] = msg
		}
	}
	return out
}

type builderOptions struct {
	models    []model.DeviceModel
	callbacks []model.Workflow
	versions  []model.KioskVersion
	products  []model.Product
}

// builderOptions loads the dropdowns of the builder. Lists that fail stay
// empty; the first error is returned.
func (h *Handler) builderOptions(ctx context.Context) (builderOptions, error) {
	var (
		out      builderOptions
		firstErr error
	)
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var err error
	out.models, err = resource.DeviceModels(ctx, h.Client, h.Cache)
	keep(err)
	out.callbacks, err = resource.Options[model.Workflow](ctx, h.Cache, upstream.Workflows,
		model.PagingParams{FilterBy: "type", FilterQuery: model.WorkflowTypeCallback}, h.Client.Workflows)
	keep(err)
	out.versions, err = resource.Options[model.KioskVersion](ctx, h.Cache, upstream.KioskVersions, model.PagingParams{}, h.Client.KioskVersions)
	keep(err)
	out.products, err = resource.Options[model.Product](ctx, h.Cache, upstream.Products, model.PagingParams{}, h.Client.Products)
	keep(err)
	return out, firstErr
}
