package resource

import (
	"context"
	"encoding/json"
	"fmt"

	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/model"
)

// Field is one input of a flat form.
type Field struct {
	Name  string
	Label string
	// Type is text, email, tel, textarea or select.
	Type    string
	Options model.Enum
	// Lookup loads select options at render time.
	Lookup func(ctx context.Context) (model.Enum, error)
}

// FieldView is a Field with its current value and error.
type FieldView struct {
	Field
	Value string
	Error string
}

// FormView is everything a dialog template needs.
type FormView struct {
	Title       string
	Action      string
	SubmitLabel string
	Fields      []FieldView
	// Nested forms are edited as a JSON document in Payload.
	Nested  bool
	Payload string
	Errors  dialog.FieldErrors
	Error   string
}

// Submission is one posted dialog.
type Submission struct {
	ID    string
	Actor string
	// Bind decodes the request into the form pointer it is given.
	Bind    func(form any) error
	Success []dialog.Hook
	Failure []dialog.Hook
}

// Editor serves the create and edit dialogs of one resource.
type Editor interface {
	View(ctx context.Context, id string) (FormView, error)
	Submit(ctx context.Context, sub Submission) (FormView, dialog.Outcome, error)
}

// Form is the Editor of form type F.
type Form[F any] struct {
	info      Info
	fields    []Field
	nested    bool
	blank     func() F
	load      func(ctx context.Context, id string) (F, error)
	writer    dialog.Writer
	validator *dialog.Validator
}

// NewForm builds an Editor. load prefills the edit dialog; blank, when
// set, prefills the create dialog.
func NewForm[F any](info Info, fields []Field, w dialog.Writer, v *dialog.Validator, load func(ctx context.Context, id string) (F, error)) *Form[F] {
	return &Form[F]{info: info, fields: fields, nested: len(fields) == 0, load: load, writer: w, validator: v}
}

// WithBlank sets the initial value of the create dialog.
func (f *Form[F]) WithBlank(blank func() F) *Form[F] {
	f.blank = blank
	return f
}

func (f *Form[F]) View(ctx context.Context, id string) (FormView, error) {
	var form F
	if id != "" {
		loaded, err := f.load(ctx, id)
		if err != nil {
			return FormView{}, fmt.Errorf("load %s %s: %w", f.info.Name, id, err)
		}
		form = loaded
	} else if f.blank != nil {
		form = f.blank()
	}
	return f.render(ctx, id, form, nil, ""), nil
}

func (f *Form[F]) Submit(ctx context.Context, sub Submission) (FormView, dialog.Outcome, error) {
	action, submit := model.ActionCreate, dialog.CreateWith[F](f.writer, f.info.Name)
	if sub.ID != "" {
		action, submit = model.ActionUpdate, dialog.UpdateWith[F](f.writer, f.info.Name, sub.ID)
	}

	d := dialog.New(dialog.Spec{
		Resource: f.info.Name,
		Noun:     f.info.Noun,
		Action:   action,
		EntityID: sub.ID,
		Actor:    sub.Actor,
	}, f.validator, submit).OnSuccess(sub.Success...).OnFailure(sub.Failure...)
	d.Open(nil)

	var form F
	if err := sub.Bind(&form); err != nil {
		return f.render(ctx, sub.ID, form, nil, "Dữ liệu không hợp lệ."), dialog.Invalid, nil
	}

	outcome, err := d.Submit(ctx, form)
	return f.render(ctx, sub.ID, d.Form(), d.FieldErrors(), d.Error()), outcome, err
}

func (f *Form[F]) render(ctx context.Context, id string, form F, errs dialog.FieldErrors, msg string) FormView {
	view := FormView{
		Title:       "Thêm " + f.info.Noun + " mới",
		Action:      f.info.NewURL(),
		SubmitLabel: "Thêm",
		Nested:      f.nested,
		Errors:      errs,
		Error:       msg,
	}
	if id != "" {
		view.Title = "Cập nhật " + f.info.Noun
		view.Action = f.info.EditURL(id)
		view.SubmitLabel = "Lưu thay đổi"
	}

	raw, err := json.Marshal(form)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	if f.nested {
		pretty, _ := json.MarshalIndent(form, "", "  ")
		view.Payload = string(pretty)
		return view
	}

	values := map[string]any{}
	_ = json.Unmarshal(raw, &values)
	for _, field := range f.fields {
		fv := FieldView{Field: field, Error: errs[field.Name]}
		if v, ok := values[field.Name]; ok && v != nil {
			fv.Value = fmt.Sprint(v)
		}
		if field.Lookup != nil {
			opts, err := field.Lookup(ctx)
			if err != nil {
				view.Error = "Không thể tải danh sách lựa chọn."
			}
			fv.Options = opts
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

// Deleter serves the confirm-delete dialog of one resource.
type Deleter struct {
	info      Info
	writer    dialog.Writer
	validator *dialog.Validator
}

func NewDeleter(info Info, w dialog.Writer, v *dialog.Validator) *Deleter {
	return &Deleter{info: info, writer: w, validator: v}
}

// Delete removes id. The returned message is the user-facing error on failure.
func (d *Deleter) Delete(ctx context.Context, sub Submission) (dialog.Outcome, string, error) {
	dlg := dialog.New(dialog.Spec{
		Resource: d.info.Name,
		Noun:     d.info.Noun,
		Action:   model.ActionDelete,
		EntityID: sub.ID,
		Actor:    sub.Actor,
	}, d.validator, dialog.DeleteWith(d.writer, d.info.Name)).OnSuccess(sub.Success...).OnFailure(sub.Failure...)
	dlg.Open(&dialog.DeleteForm{ID: sub.ID})

	outcome, err := dlg.Submit(ctx, dialog.DeleteForm{ID: sub.ID})
	if outcome == dialog.Invalid && err == nil {
		return outcome, "Thiếu mã " + d.info.Noun + ".", nil
	}
	return outcome, dlg.Error(), err
}
