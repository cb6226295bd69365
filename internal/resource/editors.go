package resource

import (
	"context"
	"fmt"
	"log"

	"kiosk-admin-console/internal/cache"
	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/model"
	"kiosk-admin-console/internal/upstream"
)

// Dialogs holds the editors and delete dialogs by resource name.
type Dialogs struct {
	Editors  map[string]Editor
	Deleters map[string]*Deleter
}

func (d Dialogs) Editor(name string) (Editor, bool) {
	e, ok := d.Editors[name]
	return e, ok
}

func (d Dialogs) Deleter(name string) (*Deleter, bool) {
	del, ok := d.Deleters[name]
	return del, ok
}

var statusField = Field{Name: "status", Label: "Trạng thái", Type: "select", Options: model.BaseStatuses}

// DefaultDialogs wires the dialogs of every editable or deletable screen.
func DefaultDialogs(reg *Registry, d Deps, v *dialog.Validator) Dialogs {
	out := Dialogs{Editors: map[string]Editor{}, Deleters: map[string]*Deleter{}}
	info := func(name string) Info {
		s, _ := reg.Lookup(name)
		return s.Info()
	}
	c := d.Client

	out.Editors[upstream.Organizations] = NewForm(info(upstream.Organizations), []Field{
		{Name: "name", Label: "Tên tổ chức", Type: "text"},
		{Name: "email", Label: "Email", Type: "email"},
		{Name: "phoneNumber", Label: "Số điện thoại", Type: "tel"},
		{Name: "address", Label: "Địa chỉ", Type: "text"},
		statusField,
	}, c, v, func(ctx context.Context, id string) (dialog.OrganizationForm, error) {
		o, err := upstream.GetByID[model.Organization](ctx, c, upstream.Organizations, id)
		if err != nil {
			return dialog.OrganizationForm{}, err
		}
		return dialog.OrganizationFormFrom(*o), nil
	}).WithBlank(func() dialog.OrganizationForm {
		return dialog.OrganizationForm{Status: model.BaseStatusActive}
	})

	out.Editors[upstream.KioskVersions] = NewForm(info(upstream.KioskVersions), []Field{
		{Name: "versionTitle", Label: "Tên phiên bản", Type: "text"},
		{Name: "description", Label: "Mô tả", Type: "textarea"},
		statusField,
	}, c, v, func(ctx context.Context, id string) (dialog.KioskVersionForm, error) {
		kv, err := upstream.GetByID[model.KioskVersion](ctx, c, upstream.KioskVersions, id)
		if err != nil {
			return dialog.KioskVersionForm{}, err
		}
		return dialog.KioskVersionFormFrom(*kv), nil
	}).WithBlank(func() dialog.KioskVersionForm {
		return dialog.KioskVersionForm{Status: model.BaseStatusActive}
	})

	out.Editors[upstream.DeviceTypes] = NewForm(info(upstream.DeviceTypes), []Field{
		{Name: "name", Label: "Tên loại thiết bị", Type: "text"},
		{Name: "description", Label: "Mô tả", Type: "textarea"},
		statusField,
	}, c, v, func(ctx context.Context, id string) (dialog.DeviceTypeForm, error) {
		t, err := upstream.GetByID[model.DeviceType](ctx, c, upstream.DeviceTypes, id)
		if err != nil {
			return dialog.DeviceTypeForm{}, err
		}
		return dialog.DeviceTypeFormFrom(*t), nil
	}).WithBlank(func() dialog.DeviceTypeForm {
		return dialog.DeviceTypeForm{Status: model.BaseStatusActive}
	})

	out.Editors[upstream.Devices] = NewForm(info(upstream.Devices), []Field{
		{Name: "name", Label: "Tên thiết bị", Type: "text"},
		{Name: "serialNumber", Label: "Số serial", Type: "text"},
		{Name: "deviceModelId", Label: "Mẫu thiết bị", Type: "select", Lookup: DeviceModelOptions(d.Client, d.Cache)},
		{Name: "description", Label: "Mô tả", Type: "textarea"},
		{Name: "status", Label: "Trạng thái", Type: "select", Options: model.DeviceStatuses},
	}, c, v, func(ctx context.Context, id string) (dialog.DeviceForm, error) {
		dv, err := upstream.GetByID[model.Device](ctx, c, upstream.Devices, id)
		if err != nil {
			return dialog.DeviceForm{}, err
		}
		return dialog.DeviceFormFrom(*dv), nil
	}).WithBlank(func() dialog.DeviceForm {
		return dialog.DeviceForm{Status: model.DeviceStatusStock}
	})

	out.Editors[upstream.DeviceModels] = NewForm(info(upstream.DeviceModels), nil, c, v,
		func(ctx context.Context, id string) (dialog.DeviceModelForm, error) {
			m, err := upstream.GetByID[model.DeviceModel](ctx, c, upstream.DeviceModels, id)
			if err != nil {
				return dialog.DeviceModelForm{}, err
			}
			return dialog.DeviceModelFormFrom(*m), nil
		}).WithBlank(func() dialog.DeviceModelForm {
		form := dialog.DeviceModelForm{Status: model.BaseStatusActive}
		form.AddFunction()
		return form
	})

	for _, s := range reg.All() {
		if s.Info().Deletable {
			out.Deleters[s.Info().Name] = NewDeleter(s.Info(), c, v)
		}
	}
	return out
}

// optionsMaxPages bounds the page walk of Options.
const (
	optionsPage     = 100
	optionsMaxPages = 50
)

// Options loads every record of endpoint for a select or a builder
// dropdown, one page after another, through the cache when c is set.
func Options[T any](ctx context.Context, c *cache.Cache, endpoint string, params model.PagingParams, src Source[T]) ([]T, error) {
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Size == 0 {
		params.Size = optionsPage
	}

	var items []T
	for n := 0; n < optionsMaxPages; n++ {
		p := params
		fetch := func(ctx context.Context) (*model.PagingResponse[T], error) {
			return src(ctx, p)
		}
		var (
			page *model.PagingResponse[T]
			err  error
		)
		if c != nil {
			page, err = cache.Get(ctx, c, endpoint, p, fetch)
		} else {
			page, err = fetch(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("load %s page %d: %w", endpoint, p.Page, err)
		}
		items = append(items, page.Items...)
		if len(page.Items) == 0 || p.Page >= page.TotalPages {
			return items, nil
		}
		params.Page++
	}
	log.Printf("resource: %s options truncated at %d pages", endpoint, optionsMaxPages)
	return items, nil
}

// DeviceModels loads the device models offered by selects and the
// workflow builder.
func DeviceModels(ctx context.Context, client *upstream.Client, c *cache.Cache) ([]model.DeviceModel, error) {
	return Options[model.DeviceModel](ctx, c, upstream.DeviceModels, model.PagingParams{}, client.DeviceModels)
}

// DeviceModelOptions lists device models as select options.
func DeviceModelOptions(client *upstream.Client, c *cache.Cache) func(ctx context.Context) (model.Enum, error) {
	return func(ctx context.Context) (model.Enum, error) {
		models, err := DeviceModels(ctx, client, c)
		if err != nil {
			return nil, err
		}
		opts := make(model.Enum, 0, len(models))
		for _, m := range models {
			opts = append(opts, model.EnumValue{Value: m.DeviceModelID, Label: m.ModelName})
		}
		return opts, nil
	}
}
