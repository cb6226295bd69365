package dialog

import (
	"context"

	"kiosk-admin-console/internal/model"
)

// Writer is the backend write surface used by dialogs.
type Writer interface {
	Create(ctx context.Context, resource string, payload any) error
	Update(ctx context.Context, resource, id string, payload any) error
	Remove(ctx context.Context, resource, id string) error
}

// CreateWith posts the form to resource.
func CreateWith[F any](w Writer, resource string) Submitter[F] {
	return func(ctx context.Context, form F) error {
		return w.Create(ctx, resource, form)
	}
}

// UpdateWith puts the form to resource/id.
func UpdateWith[F any](w Writer, resource, id string) Submitter[F] {
	return func(ctx context.Context, form F) error {
		return w.Update(ctx, resource, id, form)
	}
}

// DeleteForm is the confirm-delete dialog. ID must echo the record id.
type DeleteForm struct {
	ID string `json:"id" form:"id" validate:"required"`
}

// DeleteWith removes resource/id once the form is confirmed.
func DeleteWith(w Writer, resource string) Submitter[DeleteForm] {
	return func(ctx context.Context, form DeleteForm) error {
		return w.Remove(ctx, resource, form.ID)
	}
}

type OrganizationForm struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" validate:"required,numeric,min=9,max=11"`
	Address     string `json:"address" form:"address" validate:"required"`
	Status      string `json:"status" form:"status" validate:"required,oneof=Active Inactive"`
}

func (OrganizationForm) Messages() map[string]string {
	return map[string]string{
		"name":                "Tên tổ chức không được để trống.",
		"email":               "Email không được để trống.",
		"email:email":         "Email không hợp lệ.",
		"phoneNumber":         "Số điện thoại không được để trống.",
		"phoneNumber:numeric": "Số điện thoại chỉ gồm chữ số.",
		"phoneNumber:min":     "Số điện thoại phải có từ 9 đến 11 chữ số.",
		"phoneNumber:max":     "Số điện thoại phải có từ 9 đến 11 chữ số.",
		"address":             "Địa chỉ không được để trống.",
		"status":              "Vui lòng chọn trạng thái cho tổ chức.",
	}
}

func OrganizationFormFrom(o model.Organization) OrganizationForm {
	return OrganizationForm{Name: o.Name, Email: o.Email, PhoneNumber: o.PhoneNumber, Address: o.Address, Status: o.Status}
}

type KioskVersionForm struct {
	VersionTitle string `json:"versionTitle" form:"versionTitle" validate:"required"`
	Description  string `json:"description,omitempty" form:"description"`
	Status       string `json:"status" form:"status" validate:"required,oneof=Active Inactive"`
}

func (KioskVersionForm) Messages() map[string]string {
	return map[string]string{
		"versionTitle": "Tên phiên bản không được để trống.",
		"status":       "Vui lòng chọn trạng thái cho phiên bản kiosk.",
	}
}

func KioskVersionFormFrom(v model.KioskVersion) KioskVersionForm {
	return KioskVersionForm{VersionTitle: v.VersionTitle, Description: v.Description, Status: v.Status}
}

type DeviceTypeForm struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Status      string `json:"status" form:"status" validate:"required,oneof=Active Inactive"`
	Description string `json:"description,omitempty" form:"description"`
}

func (DeviceTypeForm) Messages() map[string]string {
	return map[string]string{
		"name":   "Tên loại thiết bị không được để trống.",
		"status": "Vui lòng chọn trạng thái cho loại thiết bị.",
	}
}

func DeviceTypeFormFrom(t model.DeviceType) DeviceTypeForm {
	return DeviceTypeForm{Name: t.Name, Status: t.Status, Description: t.Description}
}

type DeviceForm struct {
	Name          string `json:"name" form:"name" validate:"required"`
	Status        string `json:"status" form:"status" validate:"required,oneof=Working Maintain Stock"`
	SerialNumber  string `json:"serialNumber" form:"serialNumber" validate:"required"`
	DeviceModelID string `json:"deviceModelId" form:"deviceModelId" validate:"required"`
	Description   string `json:"description,omitempty" form:"description"`
}

func (DeviceForm) Messages() map[string]string {
	return map[string]string{
		"name":          "Tên thiết bị không được để trống.",
		"status":        "Vui lòng chọn trạng thái cho thiết bị.",
		"serialNumber":  "Số serial không được để trống.",
		"deviceModelId": "Vui lòng chọn mẫu thiết bị.",
	}
}

func DeviceFormFrom(d model.Device) DeviceForm {
	return DeviceForm{Name: d.Name, Status: d.Status, SerialNumber: d.SerialNumber, DeviceModelID: d.DeviceModelID, Description: d.Description}
}

// DeviceModelForm is nested: functions carry their own parameters.
type DeviceModelForm struct {
	ModelName       string               `json:"modelName" validate:"required"`
	Manufacturer    string               `json:"manufacturer" validate:"required"`
	DeviceTypeID    string               `json:"deviceTypeId" validate:"required"`
	Status          string               `json:"status" validate:"required,oneof=Active Inactive"`
	DeviceFunctions []DeviceFunctionForm `json:"deviceFunctions,omitempty" validate:"dive"`
}

type DeviceFunctionForm struct {
	Name               string          `json:"name" validate:"required"`
	Status             string          `json:"status" validate:"required,oneof=Active Inactive"`
	FunctionParameters []ParameterForm `json:"functionParameters" validate:"dive"`
}

type ParameterForm struct {
	Name        string   `json:"name" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=Text Number Select Boolean"`
	Min         *string  `json:"min"`
	Max         *string  `json:"max"`
	Options     []string `json:"options"`
	Default     string   `json:"default" validate:"required"`
	Description *string  `json:"description"`
}

func (DeviceModelForm) Messages() map[string]string {
	return map[string]string{
		"modelName":            "Tên mẫu thiết bị là bắt buộc",
		"manufacturer":         "Nhà sản xuất là bắt buộc",
		"deviceTypeId":         "Loại thiết bị là bắt buộc",
		"deviceFunctions.name": "Tên chức năng là bắt buộc",
		"deviceFunctions.functionParameters.name":    "Tên tham số là bắt buộc",
		"deviceFunctions.functionParameters.default": "Giá trị mặc định là bắt buộc",
	}
}

// AddFunction appends an empty active function.
func (f *DeviceModelForm) AddFunction() {
	f.DeviceFunctions = append(f.DeviceFunctions, DeviceFunctionForm{Status: model.BaseStatusActive, FunctionParameters: []ParameterForm{}})
}

// RemoveFunction drops function i; out of range indexes are ignored.
func (f *DeviceModelForm) RemoveFunction(i int) {
	if i < 0 || i >= len(f.DeviceFunctions) {
		return
	}
	f.DeviceFunctions = append(f.DeviceFunctions[:i:i], f.DeviceFunctions[i+1:]...)
}

// AddParameter appends an empty Text parameter to function i.
func (f *DeviceModelForm) AddParameter(i int) {
	if i < 0 || i >= len(f.DeviceFunctions) {
		return
	}
	fn := &f.DeviceFunctions[i]
	fn.FunctionParameters = append(fn.FunctionParameters, ParameterForm{Type: model.ParameterTypeText})
}

// RemoveParameter drops parameter j of function i.
func (f *DeviceModelForm) RemoveParameter(i, j int) {
	if i < 0 || i >= len(f.DeviceFunctions) {
		return
	}
	params := f.DeviceFunctions[i].FunctionParameters
	if j < 0 || j >= len(params) {
		return
	}
	f.DeviceFunctions[i].FunctionParameters = append(params[:j:j], params[j+1:]...)
}

func DeviceModelFormFrom(m model.DeviceModel) DeviceModelForm {
	form := DeviceModelForm{
		ModelName:    m.ModelName,
		Manufacturer: m.Manufacturer,
		DeviceTypeID: m.DeviceTypeID,
		Status:       m.Status,
	}
	if form.Status == "" {
		form.Status = model.BaseStatusActive
	}
	for _, fn := range m.DeviceFunctions {
		ff := DeviceFunctionForm{Name: fn.Name, Status: fn.Status, FunctionParameters: []ParameterForm{}}
		for _, p := range fn.FunctionParameters {
			ff.FunctionParameters = append(ff.FunctionParameters, ParameterForm{
				Name:        p.Name,
				Type:        p.Type,
				Min:         p.Min,
				Max:         p.Max,
				Options:     p.Options,
				Default:     p.Default,
				Description: p.Description,
			})
		}
		form.DeviceFunctions = append(form.DeviceFunctions, ff)
	}
	return form
}
