package resource

import (
	"context"
	"strconv"

	"kiosk-admin-console/config"
	"kiosk-admin-console/internal/cache"
	"kiosk-admin-console/internal/model"
	"kiosk-admin-console/internal/query"
	"kiosk-admin-console/internal/table"
	"kiosk-admin-console/internal/upstream"
)

// Audit is the name of the audit log screen, served from the local store.
const Audit = "audit"

// AuditLister pages through the local audit log.
type AuditLister interface {
	ListAudit(ctx context.Context, params model.PagingParams) (*model.PagingResponse[model.AuditEntry], error)
}

// Deps are the collaborators of the default screens.
type Deps struct {
	Client *upstream.Client
	Cache  *cache.Cache
	Audit  AuditLister
	Query  config.QueryConfig
}

func (d Deps) defaults() query.Defaults {
	return query.Defaults{PageSize: d.Query.DefaultPageSize, PageSizeOptions: d.Query.PageSizeOptions}
}

func byID[T any](c *upstream.Client, resource string) func(context.Context, string) (*T, error) {
	return func(ctx context.Context, id string) (*T, error) {
		return upstream.GetByID[T](ctx, c, resource, id)
	}
}

var newestFirst = query.Sort{Column: "createdDate", Desc: true}

// Default registers every screen of the console.
func Default(d Deps) *Registry {
	screens := []Screen{
		KioskVersionScreen(d),
		SyncTaskScreen(d),
		OrderScreen(d),
		OrganizationScreen(d),
		DeviceTypeScreen(d),
		DeviceModelScreen(d),
		DeviceScreen(d),
		WorkflowScreen(d),
	}
	if d.Audit != nil {
		screens = append(screens, AuditScreen(d))
	}
	return NewRegistry(screens...)
}

func KioskVersionScreen(d Deps) *List[model.KioskVersion] {
	info := Info{
		Name:              upstream.KioskVersions,
		Title:             "Phiên bản kiosk",
		Noun:              "phiên bản kiosk",
		SearchField:       "versionTitle",
		SearchPlaceholder: "Tìm kiếm theo tên phiên bản...",
		Statuses:          model.BaseStatuses,
		DefaultSort:       newestFirst,
		Revalidates:       []string{upstream.SyncTasks},
		Creatable:         true,
		Editable:          true,
		Deletable:         true,
	}
	cols := []table.Column[model.KioskVersion]{
		{ID: "kioskVersionId", Header: "Mã phiên bản", Kind: table.ShortID, Hideable: true,
			Value: func(v model.KioskVersion) any { return v.KioskVersionID }},
		{ID: "versionTitle", Header: "Tên phiên bản", Kind: table.Text, Sortable: true,
			Value: func(v model.KioskVersion) any { return v.VersionTitle }},
		{ID: "description", Header: "Mô tả", Kind: table.Text, Hideable: true,
			Value: func(v model.KioskVersion) any { return v.Description }},
		{ID: "status", Header: "Trạng thái", Kind: table.Badge, Enum: model.BaseStatuses, Sortable: true, Hideable: true,
			Value: func(v model.KioskVersion) any { return v.Status }},
		{ID: "createdDate", Header: "Ngày tạo", Kind: table.DateTime, Sortable: true, Hideable: true,
			Value: func(v model.KioskVersion) any { return v.CreatedDate }},
		{ID: "updatedDate", Header: "Ngày cập nhật", Kind: table.DateTime, Sortable: true, Hideable: true,
			Value: func(v model.KioskVersion) any { return v.UpdatedDate }},
	}
	return NewList(info, d.defaults(), cols,
		func(v model.KioskVersion) string { return v.KioskVersionID },
		d.Client.KioskVersions, d.Cache).
		WithDetail(byID[model.KioskVersion](d.Client, upstream.KioskVersions))
}

func SyncTaskScreen(d Deps) *List[model.SyncTask] {
	info := Info{
		Name:              upstream.SyncTasks,
		Title:             "Đồng bộ kiosk",
		Noun:              "tác vụ đồng bộ",
		SearchField:       "kioskId",
		SearchPlaceholder: "Tìm kiếm theo mã kiosk...",
		Filters:           []Filter{{Column: "isSynced", Label: "Đồng bộ", Options: model.SyncStates}},
		DefaultSort:       newestFirst,
	}
	cols := []table.Column[model.SyncTask]{
		{ID: "syncTaskId", Header: "Mã tác vụ", Kind: table.ShortID, Hideable: true,
			Value: func(s model.SyncTask) any { return s.SyncTaskID }},
		{ID: "kioskId", Header: "Mã kiosk", Kind: table.ShortID, Sortable: true,
			Value: func(s model.SyncTask) any { return s.KioskID }},
		{ID: "kioskVersionId", Header: "Phiên bản", Kind: table.ShortID, Hideable: true,
			Value: func(s model.SyncTask) any { return s.KioskVersionID }},
		{ID: "isSynced", Header: "Đồng bộ", Kind: table.Bool, Labels: [2]string{"Đã đồng bộ", "Chưa đồng bộ"}, Sortable: true, Hideable: true,
			Value: func(s model.SyncTask) any { return s.IsSynced }},
		{ID: "syncedAt", Header: "Thời gian đồng bộ", Kind: table.DateTime, Sortable: true, Hideable: true,
			Value: func(s model.SyncTask) any { return s.SyncedAt }},
		{ID: "createdDate", Header: "Ngày tạo", Kind: table.DateTime, Sortable: true, Hideable: true,
			Value: func(s model.SyncTask) any { return s.CreatedDate }},
	}
	return NewList(info, d.defaults(), cols,
		func(s model.SyncTask) string { return s.SyncTaskID },
		d.Client.SyncTasks, d.Cache).
		WithDetail(byID[model.SyncTask](d.Client, upstream.SyncTasks))
}

func OrderScreen(d Deps) *List[model.Order] {
	info := Info{
		Name:              upstream.Orders,
		Title:             "Đơn hàng",
		Noun:              "đơn hàng",
		SearchField:       "orderId",
		SearchPlaceholder: "Tìm kiếm theo mã đơn hàng...",
		Statuses:          model.OrderStatuses,
		DefaultSort:       newestFirst,
		Pinned:            []string{"createdDate"},
	}
	cols := []table.Column[model.Order]{
		{ID: "orderId", Header: "Mã đơn hàng", Kind: table.ShortID, Prefix: "#",
			Value: func(o model.Order) any { return o.OrderID }},
		{ID: "orderType", Header: "Loại đơn", Kind: table.Badge, Enum: model.OrderTypes, Hideable: true,
			Value: func(o model.Order) any { return o.OrderType }},
		{ID: "paymentGateway", Header: "Thanh toán", Kind: table.Badge, Enum: model.PaymentGateways, Hideable: true,
			Value: func(o model.Order) any { return o.PaymentGateway }},
		{ID: "status", Header: "Trạng thái", Kind: table.Badge, Enum: model.OrderStatuses, Sortable: true, Hideable: true,
			Value: func(o model.Order) any { return o.Status }},
		{ID: "totalAmount", Header: "Tổng tiền", Kind: table.Money, Sortable: true, Hideable: true,
			Value: func(o model.Order) any { return o.TotalAmount }},
		{ID: "finalAmount", Header: "Thành tiền", Kind: table.Money, Sortable: true, Hideable: true,
			Value: func(o model.Order) any { return o.FinalAmount }},
		{ID: "createdDate", Header: "Ngày tạo", Kind: table.DateTime, Sortable: true,
			Value: func(o model.Order) any { return o.CreatedDate }},
	}
	return NewList(info, d.defaults(), cols,
		func(o model.Order) string { return o.OrderID },
		d.Client.Orders, d.Cache).
		WithDetail(byID[model.Order](d.Client, upstream.Orders))
}

func OrganizationScreen(d Deps) *List[model.Organization] {
	info := Info{
		Name:              upstream.Organizations,
		Title:             "Tổ chức",
		Noun:              "tổ chức",
		SearchField:       "name",
		SearchPlaceholder: "Tìm kiếm theo tên tổ chức...",
		Statuses:          model.BaseStatuses,
		DefaultSort:       newestFirst,
		Creatable:         true,
		Editable:          true,
		Deletable:         true,
	}
	cols := []table.Column[model.Organization]{
		{ID: "organizationId", Header: "Mã tổ chức", Kind: table.ShortID, Hideable: true,
			Value: func(o model.Organization) any { return o.OrganizationID }},
		{ID: "name", Header: "Tên tổ chức", Kind: table.Text, Sortable: true,
			Value: func(o model.Organization) any { return o.Name }},
		{ID: "email", Header: "Email", Kind: table.Text, Sortable: true, Hideable: true,
			Value: func(o model.Organization) any { return o.Email }},
		{ID: "phoneNumber", Header: "Số điện thoại", Kind: table.Text, Hideable: true,
			Value: func(o model.Organization) any { return o.PhoneNumber }},
		{ID: "address", Header: "Địa chỉ", Kind: table.Text, Hideable: true,
			Value: func(o model.Organization) any { return o.Address }},
		{ID: "status", Header: "Trạng thái", Kind: table.Badge, Enum: model.BaseStatuses, Sortable: true, Hideable: true,
			Value: func(o model.Organization) any { return o.Status }},
		{ID: "createdDate", Header: "Ngày tạo", Kind: table.DateTime, Sortable: true, Hideable: true,
			Value: func(o model.Organization) any { return o.CreatedDate }},
	}
	return NewList(info, d.defaults(), cols,
		func(o model.Organization) string { return o.OrganizationID },
		d.Client.Organizations, d.Cache).
		WithDetail(byID[model.Organization](d.Client, upstream.Organizations))
}

func DeviceTypeScreen(d Deps) *List[model.DeviceType] {
	info := Info{
		Name:              upstream.DeviceTypes,
		Title:             "Loại thiết bị",
		Noun:              "loại thiết bị",
		SearchField:       "name",
		SearchPlaceholder: "Tìm kiếm theo tên loại thiết bị...",
		Statuses:          model.BaseStatuses,
		Revalidates:       []string{upstream.DeviceModels},
		Creatable:         true,
		Editable:          true,
		Deletable:         true,
	}
	cols := []table.Column[model.DeviceType]{
		{ID: "deviceTypeId", Header: "Mã loại", Kind: table.ShortID, Hideable: true,
			Value: func(t model.DeviceType) any { return t.DeviceTypeID }},
		{ID: "name", Header: "Tên loại thiết bị", Kind: table.Text, Sortable: true,
			Value: func(t model.DeviceType) any { return t.Name }},
		{ID: "description", Header: "Mô tả", Kind: table.Text, Hideable: true,
			Value: func(t model.DeviceType) any { return t.Description }},
		{ID: "status", Header: "Trạng thái", Kind: table.Badge, Enum: model.BaseStatuses, Sortable: true, Hideable: true,
			Value: func(t model.DeviceType) any { return t.Status }},
	}
	return NewList(info, d.defaults(), cols,
		func(t model.DeviceType) string { return t.DeviceTypeID },
		d.Client.DeviceTypes, d.Cache).
		WithDetail(byID[model.DeviceType](d.Client, upstream.DeviceTypes))
}

func DeviceModelScreen(d Deps) *List[model.DeviceModel] {
	info := Info{
		Name:              upstream.DeviceModels,
		Title:             "Mẫu thiết bị",
		Noun:              "mẫu thiết bị",
		SearchField:       "modelName",
		SearchPlaceholder: "Tìm kiếm theo tên mẫu...",
		Statuses:          model.BaseStatuses,
		Revalidates:       []string{upstream.Devices},
		Creatable:         true,
		Editable:          true,
		Deletable:         true,
	}
	cols := []table.Column[model.DeviceModel]{
		{ID: "deviceModelId", Header: "Mã mẫu", Kind: table.ShortID, Hideable: true,
			Value: func(m model.DeviceModel) any { return m.DeviceModelID }},
		{ID: "modelName", Header: "Tên mẫu", Kind: table.Text, Sortable: true,
			Value: func(m model.DeviceModel) any { return m.ModelName }},
		{ID: "manufacturer", Header: "Nhà sản xuất", Kind: table.Text, Sortable: true, Hideable: true,
			Value: func(m model.DeviceModel) any { return m.Manufacturer }},
		{ID: "deviceType", Header: "Loại thiết bị", Kind: table.Text, Hideable: true,
			Value: func(m model.DeviceModel) any {
				if m.DeviceType == nil {
					return ""
				}
				return m.DeviceType.Name
			}},
		{ID: "deviceFunctions", Header: "Chức năng", Kind: table.Text, Hideable: true,
			Value: func(m model.DeviceModel) any { return strconv.Itoa(len(m.DeviceFunctions)) }},
		{ID: "status", Header: "Trạng thái", Kind: table.Badge, Enum: model.BaseStatuses, Sortable: true, Hideable: true,
			Value: func(m model.DeviceModel) any { return m.Status }},
	}
	return NewList(info, d.defaults(), cols,
		func(m model.DeviceModel) string { return m.DeviceModelID },
		d.Client.DeviceModels, d.Cache).
		WithDetail(byID[model.DeviceModel](d.Client, upstream.DeviceModels))
}

func DeviceScreen(d Deps) *List[model.Device] {
	info := Info{
		Name:              upstream.Devices,
		Title:             "Thiết bị",
		Noun:              "thiết bị",
		SearchField:       "name",
		SearchPlaceholder: "Tìm kiếm theo tên thiết bị...",
		Statuses:          model.DeviceStatuses,
		DefaultSort:       newestFirst,
		Creatable:         true,
		Editable:          true,
		Deletable:         true,
	}
	cols := []table.Column[model.Device]{
		{ID: "deviceId", Header: "Mã thiết bị", Kind: table.ShortID, Hideable: true,
			Value: func(dv model.Device) any { return dv.DeviceID }},
		{ID: "name", Header: "Tên thiết bị", Kind: table.Text, Sortable: true,
			Value: func(dv model.Device) any { return dv.Name }},
		{ID: "serialNumber", Header: "Số serial", Kind: table.Text, Sortable: true, Hideable: true,
			Value: func(dv model.Device) any { return dv.SerialNumber }},
		{ID: "deviceModel", Header: "Mẫu thiết bị", Kind: table.Text, Hideable: true,
			Value: func(dv model.Device) any {
				if dv.DeviceModel == nil {
					return ""
				}
				return dv.DeviceModel.ModelName
			}},
		{ID: "status", Header: "Trạng thái", Kind: table.Badge, Enum: model.DeviceStatuses, Sortable: true, Hideable: true,
			Value: func(dv model.Device) any { return dv.Status }},
		{ID: "createdDate", Header: "Ngày tạo", Kind: table.DateTime, Sortable: true, Hideable: true,
			Value: func(dv model.Device) any { return dv.CreatedDate }},
		{ID: "updatedDate", Header: "Ngày cập nhật", Kind: table.DateTime, Sortable: true, Hideable: true,
			Value: func(dv model.Device) any { return dv.UpdatedDate }},
	}
	return NewList(info, d.defaults(), cols,
		func(dv model.Device) string { return dv.DeviceID },
		d.Client.Devices, d.Cache).
		WithDetail(byID[model.Device](d.Client, upstream.Devices))
}

func WorkflowScreen(d Deps) *List[model.Workflow] {
	info := Info{
		Name:              upstream.Workflows,
		Title:             "Quy trình",
		Noun:              "quy trình",
		SearchField:       "name",
		SearchPlaceholder: "Tìm kiếm theo tên quy trình...",
		Filters:           []Filter{{Column: "type", Label: "Loại", Options: model.WorkflowTypes}},
		DefaultSort:       newestFirst,
		Creatable:         true,
		Deletable:         true,
		CreateURL:         "/ui/workflows/builder",
	}
	cols := []table.Column[model.Workflow]{
		{ID: "workflowId", Header: "Mã quy trình", Kind: table.ShortID, Hideable: true,
			Value: func(w model.Workflow) any { return w.WorkflowID }},
		{ID: "name", Header: "Tên quy trình", Kind: table.Text, Sortable: true,
			Value: func(w model.Workflow) any { return w.Name }},
		{ID: "type", Header: "Loại", Kind: table.Badge, Enum: model.WorkflowTypes, Sortable: true, Hideable: true,
			Value: func(w model.Workflow) any { return w.Type }},
		{ID: "productId", Header: "Sản phẩm", Kind: table.ShortID, Hideable: true,
			Value: func(w model.Workflow) any {
				if w.ProductID == nil {
					return ""
				}
				return *w.ProductID
			}},
		{ID: "steps", Header: "Số bước", Kind: table.Text, Hideable: true,
			Value: func(w model.Workflow) any { return strconv.Itoa(len(w.Steps)) }},
		{ID: "createdDate", Header: "Ngày tạo", Kind: table.DateTime, Sortable: true, Hideable: true,
			Value: func(w model.Workflow) any { return w.CreatedDate }},
	}
	return NewList(info, d.defaults(), cols,
		func(w model.Workflow) string { return w.WorkflowID },
		d.Client.Workflows, d.Cache).
		WithDetail(byID[model.Workflow](d.Client, upstream.Workflows))
}

// AuditScreen lists console mutations. Pages come straight from the store.
func AuditScreen(d Deps) *List[model.AuditEntry] {
	info := Info{
		Name:              Audit,
		Title:             "Nhật ký thao tác",
		Noun:              "nhật ký",
		SearchField:       "actor",
		SearchPlaceholder: "Tìm kiếm theo người thực hiện...",
		Statuses:          model.AuditOutcomes,
		Filters:           []Filter{{Column: "type", Label: "Thao tác", Options: model.AuditActions}},
		DefaultSort:       query.Sort{Column: "createdAt", Desc: true},
	}
	cols := []table.Column[model.AuditEntry]{
		{ID: "createdAt", Header: "Thời gian", Kind: table.DateTime, Sortable: true,
			Value: func(e model.AuditEntry) any { return e.CreatedAt }},
		{ID: "actor", Header: "Người thực hiện", Kind: table.Text, Sortable: true,
			Value: func(e model.AuditEntry) any { return e.Actor }},
		{ID: "resource", Header: "Tài nguyên", Kind: table.Text, Sortable: true, Hideable: true,
			Value: func(e model.AuditEntry) any { return e.Resource }},
		{ID: "action", Header: "Thao tác", Kind: table.Badge, Enum: model.AuditActions, Hideable: true,
			Value: func(e model.AuditEntry) any { return e.Action }},
		{ID: "entityId", Header: "Mã bản ghi", Kind: table.ShortID, Hideable: true,
			Value: func(e model.AuditEntry) any { return e.EntityID }},
		{ID: "outcome", Header: "Kết quả", Kind: table.Badge, Enum: model.AuditOutcomes, Sortable: true, Hideable: true,
			Value: func(e model.AuditEntry) any { return e.Outcome }},
		{ID: "message", Header: "Nội dung", Kind: table.Text, Hideable: true,
			Value: func(e model.AuditEntry) any { return e.Message }},
	}
	return NewList(info, d.defaults(), cols,
		func(e model.AuditEntry) string { return strconv.FormatInt(e.ID, 10) },
		d.Audit.ListAudit, nil)
}
