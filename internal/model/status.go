package model

// Tone is the badge color family used when an enum value is displayed.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
	ToneDanger  Tone = "danger"
	ToneMuted   Tone = "muted"
)

// EnumValue describes one member of a fixed enumeration for display.
type EnumValue struct {
	Value string
	Label string
	Tone  Tone
}

// Enum is an ordered set of allowed values with display metadata.
type Enum []EnumValue

// Lookup returns the display metadata for v. Unknown values get the
// "Không rõ" label and a warning tone.
func (e Enum) Lookup(v string) EnumValue {
	for _, ev := range e {
		if ev.Value == v {
			return ev
		}
	}
	return EnumValue{Value: v, Label: "Không rõ", Tone: ToneWarning}
}

// Contains reports whether v is a member of the enumeration.
func (e Enum) Contains(v string) bool {
	for _, ev := range e {
		if ev.Value == v {
			return true
		}
	}
	return false
}

// Values returns the raw values in declaration order.
func (e Enum) Values() []string {
	out := make([]string, len(e))
	for i, ev := range e {
		out[i] = ev.Value
	}
	return out
}

const (
	BaseStatusActive   = "Active"
	BaseStatusInactive = "Inactive"
)

var BaseStatuses = Enum{
	{Value: BaseStatusActive, Label: "Hoạt động", Tone: ToneSuccess},
	{Value: BaseStatusInactive, Label: "Không hoạt động", Tone: ToneMuted},
}

const (
	DeviceStatusWorking  = "Working"
	DeviceStatusMaintain = "Maintain"
	DeviceStatusStock    = "Stock"
)

// DeviceStatuses is ordered Working, Maintain, Stock, the order used when
// devices are grouped by status.
var DeviceStatuses = Enum{
	{Value: DeviceStatusWorking, Label: "Đang hoạt động", Tone: ToneSuccess},
	{Value: DeviceStatusMaintain, Label: "Bảo trì", Tone: ToneWarning},
	{Value: DeviceStatusStock, Label: "Trong kho", Tone: ToneInfo},
}

const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
	OrderStatusFailed    = "Failed"
	OrderStatusCancelled = "Cancelled"
)

var OrderStatuses = Enum{
	{Value: OrderStatusPending, Label: "Đang chờ", Tone: ToneWarning},
	{Value: OrderStatusCompleted, Label: "Hoàn thành", Tone: ToneSuccess},
	{Value: OrderStatusFailed, Label: "Thất bại", Tone: ToneDanger},
	{Value: OrderStatusCancelled, Label: "Đã hủy", Tone: ToneMuted},
}

const (
	OrderTypeImmediate = "Immediate"
	OrderTypePreOrder  = "PreOrder"
)

var OrderTypes = Enum{
	{Value: OrderTypeImmediate, Label: "Mua ngay", Tone: ToneInfo},
	{Value: OrderTypePreOrder, Label: "Đặt trước", Tone: ToneWarning},
}

const (
	PaymentGatewayMoMo  = "MoMo"
	PaymentGatewayVNPay = "VNPay"
)

var PaymentGateways = Enum{
	{Value: PaymentGatewayMoMo, Label: "MoMo", Tone: ToneDanger},
	{Value: PaymentGatewayVNPay, Label: "VNPay", Tone: ToneInfo},
}

const (
	WorkflowTypeActivity = "Activity"
	WorkflowTypeCallback = "Callback"
)

var WorkflowTypes = Enum{
	{Value: WorkflowTypeActivity, Label: "Hoạt động", Tone: ToneInfo},
	{Value: WorkflowTypeCallback, Label: "Callback", Tone: ToneMuted},
}

const (
	ParameterTypeText    = "Text"
	ParameterTypeNumber  = "Number"
	ParameterTypeSelect  = "Select"
	ParameterTypeBoolean = "Boolean"
)

var ParameterTypes = Enum{
	{Value: ParameterTypeText, Label: "Văn bản", Tone: ToneMuted},
	{Value: ParameterTypeNumber, Label: "Số", Tone: ToneMuted},
	{Value: ParameterTypeSelect, Label: "Lựa chọn", Tone: ToneMuted},
	{Value: ParameterTypeBoolean, Label: "Đúng/Sai", Tone: ToneMuted},
}

// SyncStates is the yes/no enumeration behind the sync task filter.
var SyncStates = Enum{
	{Value: "true", Label: "Đã đồng bộ", Tone: ToneSuccess},
	{Value: "false", Label: "Chưa đồng bộ", Tone: ToneWarning},
}
