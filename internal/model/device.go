package model

// DeviceType groups device models ("printer", "coffee machine", ...).
type DeviceType struct {
	DeviceTypeID string `json:"deviceTypeId"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
}

// DeviceModel is a manufacturer model and the functions it exposes.
type DeviceModel struct {
	DeviceModelID   string           `json:"deviceModelId"`
	ModelName       string           `json:"modelName"`
	Manufacturer    string           `json:"manufacturer"`
	DeviceTypeID    string           `json:"deviceTypeId"`
	DeviceType      *DeviceType      `json:"deviceType,omitempty"`
	Status          string           `json:"status"`
	DeviceFunctions []DeviceFunction `json:"deviceFunctions,omitempty"`
}

// FindFunction returns the function whose id, or name, equals key.
func (m DeviceModel) FindFunction(key string) (DeviceFunction, bool) {
	for _, fn := range m.DeviceFunctions {
		if fn.DeviceFunctionID == key || fn.Name == key {
			return fn, true
		}
	}
	return DeviceFunction{}, false
}

// DeviceFunction is an operation a device model can perform.
type DeviceFunction struct {
	DeviceFunctionID   string              `json:"deviceFunctionId,omitempty"`
	Name               string              `json:"name"`
	Status             string              `json:"status"`
	FunctionParameters []FunctionParameter `json:"functionParameters"`
}

// FunctionParameter is one input of a device function.
type FunctionParameter struct {
	FunctionParameterID string   `json:"functionParameterId,omitempty"`
	Name                string   `json:"name"`
	Type                string   `json:"type"`
	Min                 *string  `json:"min"`
	Max                 *string  `json:"max"`
	Options             []string `json:"options"`
	Default             string   `json:"default"`
	Description         *string  `json:"description"`
}

// Device is a physical unit installed in, or waiting for, a kiosk.
type Device struct {
	DeviceID      string       `json:"deviceId"`
	Name          string       `json:"name"`
	SerialNumber  string       `json:"serialNumber"`
	Description   string       `json:"description,omitempty"`
	Status        string       `json:"status"`
	DeviceModelID string       `json:"deviceModelId"`
	DeviceModel   *DeviceModel `json:"deviceModel,omitempty"`
	CreatedDate   Timestamp    `json:"createdDate"`
	UpdatedDate   Timestamp    `json:"updatedDate"`
}

// DeviceGroup is a set of devices sharing a status.
type DeviceGroup struct {
	Status  EnumValue
	Devices []Device
}

// GroupByStatus groups devices Working, Maintain, Stock first, then any
// unknown statuses in order of first appearance. Devices without a status
// count as Stock.
func GroupByStatus(devices []Device) []DeviceGroup {
	buckets := make(map[string][]Device)
	var unknown []string
	for _, d := range devices {
		status := d.Status
		if status == "" {
			status = DeviceStatusStock
		}
		if _, seen := buckets[status]; !seen && !DeviceStatuses.Contains(status) {
			unknown = append(unknown, status)
		}
		buckets[status] = append(buckets[status], d)
	}

	order := append(DeviceStatuses.Values(), unknown...)
	groups := make([]DeviceGroup, 0, len(buckets))
	for _, status := range order {
		if devs, ok := buckets[status]; ok {
			groups = append(groups, DeviceGroup{Status: DeviceStatuses.Lookup(status), Devices: devs})
		}
	}
	return groups
}
