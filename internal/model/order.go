package model

// Order is a kiosk purchase.
type Order struct {
	OrderID        string    `json:"orderId"`
	OrderType      string    `json:"orderType"`
	PaymentGateway string    `json:"paymentGateway"`
	Status         string    `json:"status"`
	TotalAmount    float64   `json:"totalAmount"`
	FinalAmount    float64   `json:"finalAmount"`
	KioskID        string    `json:"kioskId,omitempty"`
	CreatedDate    Timestamp `json:"createdDate"`
}

// Organization owns kiosks.
type Organization struct {
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	PhoneNumber    string    `json:"phoneNumber,omitempty"`
	Address        string    `json:"address,omitempty"`
	Status         string    `json:"status"`
	CreatedDate    Timestamp `json:"createdDate"`
}
