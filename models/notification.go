package models

// Message templates delivered to customers.
const (
	TemplateServiceOTP     = "service_otp"
	TemplateServiceInvoice = "service_invoice"
)

// NotificationPayload is the queued delivery request consumed by the
// notification worker.
type NotificationPayload struct {
	Phone    string            `json:"phone"`
	Template string            `json:"template"`
	Params   map[string]string `json:"params"`
}
