package notification

import (
	"fmt"

	"garagelink/models"
	"garagelink/utils"
)

// RenderTemplate expands a message template with its parameters.
func RenderTemplate(template string, params map[string]string) string {
	switch template {
	case models.TemplateServiceOTP:
		return fmt.Sprintf("%s wants to record a service for you. Share code %s with the garage to confirm. It expires in %s minutes.",
			params["garageName"], params["code"], params["ttlMinutes"])
	case models.TemplateServiceInvoice:
		return fmt.Sprintf("Service at %s recorded: %s. Amount %s, paid via %s. Thank you!",
			params["garageName"], params["description"], params["amount"], params["paymentMethod"])
	default:
		return fmt.Sprintf("garagelink notification: %v", params)
	}
}

// SendWhatsAppMessage sends a WhatsApp message to the given phone number.
// Replace the body of this function with your actual integration with
// WhatsApp's API. For now, we log the outgoing message.
func SendWhatsAppMessage(phoneNumber, message string) error {
	utils.GetLogger().Sugar().Infof("Sending WhatsApp message to %s: %s", phoneNumber, message)
	return nil
}
