package customer

import "time"

// Customer is identified by their WhatsApp number; orders reference it.
type Customer struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	WhatsAppNumber string    `json:"whatsapp_number"`
	CreatedAt      time.Time `json:"created_at"`
}
