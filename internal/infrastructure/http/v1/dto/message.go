package dto

import "catalisa/internal/core/id"

// SendMessageRequest composes a direct message, optionally tied to an order.
type SendMessageRequest struct {
	RecipientID id.ID  `json:"recipientId" binding:"required"`
	OrderID     *id.ID `json:"orderId"`
	Subject     string `json:"subject"`
	Content     string `json:"content" binding:"required"`
}
