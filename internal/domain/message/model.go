// Package message provides partner↔admin messaging, including the automatic
// notifications the order flow produces.
package message

import (
	"context"
	"strings"
	"time"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
)

// Message is one directed message between two accounts.
type Message struct {
	ID          id.ID      `db:"id" json:"id"`
	SenderID    id.ID      `db:"sender_id" json:"senderId"`
	RecipientID id.ID      `db:"recipient_id" json:"recipientId"`
	OrderID     *id.ID     `db:"order_id" json:"orderId,omitempty"`
	Subject     string     `db:"subject" json:"subject"`
	Content     string     `db:"content" json:"content"`
	IsRead      bool       `db:"is_read" json:"isRead"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// Validate checks message fields.
func (m *Message) Validate(ctx context.Context) error {
	if id.IsNil(m.RecipientID) {
		return apperror.NewValidation("recipient is required").WithDetail("field", "recipientId")
	}
	if strings.TrimSpace(m.Content) == "" {
		return apperror.NewValidation("content is required").WithDetail("field", "content")
	}
	return nil
}
