package message

import (
	"context"

	"catalisa/internal/core/id"
)

// Repository defines message persistence. Listing and counting ignore
// soft-deleted rows.
type Repository interface {
	ListInbox(ctx context.Context, userID id.ID) ([]Message, error)
	ListSent(ctx context.Context, userID id.ID) ([]Message, error)
	Get(ctx context.Context, messageID id.ID) (*Message, error)
	Create(ctx context.Context, m *Message) error
	MarkRead(ctx context.Context, messageID id.ID) error
	SoftDelete(ctx context.Context, messageID id.ID) error
	CountUnread(ctx context.Context, userID id.ID) (int, error)

	// CountUnreadForAdmins sums unread messages addressed to any admin,
	// for the dashboard.
	CountUnreadForAdmins(ctx context.Context) (int, error)

	// RecentForAdmins returns the newest messages addressed to admins.
	RecentForAdmins(ctx context.Context, limit int) ([]Message, error)
}
