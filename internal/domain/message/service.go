package message

import (
	"context"
	"time"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/pkg/logger"
)

// Service provides messaging business logic.
type Service struct {
	repo Repository
}

// NewService creates a message service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Send delivers a message. OrderID links order notifications to their order.
func (s *Service) Send(ctx context.Context, senderID, recipientID id.ID, orderID *id.ID, subject, content string) (*Message, error) {
	m := &Message{
		ID:          id.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		OrderID:     orderID,
		Subject:     subject,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := m.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Broadcast sends the same message to several recipients. Used by the order
// flow to notify every admin. Individual failures are logged, not fatal.
func (s *Service) Broadcast(ctx context.Context, senderID id.ID, recipientIDs []id.ID, orderID *id.ID, subject, content string) {
	for _, recipientID := range recipientIDs {
		if _, err := s.Send(ctx, senderID, recipientID, orderID, subject, content); err != nil {
			logger.Error(ctx, "notification delivery failed",
				"recipient_id", recipientID, "error", err)
		}
	}
}

// Inbox returns messages addressed to the user, newest first.
func (s *Service) Inbox(ctx context.Context, userID id.ID) ([]Message, error) {
	return s.repo.ListInbox(ctx, userID)
}

// Sent returns messages the user sent, newest first.
func (s *Service) Sent(ctx context.Context, userID id.ID) ([]Message, error) {
	return s.repo.ListSent(ctx, userID)
}

// MarkRead marks a message read. Only the recipient may do so.
func (s *Service) MarkRead(ctx context.Context, user *appctx.UserContext, messageID id.ID) error {
	m, err := s.repo.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if user == nil || m.RecipientID.String() != user.UserID {
		return apperror.NewForbidden("only the recipient can mark a message read")
	}
	return s.repo.MarkRead(ctx, messageID)
}

// UnreadCount returns the user's unread message count.
func (s *Service) UnreadCount(ctx context.Context, userID id.ID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Delete soft-deletes a message for its recipient.
func (s *Service) Delete(ctx context.Context, user *appctx.UserContext, messageID id.ID) error {
	m, err := s.repo.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if user == nil || (m.RecipientID.String() != user.UserID && m.SenderID.String() != user.UserID) {
		return apperror.NewForbidden("cannot delete another user's message")
	}
	return s.repo.SoftDelete(ctx, messageID)
}
