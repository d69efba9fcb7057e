package platform_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/message"
	"catalisa/internal/infrastructure/storage/postgres"
)

const messagesTable = "messages"

var messageColumns = []string{
	"id", "sender_id", "recipient_id", "order_id", "subject", "content",
	"is_read", "deleted_at", "created_at",
}

// MessageRepo implements message.Repository.
type MessageRepo struct {
	base
}

// NewMessageRepo creates a message repository.
func NewMessageRepo(txManager *postgres.TxManager) *MessageRepo {
	return &MessageRepo{base{txManager: txManager}}
}

func (r *MessageRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(messageColumns...).
		From(messagesTable).
		Where(squirrel.Eq{"deleted_at": nil})
}

func (r *MessageRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]message.Message, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var messages []message.Message
	if err := pgxscan.Select(ctx, r.querier(ctx), &messages, sql, args...); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// ListInbox returns messages addressed to the user, newest first.
func (r *MessageRepo) ListInbox(ctx context.Context, userID id.ID) ([]message.Message, error) {
	return r.list(ctx, r.baseSelect().
		Where(squirrel.Eq{"recipient_id": userID}).
		OrderBy("created_at DESC"))
}

// ListSent returns messages the user sent, newest first.
func (r *MessageRepo) ListSent(ctx context.Context, userID id.ID) ([]message.Message, error) {
	return r.list(ctx, r.baseSelect().
		Where(squirrel.Eq{"sender_id": userID}).
		OrderBy("created_at DESC"))
}

// Get returns one message.
func (r *MessageRepo) Get(ctx context.Context, messageID id.ID) (*message.Message, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": messageID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m message.Message
	if err := pgxscan.Get(ctx, r.querier(ctx), &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("message", messageID)
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &m, nil
}

// Create inserts a message.
func (r *MessageRepo) Create(ctx context.Context, m *message.Message) error {
	q := r.builder().
		Insert(messagesTable).
		Columns(messageColumns...).
		Values(
			m.ID, m.SenderID, m.RecipientID, m.OrderID, m.Subject, m.Content,
			m.IsRead, m.DeletedAt, m.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// MarkRead flags a message as read.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID id.ID) error {
	_, err := r.querier(ctx).Exec(ctx,
		`UPDATE messages SET is_read = true WHERE id = $1`, messageID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// SoftDelete hides a message from listings.
func (r *MessageRepo) SoftDelete(ctx context.Context, messageID id.ID) error {
	_, err := r.querier(ctx).Exec(ctx,
		`UPDATE messages SET deleted_at = $1 WHERE id = $2`, time.Now().UTC(), messageID)
	if err != nil {
		return fmt.Errorf("soft delete message: %w", err)
	}
	return nil
}

// CountUnread counts the user's unread, non-deleted messages.
func (r *MessageRepo) CountUnread(ctx context.Context, userID id.ID) (int, error) {
	var count int
	err := pgxscan.Get(ctx, r.querier(ctx), &count,
		`SELECT count(*) FROM messages
		 WHERE recipient_id = $1 AND is_read = false AND deleted_at IS NULL`, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// CountUnreadForAdmins counts unread messages addressed to any admin.
func (r *MessageRepo) CountUnreadForAdmins(ctx context.Context) (int, error) {
	var count int
	err := pgxscan.Get(ctx, r.querier(ctx), &count,
		`SELECT count(*) FROM messages m
		 JOIN users u ON u.id = m.recipient_id
		 WHERE u.role = $1 AND m.is_read = false AND m.deleted_at IS NULL`, appctx.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("count unread for admins: %w", err)
	}
	return count, nil
}

// RecentForAdmins returns the newest messages addressed to admins.
func (r *MessageRepo) RecentForAdmins(ctx context.Context, limit int) ([]message.Message, error) {
	var messages []message.Message
	err := pgxscan.Select(ctx, r.querier(ctx), &messages,
		`SELECT m.id, m.sender_id, m.recipient_id, m.order_id, m.subject,
		        m.content, m.is_read, m.deleted_at, m.created_at
		 FROM messages m
		 JOIN users u ON u.id = m.recipient_id
		 WHERE u.role = $1 AND m.deleted_at IS NULL
		 ORDER BY m.created_at DESC
		 LIMIT $2`, appctx.RoleAdmin, limit)
	if err != nil {
		return nil, fmt.Errorf("recent admin messages: %w", err)
	}
	return messages, nil
}
