package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/fellowship-comms/internal/model"
)

type OutboundMessageRepository struct {
	DB *sql.DB
}

const outboundColumns = `id, communication_id, member_id, phone, status, rendered_content, provider_sid, last_error, retry_count, created_at, updated_at`

// CreateOutboundMessage is idempotent per (communication, member): a repeated
// dispatch returns the existing row in msg.
func (r *OutboundMessageRepository) CreateOutboundMessage(ctx context.Context, msg *model.OutboundMessage) error {
	now := time.Now()
	msg.ID = model.ID(uuid.NewString())
	msg.CreatedAt = now
	msg.UpdatedAt = now
	if msg.Status == "" {
		msg.Status = model.OutboundPending
	}

	query := `
        INSERT INTO outbound_messages (` + outboundColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (communication_id, member_id) DO UPDATE SET updated_at = outbound_messages.updated_at
        RETURNING ` + outboundColumns
	return scanOutbound(r.DB.QueryRowContext(ctx, query,
		msg.ID, msg.CommunicationID, msg.MemberID, msg.Phone, msg.Status, msg.RenderedContent,
		msg.ProviderSID, msg.LastError, msg.RetryCount, msg.CreatedAt, msg.UpdatedAt,
	), msg)
}

func scanOutbound(row interface{ Scan(...any) error }, msg *model.OutboundMessage) error {
	return row.Scan(&msg.ID, &msg.CommunicationID, &msg.MemberID, &msg.Phone, &msg.Status, &msg.RenderedContent,
		&msg.ProviderSID, &msg.LastError, &msg.RetryCount, &msg.CreatedAt, &msg.UpdatedAt)
}

// UpdateOutboundMessage saves the delivery outcome fields.
func (r *OutboundMessageRepository) UpdateOutboundMessage(ctx context.Context, msg *model.OutboundMessage) error {
	msg.UpdatedAt = time.Now()
	query := `
        UPDATE outbound_messages
        SET status=$1, provider_sid=$2, last_error=$3, retry_count=$4, updated_at=$5
        WHERE id=$6
    `
	_, err := r.DB.ExecContext(ctx, query, msg.Status, msg.ProviderSID, msg.LastError, msg.RetryCount, msg.UpdatedAt, msg.ID)
	return err
}

// GetOutboundMessage returns nil, nil when no message has id.
func (r *OutboundMessageRepository) GetOutboundMessage(ctx context.Context, id model.ID) (*model.OutboundMessage, error) {
	var msg model.OutboundMessage
	err := scanOutbound(r.DB.QueryRowContext(ctx, `SELECT `+outboundColumns+` FROM outbound_messages WHERE id=$1`, id), &msg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *OutboundMessageRepository) CountByStatus(ctx context.Context, communicationID model.ID) (map[model.OutboundStatus]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM outbound_messages WHERE communication_id=$1 GROUP BY status`, communicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[model.OutboundStatus]int{model.OutboundPending: 0, model.OutboundSent: 0, model.OutboundFailed: 0}
	for rows.Next() {
		var status model.OutboundStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
