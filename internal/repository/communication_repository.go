package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
	"github.com/unclebandit/fellowship-comms/internal/model"
)

type CommunicationRepository struct {
	DB *sql.DB
}

const communicationColumns = `id, name, audience, custom_audience, message, status, scheduled_at, sent_count, delivered_count, failed_count, created_at, updated_at`

func scanCommunication(row interface{ Scan(...any) error }) (*model.Communication, error) {
	var c model.Communication
	var custom []string
	err := row.Scan(&c.ID, &c.Name, &c.Audience, pq.Array(&custom), &c.Message, &c.Status, &c.ScheduledAt,
		&c.SentCount, &c.DeliveredCount, &c.FailedCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.CustomAudience = toIDs(custom)
	return &c, nil
}

func toIDs(ss []string) []model.ID {
	if len(ss) == 0 {
		return nil
	}
	ids := make([]model.ID, len(ss))
	for i, s := range ss {
		ids[i] = model.ID(s)
	}
	return ids
}

func fromIDs(ids []model.ID) []string {
	ss := make([]string, len(ids))
	for i, id := range ids {
		ss[i] = string(id)
	}
	return ss
}

// ====================== Communication CRUD ======================

func (r *CommunicationRepository) Create(ctx context.Context, c *model.Communication) error {
	c.ID = model.ID(uuid.NewString())
	c.CreatedAt = time.Now()
	c.UpdatedAt = nil
	if c.Status == "" {
		c.Status = model.StatusDraft
	}
	query := `
        INSERT INTO communications (id, name, audience, custom_audience, message, status, scheduled_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Audience, pq.Array(fromIDs(c.CustomAudience)),
		c.Message, c.Status, c.ScheduledAt, c.CreatedAt)
	return err
}

func (r *CommunicationRepository) Update(ctx context.Context, c *model.Communication) error {
	now := time.Now()
	query := `
        UPDATE communications
        SET name=$1, audience=$2, custom_audience=$3, message=$4, status=$5, scheduled_at=$6, updated_at=$7
        WHERE id=$8
    `
	res, err := r.DB.ExecContext(ctx, query, c.Name, c.Audience, pq.Array(fromIDs(c.CustomAudience)),
		c.Message, c.Status, c.ScheduledAt, now, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewCommunicationNotFound(string(c.ID))
	}
	c.UpdatedAt = &now
	return nil
}

func (r *CommunicationRepository) GetByID(ctx context.Context, id model.ID) (*model.Communication, error) {
	c, err := scanCommunication(r.DB.QueryRowContext(ctx, `SELECT `+communicationColumns+` FROM communications WHERE id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCommunicationNotFound(string(id))
		}
		return nil, err
	}
	return c, nil
}

func (r *CommunicationRepository) UpdateStatus(ctx context.Context, id model.ID, status model.CommunicationStatus) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE communications SET status=$1, updated_at=$2 WHERE id=$3`, status, time.Now(), id)
	return err
}

func (r *CommunicationRepository) UpdateCounters(ctx context.Context, id model.ID, sent, delivered, failed int) error {
	query := `UPDATE communications SET sent_count=$1, delivered_count=$2, failed_count=$3, updated_at=$4 WHERE id=$5`
	_, err := r.DB.ExecContext(ctx, query, sent, delivered, failed, time.Now(), id)
	return err
}

// ListCommunications returns one page, newest first, and the filtered total.
func (r *CommunicationRepository) ListCommunications(ctx context.Context, offset, limit int, status string) ([]*model.Communication, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argPos := 1
	if status != "" {
		where += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query := `SELECT ` + communicationColumns + ` FROM communications` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	rows, err := r.DB.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	communications := []*model.Communication{}
	for rows.Next() {
		c, err := scanCommunication(rows)
		if err != nil {
			return nil, 0, err
		}
		communications = append(communications, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM communications`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return communications, total, nil
}

func (r *CommunicationRepository) Stats(ctx context.Context) (*model.CommunicationStats, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*), COALESCE(SUM(sent_count),0), COALESCE(SUM(delivered_count),0) FROM communications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &model.CommunicationStats{}
	var smsSent, smsDelivered int
	for rows.Next() {
		var status model.CommunicationStatus
		var count, sent, delivered int
		if err := rows.Scan(&status, &count, &sent, &delivered); err != nil {
			return nil, err
		}
		AddStatusCount(stats, status, count)
		smsSent += sent
		smsDelivered += delivered
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.TotalSMSSent = &smsSent
	stats.TotalSMSDelivered = &smsDelivered
	return stats, nil
}

// AddStatusCount folds one status bucket into stats. SENDING counts toward
// the total only.
func AddStatusCount(stats *model.CommunicationStats, status model.CommunicationStatus, count int) {
	stats.Total += count
	switch status {
	case model.StatusDraft:
		stats.Draft += count
	case model.StatusScheduled:
		stats.Scheduled += count
	case model.StatusSent:
		stats.Sent += count
	case model.StatusFailed:
		stats.Failed += count
	}
}
