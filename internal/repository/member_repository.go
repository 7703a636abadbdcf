package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/fellowship-comms/internal/model"
)

// MemberRepository is the Postgres-backed member directory.
type MemberRepository struct {
	DB *sql.DB
}

const memberColumns = `id, first_name, last_name, phone, email, payment_status, delinquency_days, eligibility, consent, created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Phone, &m.Email, &m.PaymentStatus,
		&m.DelinquencyDays, &m.Eligibility, &m.Consent, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err
	}
	m.Normalize()
	return m, nil
}

// MemberQuery builds the listing query for filter.
func MemberQuery(filter model.MemberFilter) (string, []any) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE 1=1`
	args := []any{}
	argPos := 1

	if s := strings.TrimSpace(filter.Search); s != "" {
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR phone ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, "%"+s+"%")
		argPos++
	}
	switch filter.PaymentStatus {
	case model.PaymentPaid:
		query += " AND delinquency_days = 0"
	case model.PaymentDelinquent:
		query += " AND delinquency_days > 0"
	}
	if filter.ConsentOnly {
		query += " AND consent"
	}

	query += " ORDER BY last_name, first_name, id"
	return query, args
}

func (r *MemberRepository) ListMembers(ctx context.Context, filter model.MemberFilter) ([]model.Member, error) {
	query, args := MemberQuery(filter)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberRepository) GetByID(ctx context.Context, id model.ID) (*model.Member, error) {
	m, err := scanMember(r.DB.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &m, nil
}

// Upsert inserts or replaces a member. Members without an ID get a new one.
func (r *MemberRepository) Upsert(ctx context.Context, m *model.Member) error {
	if m.ID == "" {
		m.ID = model.ID(uuid.NewString())
	}
	m.Normalize()
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	query := `
        INSERT INTO members (` + memberColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (id) DO UPDATE SET
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            phone = EXCLUDED.phone,
            email = EXCLUDED.email,
            payment_status = EXCLUDED.payment_status,
            delinquency_days = EXCLUDED.delinquency_days,
            eligibility = EXCLUDED.eligibility,
            consent = EXCLUDED.consent,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.ExecContext(ctx, query, m.ID, m.FirstName, m.LastName, m.Phone, m.Email, m.PaymentStatus,
		m.DelinquencyDays, m.Eligibility, m.Consent, m.CreatedAt, m.UpdatedAt)
	return err
}
