// internal/model/member.go
package model

import "time"

// ID is the canonical identifier for every stored entity. It is assigned once
// when a record crosses into the application and never re-derived afterwards.
type ID string

type PaymentStatus string

const (
	PaymentPaid       PaymentStatus = "PAID"
	PaymentDelinquent PaymentStatus = "DELINQUENT"
)

type Eligibility string

const (
	Eligible    Eligibility = "ELIGIBLE"
	NotEligible Eligibility = "NOT_ELIGIBLE"
)

// MaxEligibleDelinquencyDays is the last overdue day on which a member may still vote.
const MaxEligibleDelinquencyDays = 90

// Label is the human form used in rendered messages.
func (e Eligibility) Label() string {
	switch e {
	case Eligible:
		return "Eligible"
	case NotEligible:
		return "Not Eligible"
	}
	return ""
}

type Member struct {
	ID              ID            `db:"id" json:"id" yaml:"id"`
	FirstName       string        `db:"first_name" json:"firstName" yaml:"firstName"`
	LastName        string        `db:"last_name" json:"lastName" yaml:"lastName"`
	Phone           string        `db:"phone" json:"phone" yaml:"phone"`
	Email           string        `db:"email" json:"email,omitempty" yaml:"email,omitempty"`
	PaymentStatus   PaymentStatus `db:"payment_status" json:"paymentStatus" yaml:"paymentStatus"`
	DelinquencyDays int           `db:"delinquency_days" json:"delinquencyDays" yaml:"delinquencyDays"`
	Eligibility     Eligibility   `db:"eligibility" json:"eligibility" yaml:"eligibility"`
	Consent         bool          `db:"consent" json:"consent" yaml:"consent"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updatedAt" yaml:"-"`
}

// EligibilityFor derives voting eligibility from the overdue day count.
func EligibilityFor(delinquencyDays int) Eligibility {
	if delinquencyDays > MaxEligibleDelinquencyDays {
		return NotEligible
	}
	return Eligible
}

// Normalize recomputes the fields that are functions of DelinquencyDays.
// Every repository and client calls it before handing a Member to the rest of
// the application, so a stale stored eligibility never leaks through.
func (m *Member) Normalize() {
	if m.DelinquencyDays < 0 {
		m.DelinquencyDays = 0
	}
	m.Eligibility = EligibilityFor(m.DelinquencyDays)
	if m.DelinquencyDays > 0 {
		m.PaymentStatus = PaymentDelinquent
	} else {
		m.PaymentStatus = PaymentPaid
	}
}

// Reachable reports whether the member can receive an SMS at all.
func (m Member) Reachable() bool {
	return m.Consent && m.Phone != ""
}

// DelinquencyBucket partitions members by overdue day count. Every count maps
// to exactly one bucket.
type DelinquencyBucket int

const (
	BucketCurrent DelinquencyBucket = iota
	Bucket30
	Bucket60
	Bucket90
	BucketBeyond90
)

// BucketFor places days into (0,30], (30,60], (60,90] or one of the two ends.
func BucketFor(days int) DelinquencyBucket {
	switch {
	case days <= 0:
		return BucketCurrent
	case days <= 30:
		return Bucket30
	case days <= 60:
		return Bucket60
	case days <= 90:
		return Bucket90
	default:
		return BucketBeyond90
	}
}

// MemberFilter narrows a directory listing. Zero values match everything.
type MemberFilter struct {
	Search        string
	PaymentStatus PaymentStatus
	ConsentOnly   bool
}
