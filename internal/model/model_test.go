package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/fellowship-comms/internal/model"
)

func TestBucketForIsExclusive(t *testing.T) {
	cases := map[int]model.DelinquencyBucket{
		0:   model.BucketCurrent,
		1:   model.Bucket30,
		30:  model.Bucket30,
		31:  model.Bucket60,
		60:  model.Bucket60,
		61:  model.Bucket90,
		90:  model.Bucket90,
		91:  model.BucketBeyond90,
		365: model.BucketBeyond90,
	}
	for days, want := range cases {
		assert.Equal(t, want, model.BucketFor(days), "days=%d", days)
	}
}

func TestNormalizeDerivesEligibility(t *testing.T) {
	m := model.Member{DelinquencyDays: 95, Eligibility: model.Eligible, PaymentStatus: model.PaymentPaid}
	m.Normalize()
	assert.Equal(t, model.NotEligible, m.Eligibility)
	assert.Equal(t, model.PaymentDelinquent, m.PaymentStatus)

	m = model.Member{DelinquencyDays: 90, Eligibility: model.NotEligible}
	m.Normalize()
	assert.Equal(t, model.Eligible, m.Eligibility)

	m = model.Member{DelinquencyDays: -3}
	m.Normalize()
	assert.Equal(t, 0, m.DelinquencyDays)
	assert.Equal(t, model.PaymentPaid, m.PaymentStatus)
}

func TestAtLeast(t *testing.T) {
	assert.True(t, model.AtLeast(model.RoleAdmin, model.RoleMember))
	assert.True(t, model.AtLeast(model.RoleMember, model.RoleMember))
	assert.False(t, model.AtLeast(model.RoleGuest, model.RoleMember))
	assert.False(t, model.AtLeast(model.RoleMember, model.RoleAdmin))
	assert.Equal(t, model.RoleGuest, model.ParseRole("pastor"))
	assert.Equal(t, model.RoleAdmin, model.ParseRole(" admin "))
}

func TestParseAudienceSelector(t *testing.T) {
	a, ok := model.ParseAudienceSelector("delinquent_60")
	assert.True(t, ok)
	assert.Equal(t, model.AudienceDelinquent60, a)

	_, ok = model.ParseAudienceSelector("EVERYONE")
	assert.False(t, ok)
}

func TestCommunicationEditable(t *testing.T) {
	for status, want := range map[model.CommunicationStatus]bool{
		model.StatusDraft:     true,
		model.StatusScheduled: true,
		model.StatusSending:   false,
		model.StatusSent:      false,
		model.StatusFailed:    false,
	} {
		c := &model.Communication{Status: status}
		assert.Equal(t, want, c.Editable(), string(status))
	}
}
