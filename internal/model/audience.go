package model

import "strings"

type AudienceSelector string

const (
	AudienceAll          AudienceSelector = "ALL"
	AudienceEligible     AudienceSelector = "ELIGIBLE"
	AudienceDelinquent30 AudienceSelector = "DELINQUENT_30"
	AudienceDelinquent60 AudienceSelector = "DELINQUENT_60"
	AudienceDelinquent90 AudienceSelector = "DELINQUENT_90"
	AudienceCustom       AudienceSelector = "CUSTOM"
)

var audienceSelectors = []AudienceSelector{
	AudienceAll,
	AudienceEligible,
	AudienceDelinquent30,
	AudienceDelinquent60,
	AudienceDelinquent90,
	AudienceCustom,
}

func (a AudienceSelector) Valid() bool {
	for _, s := range audienceSelectors {
		if a == s {
			return true
		}
	}
	return false
}

// ParseAudienceSelector accepts the wire form case-insensitively.
func ParseAudienceSelector(s string) (AudienceSelector, bool) {
	a := AudienceSelector(strings.ToUpper(strings.TrimSpace(s)))
	return a, a.Valid()
}

// Bucket returns the delinquency bucket a DELINQUENT_* selector targets.
func (a AudienceSelector) Bucket() (DelinquencyBucket, bool) {
	switch a {
	case AudienceDelinquent30:
		return Bucket30, true
	case AudienceDelinquent60:
		return Bucket60, true
	case AudienceDelinquent90:
		return Bucket90, true
	}
	return BucketCurrent, false
}
