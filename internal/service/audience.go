// internal/service/audience.go
package service

import (
	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
	"github.com/unclebandit/fellowship-comms/internal/model"
)

// Resolve selects the recipients of a communication. The result is fully
// materialised and the inputs are never modified.
//
// For CUSTOM the order of customIDs wins over directory order and IDs that
// do not match a member are dropped without error. Repeated IDs resolve once,
// at their first position.
func Resolve(selector model.AudienceSelector, members []model.Member, customIDs []model.ID) ([]model.Member, error) {
	switch selector {
	case model.AudienceAll:
		out := make([]model.Member, len(members))
		copy(out, members)
		return out, nil

	case model.AudienceEligible:
		return filterMembers(members, func(m model.Member) bool {
			return model.EligibilityFor(m.DelinquencyDays) == model.Eligible
		}), nil

	case model.AudienceDelinquent30, model.AudienceDelinquent60, model.AudienceDelinquent90:
		bucket, _ := selector.Bucket()
		return filterMembers(members, func(m model.Member) bool {
			return model.BucketFor(m.DelinquencyDays) == bucket
		}), nil

	case model.AudienceCustom:
		byID := make(map[model.ID]model.Member, len(members))
		for _, m := range members {
			byID[m.ID] = m
		}
		out := make([]model.Member, 0, len(customIDs))
		seen := make(map[model.ID]bool, len(customIDs))
		for _, id := range customIDs {
			if seen[id] {
				continue
			}
			if m, ok := byID[id]; ok {
				seen[id] = true
				out = append(out, m)
			}
		}
		return out, nil
	}

	return nil, appErrors.NewInvalidAudience(string(selector))
}

func filterMembers(members []model.Member, keep func(model.Member) bool) []model.Member {
	out := []model.Member{}
	for _, m := range members {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
