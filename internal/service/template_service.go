// internal/service/template_service.go
package service

import (
	"strings"

	"github.com/unclebandit/fellowship-comms/internal/model"
)

const (
	PlaceholderFirstName    = "{{firstName}}"
	PlaceholderLastName     = "{{lastName}}"
	PlaceholderEligibility  = "{{eligibility}}"
	PlaceholderBallotLink   = "{{ballotLink}}"
	PlaceholderRegisterLink = "{{registerLink}}"
)

// TemplateData holds the values substituted into a message body. Fields left
// empty replace their placeholder with an empty string.
type TemplateData struct {
	FirstName    string
	LastName     string
	Eligibility  string
	BallotLink   string
	RegisterLink string
}

// Links are the campaign-wide URLs offered to every recipient.
type Links struct {
	Ballot   string
	Register string
}

// RenderTemplate replaces every occurrence of the five known placeholders.
// Anything else in braces is copied through untouched.
func RenderTemplate(template string, data TemplateData) string {
	r := strings.NewReplacer(
		PlaceholderFirstName, data.FirstName,
		PlaceholderLastName, data.LastName,
		PlaceholderEligibility, data.Eligibility,
		PlaceholderBallotLink, data.BallotLink,
		PlaceholderRegisterLink, data.RegisterLink,
	)
	return r.Replace(template)
}

func TemplateDataFor(m model.Member, links Links) TemplateData {
	return TemplateData{
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Eligibility:  model.EligibilityFor(m.DelinquencyDays).Label(),
		BallotLink:   links.Ballot,
		RegisterLink: links.Register,
	}
}

// SampleTemplateData is what the composer preview shows before a recipient is picked.
func SampleTemplateData(links Links) TemplateData {
	return TemplateData{
		FirstName:    "John",
		LastName:     "Doe",
		Eligibility:  model.Eligible.Label(),
		BallotLink:   links.Ballot,
		RegisterLink: links.Register,
	}
}
