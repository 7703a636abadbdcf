// internal/service/campaign_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
	"github.com/unclebandit/fellowship-comms/internal/model"
)

// CampaignDraft is what the composer submits.
type CampaignDraft struct {
	ID             model.ID               `json:"id,omitempty"`
	Name           string                 `json:"name" validate:"max=200"`
	Audience       model.AudienceSelector `json:"audience" validate:"required"`
	CustomAudience []model.ID             `json:"customAudience,omitempty"`
	Message        string                 `json:"message" validate:"required,max=1600"`
	ScheduledAt    *time.Time             `json:"scheduledAt,omitempty"`
}

type CampaignService struct {
	Store     CommunicationStore
	Lister    CommunicationLister
	Members   MemberDirectory
	Links     Links
	UnitPrice float64
	Logger    *zap.Logger
	// Now is replaceable in tests.
	Now func() time.Time
}

var draftValidator *validator.Validate

func init() {
	draftValidator = validator.New()
	draftValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

func (s *CampaignService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CampaignService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

func (s *CampaignService) unitPrice() float64 {
	if s.UnitPrice > 0 {
		return s.UnitPrice
	}
	return DefaultUnitPrice
}

// ValidateDraft runs every client-side check. It never touches the store.
func (s *CampaignService) ValidateDraft(d CampaignDraft) error {
	if d.Audience != "" && !d.Audience.Valid() {
		return appErrors.NewValidation("audience", fmt.Sprintf("%q is not a recognised audience", d.Audience))
	}

	if err := draftValidator.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return appErrors.NewValidation(verrs[0].Field(), describeTag(verrs[0]))
		}
		return appErrors.NewValidation("", err.Error())
	}

	if d.Audience == model.AudienceCustom && len(d.CustomAudience) == 0 {
		return appErrors.NewValidation("customAudience", "must list at least one member for a custom audience")
	}
	if strings.TrimSpace(d.Message) == "" {
		return appErrors.NewValidation("message", "must not be empty")
	}
	if d.ScheduledAt != nil && !d.ScheduledAt.After(s.now()) {
		return appErrors.NewValidation("scheduledAt", "must be in the future")
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "failed " + fe.Tag()
}

// Submit validates a draft and hands it to the store. A draft carrying an ID
// updates the existing communication, which must still be editable.
// Submitting twice creates two communications.
func (s *CampaignService) Submit(ctx context.Context, draft CampaignDraft) (*model.Communication, error) {
	if err := s.ValidateDraft(draft); err != nil {
		return nil, err
	}

	status := model.StatusDraft
	if draft.ScheduledAt != nil {
		status = model.StatusScheduled
	}

	customAudience := draft.CustomAudience
	if draft.Audience != model.AudienceCustom {
		customAudience = nil
	}

	if draft.ID == "" {
		c := &model.Communication{
			Name:           draft.Name,
			Audience:       draft.Audience,
			CustomAudience: customAudience,
			Message:        draft.Message,
			Status:         status,
			ScheduledAt:    draft.ScheduledAt,
		}
		if err := s.Store.Create(ctx, c); err != nil {
			s.logger().Warn("failed to create communication", zap.Error(err))
			return nil, err
		}
		s.logger().Info("communication created", zap.String("id", string(c.ID)), zap.String("status", string(c.Status)))
		return c, nil
	}

	existing, err := s.Store.GetByID(ctx, draft.ID)
	if err != nil {
		return nil, err
	}
	if !existing.Editable() {
		return nil, appErrors.NewImmutableCommunication(string(existing.ID), string(existing.Status))
	}

	existing.Name = draft.Name
	existing.Audience = draft.Audience
	existing.CustomAudience = customAudience
	existing.Message = draft.Message
	existing.ScheduledAt = draft.ScheduledAt
	existing.Status = status

	if err := s.Store.Update(ctx, existing); err != nil {
		s.logger().Warn("failed to update communication", zap.String("id", string(draft.ID)), zap.Error(err))
		return nil, err
	}
	s.logger().Info("communication updated", zap.String("id", string(existing.ID)), zap.String("status", string(existing.Status)))
	return existing, nil
}

// Recipients resolves an audience against the member directory and keeps
// only members who consented to SMS and have a phone number.
func (s *CampaignService) Recipients(ctx context.Context, selector model.AudienceSelector, customIDs []model.ID) ([]model.Member, error) {
	members, err := s.Members.ListMembers(ctx, model.MemberFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	return ResolveRecipients(selector, members, customIDs)
}

func ResolveRecipients(selector model.AudienceSelector, members []model.Member, customIDs []model.ID) ([]model.Member, error) {
	resolved, err := Resolve(selector, members, customIDs)
	if err != nil {
		return nil, err
	}
	return filterMembers(resolved, model.Member.Reachable), nil
}

// Estimate prices sending message to the given audience.
func (s *CampaignService) Estimate(ctx context.Context, selector model.AudienceSelector, customIDs []model.ID, message string) (CostEstimate, error) {
	recipients, err := s.Recipients(ctx, selector, customIDs)
	if err != nil {
		return CostEstimate{}, err
	}
	return EstimateCost(MessageLength(message), len(recipients), s.unitPrice()), nil
}

// Preview renders message for one member, or with sample values when
// memberID is empty.
func (s *CampaignService) Preview(ctx context.Context, message string, memberID model.ID) (string, error) {
	if memberID == "" {
		return RenderTemplate(message, SampleTemplateData(s.Links)), nil
	}

	member, err := s.findMember(ctx, memberID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", appErrors.NewValidation("memberId", "does not match a member")
	}
	return RenderTemplate(message, TemplateDataFor(*member, s.Links)), nil
}

// findMember prefers a direct lookup and falls back to scanning the directory.
func (s *CampaignService) findMember(ctx context.Context, id model.ID) (*model.Member, error) {
	if lookup, ok := s.Members.(MemberLookup); ok {
		m, err := lookup.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load member: %w", err)
		}
		if m != nil {
			m.Normalize()
		}
		return m, nil
	}

	members, err := s.Members.ListMembers(ctx, model.MemberFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	found, _ := Resolve(model.AudienceCustom, members, []model.ID{id})
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (s *CampaignService) GetCommunication(ctx context.Context, id model.ID) (*model.Communication, error) {
	return s.Store.GetByID(ctx, id)
}

func (s *CampaignService) Stats(ctx context.Context) (*model.CommunicationStats, error) {
	return s.Store.Stats(ctx)
}

// ListCommunications fetches communications with pagination
func (s *CampaignService) ListCommunications(ctx context.Context, page, pageSize int, status string) ([]model.Communication, map[string]int, error) {
	if s.Lister == nil {
		return nil, nil, fmt.Errorf("listing is not supported by this store")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.Lister.ListCommunications(ctx, offset, pageSize, status)
	if err != nil {
		return nil, nil, err
	}

	communications := make([]model.Communication, len(ptrs))
	for i, c := range ptrs {
		communications[i] = *c
	}

	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": (total + pageSize - 1) / pageSize,
	}
	return communications, pagination, nil
}
