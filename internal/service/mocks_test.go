package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
	"github.com/unclebandit/fellowship-comms/internal/model"
)

// MockMemberDirectory serves a fixed roster.
type MockMemberDirectory struct {
	Members []model.Member
	Err     error
}

func (m *MockMemberDirectory) ListMembers(ctx context.Context, filter model.MemberFilter) ([]model.Member, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.Member, len(m.Members))
	copy(out, m.Members)
	return out, nil
}

// MockMemberLookup adds direct lookups to MockMemberDirectory.
type MockMemberLookup struct {
	MockMemberDirectory
	Lookups int
}

func (m *MockMemberLookup) GetByID(ctx context.Context, id model.ID) (*model.Member, error) {
	m.Lookups++
	for _, mem := range m.Members {
		if mem.ID == id {
			cp := mem
			return &cp, nil
		}
	}
	return nil, nil
}

// MockCommunicationStore keeps communications in memory.
type MockCommunicationStore struct {
	mu      sync.Mutex
	items   map[model.ID]*model.Communication
	nextID  int
	Creates int
	Updates int
	Err     error
}

func NewMockCommunicationStore(seed ...*model.Communication) *MockCommunicationStore {
	s := &MockCommunicationStore{items: map[model.ID]*model.Communication{}}
	for _, c := range seed {
		cp := *c
		s.items[c.ID] = &cp
	}
	return s
}

func (s *MockCommunicationStore) Create(ctx context.Context, c *model.Communication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Creates++
	if s.Err != nil {
		return s.Err
	}
	s.nextID++
	c.ID = model.ID(fmt.Sprintf("c-%d", s.nextID))
	c.CreatedAt = time.Now()
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *MockCommunicationStore) Update(ctx context.Context, c *model.Communication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Updates++
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[c.ID]; !ok {
		return appErrors.NewCommunicationNotFound(string(c.ID))
	}
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *MockCommunicationStore) GetByID(ctx context.Context, id model.ID) (*model.Communication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, appErrors.NewCommunicationNotFound(string(id))
	}
	cp := *c
	return &cp, nil
}

func (s *MockCommunicationStore) Stats(ctx context.Context) (*model.CommunicationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &model.CommunicationStats{Total: len(s.items)}
	for _, c := range s.items {
		switch c.Status {
		case model.StatusDraft:
			stats.Draft++
		case model.StatusScheduled:
			stats.Scheduled++
		case model.StatusSent:
			stats.Sent++
		case model.StatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

func (s *MockCommunicationStore) UpdateStatus(ctx context.Context, id model.ID, status model.CommunicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id].Status = status
	return nil
}

func (s *MockCommunicationStore) UpdateCounters(ctx context.Context, id model.ID, sent, delivered, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.items[id]
	c.SentCount, c.DeliveredCount, c.FailedCount = sent, delivered, failed
	return nil
}

func (s *MockCommunicationStore) ListCommunications(ctx context.Context, offset, limit int, status string) ([]*model.Communication, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := []*model.Communication{}
	for _, c := range s.items {
		if status == "" || string(c.Status) == status {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset >= len(all) {
		return []*model.Communication{}, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

// MockOutboundStore keeps outbound messages in memory.
type MockOutboundStore struct {
	mu       sync.Mutex
	messages map[model.ID]*model.OutboundMessage
	order    []model.ID
	FailFor  model.ID
}

func NewMockOutboundStore() *MockOutboundStore {
	return &MockOutboundStore{messages: map[model.ID]*model.OutboundMessage{}}
}

func (s *MockOutboundStore) CreateOutboundMessage(ctx context.Context, msg *model.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.MemberID == s.FailFor {
		return fmt.Errorf("insert failed")
	}
	msg.ID = model.ID(fmt.Sprintf("m-%d", len(s.order)+1))
	cp := *msg
	s.messages[msg.ID] = &cp
	s.order = append(s.order, msg.ID)
	return nil
}

func (s *MockOutboundStore) GetOutboundMessage(ctx context.Context, id model.ID) (*model.OutboundMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (s *MockOutboundStore) UpdateOutboundMessage(ctx context.Context, msg *model.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *msg
	s.messages[msg.ID] = &cp
	return nil
}

func (s *MockOutboundStore) CountByStatus(ctx context.Context, communicationID model.ID) (map[model.OutboundStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[model.OutboundStatus]int{}
	for _, msg := range s.messages {
		if msg.CommunicationID == communicationID {
			counts[msg.Status]++
		}
	}
	return counts, nil
}

func (s *MockOutboundStore) All() []model.OutboundMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.OutboundMessage{}
	for _, id := range s.order {
		out = append(out, *s.messages[id])
	}
	return out
}

// roster returns members with the given overdue day counts, IDs m0..mN.
func roster(days ...int) []model.Member {
	out := make([]model.Member, len(days))
	for i, d := range days {
		m := model.Member{
			ID:              model.ID(fmt.Sprintf("m%d", i)),
			FirstName:       fmt.Sprintf("First%d", i),
			LastName:        fmt.Sprintf("Last%d", i),
			Phone:           fmt.Sprintf("+1555010%d", i),
			DelinquencyDays: d,
			Consent:         true,
		}
		m.Normalize()
		out[i] = m
	}
	return out
}

func ids(members []model.Member) []model.ID {
	out := make([]model.ID, len(members))
	for i, m := range members {
		out[i] = m.ID
	}
	return out
}
