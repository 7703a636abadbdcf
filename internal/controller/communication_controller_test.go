package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/internal/config"
	"github.com/unclebandit/fellowship-comms/internal/controller"
	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
	"github.com/unclebandit/fellowship-comms/internal/handler"
	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/queue"
	"github.com/unclebandit/fellowship-comms/internal/service"
	"github.com/unclebandit/fellowship-comms/internal/sms"
)

var secret = []byte("test-secret")

// --- Mock Repositories ---

type MockMemberDirectory struct {
	members []model.Member
}

func (m *MockMemberDirectory) ListMembers(ctx context.Context, filter model.MemberFilter) ([]model.Member, error) {
	out := []model.Member{}
	for _, mem := range m.members {
		if filter.Search != "" && !strings.Contains(mem.FirstName+" "+mem.LastName, filter.Search) {
			continue
		}
		out = append(out, mem)
	}
	return out, nil
}

type MockStore struct {
	mu    sync.Mutex
	items map[model.ID]*model.Communication
	order []model.ID
}

func (s *MockStore) Create(ctx context.Context, c *model.Communication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = model.ID(fmt.Sprintf("c-%d", len(s.order)+1))
	c.CreatedAt = time.Now()
	cp := *c
	s.items[c.ID] = &cp
	s.order = append(s.order, c.ID)
	return nil
}

func (s *MockStore) Update(ctx context.Context, c *model.Communication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *MockStore) GetByID(ctx context.Context, id model.ID) (*model.Communication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, appErrors.NewCommunicationNotFound(string(id))
	}
	cp := *c
	return &cp, nil
}

func (s *MockStore) Stats(ctx context.Context) (*model.CommunicationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &model.CommunicationStats{Total: len(s.items)}
	for _, c := range s.items {
		if c.Status == model.StatusDraft {
			stats.Draft++
		}
	}
	return stats, nil
}

func (s *MockStore) UpdateStatus(ctx context.Context, id model.ID, status model.CommunicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id].Status = status
	return nil
}

func (s *MockStore) UpdateCounters(ctx context.Context, id model.ID, sent, delivered, failed int) error {
	return nil
}

func (s *MockStore) ListCommunications(ctx context.Context, offset, limit int, status string) ([]*model.Communication, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := []*model.Communication{}
	for i := len(s.order) - 1; i >= 0; i-- {
		c := s.items[s.order[i]]
		if status == "" || string(c.Status) == status {
			all = append(all, c)
		}
	}
	if offset > len(all) {
		return []*model.Communication{}, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

type MockOutbound struct {
	mu   sync.Mutex
	msgs []*model.OutboundMessage
}

func (o *MockOutbound) CreateOutboundMessage(ctx context.Context, msg *model.OutboundMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	msg.ID = model.ID(fmt.Sprintf("o-%d", len(o.msgs)+1))
	cp := *msg
	o.msgs = append(o.msgs, &cp)
	return nil
}

func (o *MockOutbound) GetOutboundMessage(ctx context.Context, id model.ID) (*model.OutboundMessage, error) {
	return nil, nil
}

func (o *MockOutbound) UpdateOutboundMessage(ctx context.Context, msg *model.OutboundMessage) error {
	return nil
}

func (o *MockOutbound) CountByStatus(ctx context.Context, id model.ID) (map[model.OutboundStatus]int, error) {
	return map[model.OutboundStatus]int{}, nil
}

// --- Fixture ---

type fixture struct {
	router http.Handler
	store  *MockStore
	queue  *queue.InMemoryQueue
	jobs   chan []byte
}

func newFixture(t *testing.T, features config.Features) *fixture {
	t.Helper()

	members := []model.Member{
		{ID: "m1", FirstName: "Ann", LastName: "Lee", Phone: "+1555001", Consent: true},
		{ID: "m2", FirstName: "Ben", LastName: "Ode", Phone: "+1555002", Consent: true, DelinquencyDays: 15},
		{ID: "m3", FirstName: "Cy", LastName: "Park", Phone: "+1555003", Consent: true, DelinquencyDays: 95},
	}
	for i := range members {
		members[i].Normalize()
	}

	store := &MockStore{items: map[model.ID]*model.Communication{}}
	directory := &MockMemberDirectory{members: members}
	q := queue.NewInMemoryQueue(nil)
	jobs := make(chan []byte, 10)
	require.NoError(t, q.Subscribe(service.SendTopic, func(body []byte) error {
		jobs <- body
		return nil
	}))

	logger := zap.NewNop()
	campaigns := &service.CampaignService{
		Store:     store,
		Lister:    store,
		Members:   directory,
		UnitPrice: 0.0075,
		Logger:    logger,
	}
	dispatch := &service.DispatchService{
		Communications: store,
		Tracker:        store,
		Outbound:       &MockOutbound{},
		Members:        directory,
		Queue:          q,
		Logger:         logger,
	}

	router := controller.NewRouter(controller.Routes{
		Communications: &controller.CommunicationController{CampaignService: campaigns, DispatchService: dispatch, Logger: logger},
		Members:        &handler.MemberHandler{Members: directory, Logger: logger},
		SMS:            &handler.SMSHandler{Sender: sms.NewMockSender("TEST", 0, logger), Logger: logger},
		Features:       features,
		JWTSecret:      secret,
	})
	return &fixture{router: router, store: store, queue: q, jobs: jobs}
}

func (f *fixture) do(t *testing.T, role model.Role, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if role != model.RoleGuest {
		token, err := handler.SignToken(secret, "tester", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestCreateCommunication(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})

	w := f.do(t, model.RoleAdmin, "POST", "/communications", map[string]any{
		"name":     "Dues reminder",
		"audience": "DELINQUENT_30",
		"message":  "Hi {{firstName}}",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var comm model.Communication
	require.NoError(t, json.NewDecoder(w.Body).Decode(&comm))
	assert.Equal(t, model.ID("c-1"), comm.ID)
	assert.Equal(t, model.StatusDraft, comm.Status)
}

func TestCreateCommunication_ValidationError(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})

	w := f.do(t, model.RoleAdmin, "POST", "/communications", map[string]any{
		"audience": "CUSTOM",
		"message":  "Hi",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "customAudience")
	assert.Empty(t, f.store.items)
}

func TestUpdateCommunication_RefusedAfterSend(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})
	f.store.items["c-9"] = &model.Communication{ID: "c-9", Status: model.StatusSent}

	w := f.do(t, model.RoleAdmin, "PATCH", "/communications/c-9", map[string]any{"audience": "ALL", "message": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetCommunication_NotFound(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})

	w := f.do(t, model.RoleAdmin, "GET", "/communications/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEstimateEndpoint(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})

	w := f.do(t, model.RoleAdmin, "POST", "/communications/estimate", map[string]any{
		"audience": "ALL",
		"message":  strings.Repeat("x", 161),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Estimate service.CostEstimate `json:"estimate"`
		Display  string               `json:"display"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 3, res.Estimate.Recipients)
	assert.Equal(t, 2, res.Estimate.Segments)
	assert.Equal(t, "$0.05", res.Display)
}

func TestEstimateEndpoint_UnknownAudience(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})

	w := f.do(t, model.RoleAdmin, "POST", "/communications/estimate", map[string]any{"audience": "EVERYONE", "message": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewEndpoint(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})

	w := f.do(t, model.RoleAdmin, "POST", "/communications/preview", map[string]any{
		"message":  "Hi {{firstName}}, you are {{eligibility}}",
		"memberId": "m3",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, "Hi Cy, you are Not Eligible", res["renderedMessage"])
}

func TestSendCommunication(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})
	f.store.items["c-1"] = &model.Communication{ID: "c-1", Audience: model.AudienceDelinquent30, Message: "Hi {{firstName}}", Status: model.StatusDraft}
	f.store.order = append(f.store.order, "c-1")

	w := f.do(t, model.RoleAdmin, "POST", "/communications/c-1/send", nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	f.queue.Wait()

	var res service.SendResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 1, res.MessagesQueued)
	assert.JSONEq(t, `{"outbound_message_id":"o-1"}`, string(<-f.jobs))
	assert.Equal(t, model.StatusSending, f.store.items["c-1"].Status)
}

func TestListCommunicationsPagination(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})
	total := 25
	for i := 0; i < total; i++ {
		w := f.do(t, model.RoleAdmin, "POST", "/communications", map[string]any{"audience": "ALL", "message": "x"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	seen := map[model.ID]bool{}
	for page := 1; page <= 3; page++ {
		w := f.do(t, model.RoleAdmin, "GET", fmt.Sprintf("/communications?page=%d&page_size=10&status=DRAFT", page), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Data       []model.Communication `json:"data"`
			Pagination struct {
				Page       int `json:"page"`
				TotalCount int `json:"total_count"`
			} `json:"pagination"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
		assert.Equal(t, page, res.Pagination.Page)
		assert.Equal(t, total, res.Pagination.TotalCount)
		for _, c := range res.Data {
			assert.False(t, seen[c.ID], "duplicate %s", c.ID)
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, total)
}

func TestStatsEndpoint(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})
	f.do(t, model.RoleAdmin, "POST", "/communications", map[string]any{"audience": "ALL", "message": "x"})

	w := f.do(t, model.RoleAdmin, "GET", "/communications/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":1,"draft":1,"scheduled":0,"sent":0,"failed":0}`, w.Body.String())
}

func TestMembersEndpoint(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})

	w := f.do(t, model.RoleMember, "GET", "/members?filter=Ben", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Members []model.Member `json:"members"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	require.Len(t, res.Members, 1)
	assert.Equal(t, model.ID("m2"), res.Members[0].ID)
}

func TestTestSMSEndpoint(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})

	w := f.do(t, model.RoleAdmin, "POST", "/sms/test", map[string]any{"to": "+1555001", "message": "ping"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Result struct {
			SID string `json:"sid"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.True(t, strings.HasPrefix(res.Result.SID, "SM"))
}

func TestAccessControl(t *testing.T) {
	f := newFixture(t, config.Features{SMS: true})

	assert.Equal(t, http.StatusUnauthorized, f.do(t, model.RoleGuest, "GET", "/members", nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, model.RoleMember, "GET", "/communications/stats", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, model.RoleAdmin, "GET", "/members", nil).Code)

	req := httptest.NewRequest("GET", "/members", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSMSFeatureOff(t *testing.T) {
	f := newFixture(t, config.Features{SMS: false})

	assert.Equal(t, http.StatusNotFound, f.do(t, model.RoleAdmin, "GET", "/communications/stats", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, model.RoleAdmin, "POST", "/sms/test", map[string]any{"to": "+1", "message": "x"}).Code)
	assert.Equal(t, http.StatusOK, f.do(t, model.RoleAdmin, "GET", "/members", nil).Code)
}
