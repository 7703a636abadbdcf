package apiclient

import (
	"context"
	"net/url"

	"github.com/unclebandit/fellowship-comms/internal/model"
)

// ListMembers calls GET members?filter=...
func (c *Client) ListMembers(ctx context.Context, filter model.MemberFilter) ([]model.Member, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("filter", filter.Search)
	}
	if filter.PaymentStatus != "" {
		q.Set("paymentStatus", string(filter.PaymentStatus))
	}
	if filter.ConsentOnly {
		q.Set("consent", "true")
	}

	var resp struct {
		Members []wireMember `json:"members"`
	}
	if err := c.do(ctx, "GET", "members", q, nil, &resp); err != nil {
		return nil, err
	}

	members := make([]model.Member, len(resp.Members))
	for i, w := range resp.Members {
		members[i] = w.toModel()
	}
	return members, nil
}

func (c *Client) Stats(ctx context.Context) (*model.CommunicationStats, error) {
	var stats model.CommunicationStats
	if err := c.do(ctx, "GET", "communications/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) GetByID(ctx context.Context, id model.ID) (*model.Communication, error) {
	var w wireCommunication
	if err := c.do(ctx, "GET", "communications/"+url.PathEscape(string(id)), nil, nil, &w); err != nil {
		return nil, err
	}
	return w.toModel(), nil
}

// Create calls POST communications and replaces *comm with the stored record.
func (c *Client) Create(ctx context.Context, comm *model.Communication) error {
	var w wireCommunication
	if err := c.do(ctx, "POST", "communications", nil, bodyFor(comm), &w); err != nil {
		return err
	}
	*comm = *w.toModel()
	return nil
}

// Update calls PATCH communications/{id} and replaces *comm with the stored record.
func (c *Client) Update(ctx context.Context, comm *model.Communication) error {
	var w wireCommunication
	if err := c.do(ctx, "PATCH", "communications/"+url.PathEscape(string(comm.ID)), nil, bodyFor(comm), &w); err != nil {
		return err
	}
	*comm = *w.toModel()
	return nil
}

type TestSMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendTestSMS calls POST sms/test and returns the provider SID.
func (c *Client) SendTestSMS(ctx context.Context, to, message string) (string, error) {
	var resp struct {
		Result struct {
			SID string `json:"sid"`
		} `json:"result"`
	}
	if err := c.do(ctx, "POST", "sms/test", nil, TestSMSRequest{To: to, Message: message}, &resp); err != nil {
		return "", err
	}
	return resp.Result.SID, nil
}
