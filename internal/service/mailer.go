package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// IngestNotification is the summary mailed to operations after an ingestion.
type IngestNotification struct {
	Uploader    string    `json:"uploader"`
	CompletedAt time.Time `json:"completedAt"`
	RecordCount int       `json:"recordCount"`
	Added       int       `json:"added"`
	Removed     int       `json:"removed"`
	Updated     int       `json:"updated"`
}

// Notifier delivers ingestion summaries. Failures are the caller's to log and
// swallow; a lost mail never rolls back an ingestion.
type Notifier interface {
	SendIngestSummary(ctx context.Context, n IngestNotification) error
}

// MailRelayClient posts summaries to the operations mail-relay HTTP API.
type MailRelayClient struct {
	httpClient *resty.Client
	opsEmail   string
	logger     *zap.Logger
}

func NewMailRelayClient(baseURL, apiKey, opsEmail string, logger *zap.Logger) *MailRelayClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}

	return &MailRelayClient{
		httpClient: client,
		opsEmail:   opsEmail,
		logger:     logger,
	}
}

type mailRelayRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (c *MailRelayClient) SendIngestSummary(ctx context.Context, n IngestNotification) error {
	body := fmt.Sprintf(
		"Roster ingestion completed.\nUploader: %s\nCompleted: %s\nCurrent records: %d\nAdded: %d, Removed: %d, Updated: %d\n",
		n.Uploader,
		n.CompletedAt.Format(time.RFC3339),
		n.RecordCount,
		n.Added, n.Removed, n.Updated,
	)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(mailRelayRequest{
			To:      c.opsEmail,
			Subject: "Roster ingestion summary",
			Body:    body,
		}).
		Post("/send")
	if err != nil {
		return fmt.Errorf("mail relay request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail relay returned %d: %s", resp.StatusCode(), resp.String())
	}

	c.logger.Info("ingestion summary mailed",
		zap.String("to", c.opsEmail),
		zap.Int("record_count", n.RecordCount),
	)
	return nil
}

// NopNotifier is used when no mail relay is configured.
type NopNotifier struct{}

func (NopNotifier) SendIngestSummary(context.Context, IngestNotification) error { return nil }
