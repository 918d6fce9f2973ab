// Package relay submits flattened leads to an external form relay over HTTP.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"complexity-quiz-service/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	defaultSubject = "Project complexity quiz results"
)

// Options configures a Client.
type Options struct {
	Endpoint      string
	Timeout       time.Duration
	FallbackEmail string
	Subject       string
}

// Client posts lead forms to the relay endpoint. It submits exactly once per call.
type Client struct {
	endpoint      string
	fallbackEmail string
	subject       string
	http          *http.Client
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	subject := opts.Subject
	if subject == "" {
		subject = defaultSubject
	}
	return &Client{
		endpoint:      strings.TrimSpace(opts.Endpoint),
		fallbackEmail: strings.TrimSpace(opts.FallbackEmail),
		subject:       subject,
		http:          &http.Client{Timeout: timeout},
	}
}

// Submit sends form to the relay. A 2xx response is a success; any other
// response or transport error degrades to a mailto fallback when a fallback
// address is configured, otherwise it is a failure.
func (c *Client) Submit(ctx context.Context, form domain.LeadForm) domain.SubmitResult {
	err := c.post(ctx, form)
	if err == nil {
		return domain.SubmitResult{Outcome: domain.OutcomeSuccess, Message: "submitted"}
	}
	if c.fallbackEmail != "" {
		return domain.SubmitResult{
			Outcome:   domain.OutcomeFallback,
			Message:   err.Error(),
			MailtoURL: MailtoURL(c.fallbackEmail, c.subject, form),
		}
	}
	return domain.SubmitResult{Outcome: domain.OutcomeFailure, Message: err.Error()}
}

func (c *Client) post(ctx context.Context, form domain.LeadForm) error {
	if c.endpoint == "" {
		return fmt.Errorf("relay endpoint not configured")
	}
	body, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("marshal form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post form: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay responded %d", resp.StatusCode)
	}
	return nil
}

// MailtoURL renders form as a pre-filled email to address.
func MailtoURL(address, subject string, form domain.LeadForm) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var body strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&body, "%s: %s\n", k, form[k])
	}
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		address, mailtoEscape(subject), mailtoEscape(body.String()))
}

// mailtoEscape query-escapes a header value; mail clients do not decode '+' as a space.
func mailtoEscape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
