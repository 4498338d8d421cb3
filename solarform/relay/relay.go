// Package relay delivers a finished lead to a formsubmit-style relay endpoint.
// Every attempt is a single multipart POST; retrying is left to the user.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/solarutah/solarform/solarform/wizard"
)

const (
	DefaultSubject      = "New Solar Quote Request"
	DefaultTemplate     = "table"
	DefaultAutoResponse = "Thank you for your interest in solar energy! We have received your request and will contact you shortly."
	defaultTimeout      = 15 * time.Second
	maxBodyLog          = 512
	maxCleanPasses      = 8
)

// Options configure a Client.
type Options struct {
	// Endpoint is the full URL the submission is posted to.
	Endpoint     string
	Subject      string
	Template     string
	AutoResponse string
	// NextURL is sent as _next; the relay redirects browsers there.
	NextURL string
	// Timeout bounds the whole POST including reading the response.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client posts submissions to the relay.
type Client struct {
	endpoint     string
	subject      string
	template     string
	autoResponse string
	nextURL      string
	httpClient   *http.Client
	logger       *slog.Logger
	policy       *bluemonday.Policy
}

// New returns a Client. The endpoint is required; everything else has a
// default.
func New(opts Options) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("relay: endpoint is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("relay: invalid endpoint: %w", err)
	}
	c := &Client{
		endpoint:     endpoint,
		subject:      opts.Subject,
		template:     opts.Template,
		autoResponse: opts.AutoResponse,
		nextURL:      opts.NextURL,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		policy:       bluemonday.StrictPolicy(),
	}
	if c.subject == "" {
		c.subject = DefaultSubject
	}
	if c.template == "" {
		c.template = DefaultTemplate
	}
	if c.autoResponse == "" {
		c.autoResponse = DefaultAutoResponse
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Submission is what the wizard hands over once every step validated.
type Submission struct {
	Variant wizard.Variant
	Draft   wizard.Draft
}

// Response is the relay's JSON answer to a successful POST.
type Response struct {
	Success any    `json:"success"`
	Message string `json:"message"`
}

// Error describes a failed POST: a transport error, a non-2xx status or a
// body that isn't JSON.
type Error struct {
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("relay: status %d: %v", e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("relay: %v", e.Err)
	}
	return fmt.Sprintf("relay: status %d: %s", e.Status, e.Body)
}

func (e *Error) Unwrap() error { return e.Err }

// clean strips markup from user supplied free text. The relay renders the
// values itself, so entities are decoded, and the policy runs again until the
// decoded text is stable. Markup typed as entities can't survive that way.
func (c *Client) clean(s string) string {
	for i := 0; i < maxCleanPasses; i++ {
		next := html.UnescapeString(c.policy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	// still changing: keep the escaped form
	return strings.TrimSpace(c.policy.Sanitize(s))
}

// Payload builds the form fields of a submission: the draft values, the
// consent identifiers and summary, and the relay's control fields.
func (c *Client) Payload(sub Submission) url.Values {
	d := sub.Draft
	v := url.Values{}
	v.Set("name", c.clean(d.Name))
	v.Set("email", strings.TrimSpace(d.Email))
	if sub.Variant.CollectAddress {
		v.Set("address", c.clean(d.Address))
	}
	v.Set("phone", strings.TrimSpace(d.Phone))
	v.Set("zip", strings.TrimSpace(d.Zip))
	v.Set("roofShade", d.RoofShade)
	v.Set("installationTimeframe", d.InstallationTimeframe)
	v.Set("homeowner", d.Homeowner)
	v.Set("electricBill", d.ElectricBill)
	for _, id := range d.Consent {
		v.Add("consentedProviders", id)
	}
	v.Set("userConsent", d.ConsentSummary)

	v.Set("_captcha", "false")
	v.Set("_subject", c.subject)
	v.Set("_template", c.template)
	v.Set("_replyto", strings.TrimSpace(d.Email))
	v.Set("_autoresponse", c.autoResponse)
	if c.nextURL != "" {
		v.Set("_next", c.nextURL)
	}
	v.Set("_honey", "")
	return v
}

// Submit relays a submission.
func (c *Client) Submit(ctx context.Context, sub Submission) (*Response, error) {
	return c.Post(ctx, c.Payload(sub))
}

// Post sends values as multipart/form-data and decodes the JSON reply.
func (c *Client) Post(ctx context.Context, values url.Values) (*Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, val := range values[k] {
			if err := writer.WriteField(k, val); err != nil {
				return nil, &Error{Err: fmt.Errorf("write field %q: %w", k, err)}
			}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Err: fmt.Errorf("close multipart writer: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("relay request failed", "endpoint", c.endpoint, "error", err)
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	c.logger.Debug("relay responded", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Body: truncate(string(data))}
	}
	out := new(Response)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, &Error{Status: resp.StatusCode, Body: truncate(string(data)), Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}

func truncate(s string) string {
	if len(s) > maxBodyLog {
		return s[:maxBodyLog] + "..."
	}
	return s
}
