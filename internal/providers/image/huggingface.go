package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/storage"
)

// ErrMissingAPIKey indicates the client was configured without credentials.
var ErrMissingAPIKey = errors.New("huggingface: api key is required")

const (
	// Base timeout for short prompts; longer prompts get extra headroom.
	defaultBaseTimeout = 30 * time.Second
	defaultMaxTimeout  = 120 * time.Second
	// Extra time granted per prompt character.
	defaultPerChar = 50 * time.Millisecond

	// Prompts longer than this are retried once, truncated to 70%, when the
	// upstream times out or reports capacity exhaustion.
	retryPromptThreshold = 400
	retryShrinkFactor    = 0.7

	maxResponseBytes = 16 << 20
)

// HFOptions configures the Hugging Face inference client.
type HFOptions struct {
	APIURL      string
	APIKey      string
	BaseTimeout time.Duration
	MaxTimeout  time.Duration
	PerChar     time.Duration
	HTTPClient  *http.Client
	Logger      *zerolog.Logger

	// Optional: when a store is configured, raw image bytes are persisted
	// and the returned locator points at the served storage path instead of
	// carrying an inline data URL.
	Store          *storage.FileStore
	StorageBaseURL string
}

// HFClient calls a Hugging Face text-to-image inference endpoint.
type HFClient struct {
	apiURL      string
	apiKey      string
	baseTimeout time.Duration
	maxTimeout  time.Duration
	perChar     time.Duration
	httpClient  *http.Client
	log         zerolog.Logger
	store       *storage.FileStore
	storageBase string
}

type inferenceRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

// NewHFClient constructs a client with sane defaults.
func NewHFClient(opts HFOptions) *HFClient {
	c := &HFClient{
		apiURL:      strings.TrimSpace(opts.APIURL),
		apiKey:      strings.TrimSpace(opts.APIKey),
		baseTimeout: opts.BaseTimeout,
		maxTimeout:  opts.MaxTimeout,
		perChar:     opts.PerChar,
		httpClient:  opts.HTTPClient,
		store:       opts.Store,
		storageBase: strings.TrimRight(opts.StorageBaseURL, "/"),
	}
	if c.baseTimeout <= 0 {
		c.baseTimeout = defaultBaseTimeout
	}
	if c.maxTimeout <= 0 {
		c.maxTimeout = defaultMaxTimeout
	}
	if c.perChar <= 0 {
		c.perChar = defaultPerChar
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if opts.Logger != nil {
		c.log = *opts.Logger
	} else {
		c.log = zerolog.New(io.Discard)
	}
	return c
}

// HasCredentials reports whether the client can reach the real API.
func (c *HFClient) HasCredentials() bool {
	return c != nil && c.apiURL != "" && c.apiKey != ""
}

// Generate fulfils the Generator interface.
func (c *HFClient) Generate(ctx context.Context, req Request) (*Asset, error) {
	return c.generate(ctx, req.Prompt, true)
}

func (c *HFClient) generate(ctx context.Context, prompt string, allowRetry bool) (*Asset, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}

	timeout := c.timeoutFor(prompt)
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(inferenceRequest{
		Inputs:  prompt,
		Options: inferenceOptions{WaitForModel: true, UseCache: true},
	})
	if err != nil {
		return nil, fmt.Errorf("huggingface: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("huggingface: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Debug().Int("prompt_len", len(prompt)).Dur("timeout", timeout).Msg("huggingface request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) && allowRetry && len(prompt) > retryPromptThreshold {
			c.log.Warn().Int("prompt_len", len(prompt)).Msg("timeout on long prompt, retrying with shorter version")
			return c.generate(ctx, shrinkPrompt(prompt), false)
		}
		return nil, fmt.Errorf("huggingface: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("huggingface: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusServiceUnavailable && allowRetry && len(prompt) > retryPromptThreshold {
			c.log.Warn().Int("status", resp.StatusCode).Msg("capacity error on long prompt, retrying with shorter version")
			return c.generate(ctx, shrinkPrompt(prompt), false)
		}
		return nil, fmt.Errorf("huggingface: status %d: %s", resp.StatusCode, excerpt(data))
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("huggingface: unexpected content type %q", contentType)
	}

	if c.store != nil {
		key := fmt.Sprintf("generated/%s%s", uuid.NewString(), extensionFor(contentType))
		cleanKey, err := c.store.Write(ctx, key, data)
		if err != nil {
			return nil, fmt.Errorf("huggingface: persist image: %w", err)
		}
		return &Asset{URL: c.storageBase + "/" + cleanKey, MIME: contentType}, nil
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return &Asset{URL: "data:" + contentType + ";base64," + encoded, MIME: contentType}, nil
}

// timeoutFor scales the request timeout with prompt length, capped.
func (c *HFClient) timeoutFor(prompt string) time.Duration {
	timeout := c.baseTimeout + time.Duration(len(prompt))*c.perChar
	if timeout > c.maxTimeout {
		timeout = c.maxTimeout
	}
	return timeout
}

func shrinkPrompt(prompt string) string {
	runes := []rune(prompt)
	return string(runes[:int(float64(len(runes))*retryShrinkFactor)])
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func excerpt(data []byte) string {
	const max = 200
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		s = s[:max]
	}
	return s
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".img"
	}
}

var _ Generator = (*HFClient)(nil)
