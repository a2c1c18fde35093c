package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/chat"
	"github.com/spetersoncode/thinkact/provider/anthropic"
	"github.com/spetersoncode/thinkact/provider/google"
	"github.com/spetersoncode/thinkact/provider/openai"
	"github.com/spetersoncode/thinkact/retry"
)

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Config holds configuration for creating a client.
type Config struct {
	// Provider selects the backend. Required.
	Provider ai.Provider

	// APIKeys contains authentication keys for each provider.
	APIKeys APIKeys

	// Model is the default model. Empty uses the provider's default.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// Retry configures retry behavior for transient errors.
	// If nil, uses retry.DefaultConfig().
	Retry *retry.Config

	// Events is an optional channel for receiving request events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event

	// Logger receives retry warnings. Default is a no-op logger.
	Logger *zerolog.Logger
}

// ErrMissingAPIKey is returned when the selected provider has no API key.
type ErrMissingAPIKey struct {
	Provider ai.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrUnsupportedProvider is returned for a provider name this package does
// not know.
type ErrUnsupportedProvider struct {
	Provider ai.Provider
}

func (e *ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("unsupported provider: %q", string(e.Provider))
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// WithBackend replaces the provider client, for proxies and tests. Retry and
// events still apply.
func WithBackend(b chat.Client) ClientOption {
	return func(c *Client) {
		c.backend = b
	}
}

// Client is the model gateway used by agents. It resolves the configured
// provider lazily and retries transient failures. It is safe for concurrent
// use.
type Client struct {
	cfg             Config
	retryConfig     retry.Config
	logger          zerolog.Logger
	defaultChatOpts []ai.Option

	mu      sync.Mutex
	backend chat.Client
}

// New creates a client with the given configuration. Provider SDK clients
// are created on first use.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	switch cfg.Provider {
	case ai.ProviderAnthropic, ai.ProviderOpenAI, ai.ProviderGoogle:
	default:
		return nil, &ErrUnsupportedProvider{Provider: cfg.Provider}
	}

	retryConfig := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryConfig = *cfg.Retry
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Client{
		cfg:         cfg,
		retryConfig: retryConfig,
		logger:      logger.With().Str("provider", cfg.Provider.String()).Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.backend == nil && c.apiKey() == "" {
		return nil, &ErrMissingAPIKey{Provider: cfg.Provider}
	}
	return c, nil
}

// Provider returns the configured provider.
func (c *Client) Provider() ai.Provider { return c.cfg.Provider }

func (c *Client) apiKey() string {
	switch c.cfg.Provider {
	case ai.ProviderAnthropic:
		return c.cfg.APIKeys.Anthropic
	case ai.ProviderOpenAI:
		return c.cfg.APIKeys.OpenAI
	case ai.ProviderGoogle:
		return c.cfg.APIKeys.Google
	}
	return ""
}

// getBackend returns the provider client, initializing it if needed.
func (c *Client) getBackend(ctx context.Context) (chat.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, nil
	}

	key := c.apiKey()
	switch c.cfg.Provider {
	case ai.ProviderAnthropic:
		var opts []anthropic.ClientOption
		if c.cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(c.cfg.Model))
		}
		if c.cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(c.cfg.BaseURL))
		}
		c.backend = anthropic.New(key, opts...)
	case ai.ProviderOpenAI:
		var opts []openai.ClientOption
		if c.cfg.Model != "" {
			opts = append(opts, openai.WithModel(c.cfg.Model))
		}
		if c.cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(c.cfg.BaseURL))
		}
		c.backend = openai.New(key, opts...)
	case ai.ProviderGoogle:
		var opts []google.ClientOption
		if c.cfg.Model != "" {
			opts = append(opts, google.WithModel(c.cfg.Model))
		}
		if c.cfg.BaseURL != "" {
			opts = append(opts, google.WithBaseURL(c.cfg.BaseURL))
		}
		gc, err := google.New(ctx, key, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google client: %w", err)
		}
		c.backend = gc
	}
	return c.backend, nil
}

// Chat sends a conversation and returns the model's next turn.
// Automatically retries on transient errors according to the client's retry
// configuration.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}

	// Prepend default options so per-request options override them
	all := make([]ai.Option, 0, len(c.defaultChatOpts)+len(opts))
	all = append(all, c.defaultChatOpts...)
	all = append(all, opts...)
	model := ai.ApplyOptions(all...).Model
	if model == "" {
		model = c.cfg.Model
	}

	start := time.Now()
	c.emit(Event{Type: EventRequestStart, Model: model})

	retryConfig := c.retryConfig
	retryConfig.OnRetry = func(a retry.Attempt) {
		c.logger.Warn().
			Err(a.Err).
			Int("attempt", a.Number).
			Int("max_attempts", a.MaxAttempts).
			Dur("delay", a.Delay).
			Msg("retrying model call")
		attempt := a
		c.emit(Event{Type: EventRetry, Model: model, Error: a.Err, Attempt: &attempt})
		if c.retryConfig.OnRetry != nil {
			c.retryConfig.OnRetry(a)
		}
	}

	resp, err := retry.Do(ctx, retryConfig, func() (*ai.Response, error) {
		return backend.Chat(ctx, messages, all...)
	})
	if err != nil {
		c.emit(Event{Type: EventRequestError, Model: model, Duration: time.Since(start), Error: err})
		return nil, err
	}

	var usage *ai.Usage
	if resp != nil {
		usage = &resp.Usage
	}
	c.emit(Event{Type: EventRequestComplete, Model: model, Duration: time.Since(start), Usage: usage})
	return resp, nil
}

func (c *Client) emit(e Event) {
	e.Provider = c.cfg.Provider
	emit(c.cfg.Events, e)
}

var _ chat.Client = (*Client)(nil)
