package agent

import (
	"github.com/rs/zerolog"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/event"
	"github.com/spetersoncode/thinkact/store"
)

// DefaultMaxSteps bounds a run when WithMaxSteps is not given.
const DefaultMaxSteps = 10

// Options contains configuration for agent execution.
type Options struct {
	// MaxSteps limits the number of think/act cycles. Default is 10.
	MaxSteps int

	// SystemPrompt is sent with every model call. It is not stored in the
	// conversation.
	SystemPrompt string

	// NextStepPrompt, if set, is appended as a user message before every
	// think so the model is reminded of its operating instructions.
	NextStepPrompt string

	// ChatOptions are passed through to the chat client on every call.
	ChatOptions []ai.Option

	// Logger receives step-level diagnostics. Default is a no-op logger.
	Logger zerolog.Logger

	// Events receives run and step events without blocking the loop.
	Events chan<- event.Event

	// Transcript, if set, receives the final conversation under TranscriptKey
	// (or the run ID when the key is empty) after every run.
	Transcript    store.Adapter
	TranscriptKey string
}

// Option is a functional option for configuring agent execution.
type Option func(*Options)

// WithMaxSteps sets the maximum number of steps. Values below 1 are ignored.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxSteps = n
		}
	}
}

// WithSystemPrompt sets the system instruction sent with every model call.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// WithNextStepPrompt sets the hint appended before every think.
func WithNextStepPrompt(prompt string) Option {
	return func(o *Options) {
		o.NextStepPrompt = prompt
	}
}

// WithChatOptions passes options through to the chat client.
// These options are applied to every chat call made by the agent.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for chat calls.
func WithModel(model string) Option {
	return WithChatOptions(ai.WithModel(model))
}

// WithLogger sets the logger for step diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithEvents sets the channel that receives run and step events.
func WithEvents(ch chan<- event.Event) Option {
	return func(o *Options) {
		o.Events = ch
	}
}

// WithTranscript persists the final conversation of each run to adapter.
// An empty key stores the transcript under the run ID.
func WithTranscript(adapter store.Adapter, key string) Option {
	return func(o *Options) {
		o.Transcript = adapter
		o.TranscriptKey = key
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxSteps: DefaultMaxSteps,
		Logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
