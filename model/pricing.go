package model

import (
	"strings"

	ai "github.com/spetersoncode/thinkact"
	"github.com/spetersoncode/thinkact/provider/anthropic"
	"github.com/spetersoncode/thinkact/provider/google"
	"github.com/spetersoncode/thinkact/provider/openai"
)

// Pricing is the list price of a chat model in USD per million tokens.
type Pricing struct {
	Provider         ai.Provider
	InputPerMillion  float64
	OutputPerMillion float64
}

// Cost estimates the price of the given usage.
func (p Pricing) Cost(u ai.Usage) float64 {
	return (float64(u.InputTokens)*p.InputPerMillion + float64(u.OutputTokens)*p.OutputPerMillion) / 1e6
}

var catalog = map[string]Pricing{
	// Anthropic
	"claude-opus-4-5":   {ai.ProviderAnthropic, 5.00, 25.00},
	"claude-sonnet-4-5": {ai.ProviderAnthropic, 3.00, 15.00},
	"claude-haiku-4-5":  {ai.ProviderAnthropic, 1.00, 5.00},

	// OpenAI
	"gpt-5":      {ai.ProviderOpenAI, 1.25, 10.00},
	"gpt-5-mini": {ai.ProviderOpenAI, 0.25, 1.00},
	"gpt-5-nano": {ai.ProviderOpenAI, 0.10, 0.40},
	"gpt-5.1":    {ai.ProviderOpenAI, 1.25, 10.00},
	"o3":         {ai.ProviderOpenAI, 2.00, 16.00},
	"o4-mini":    {ai.ProviderOpenAI, 0.50, 2.00},

	// Google
	"gemini-2.5-pro":        {ai.ProviderGoogle, 1.25, 10.00},
	"gemini-2.5-flash":      {ai.ProviderGoogle, 0.30, 2.50},
	"gemini-2.5-flash-lite": {ai.ProviderGoogle, 0.10, 0.40},
}

// Lookup returns the pricing for a model ID. Dated snapshots such as
// "claude-sonnet-4-5-20250929" resolve to their alias.
func Lookup(id string) (Pricing, bool) {
	if p, ok := catalog[id]; ok {
		return p, true
	}
	if i := strings.LastIndex(id, "-"); i > 0 && isDate(id[i+1:]) {
		p, ok := catalog[id[:i]]
		return p, ok
	}
	return Pricing{}, false
}

func isDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Default returns the model a provider client uses when none is configured.
func Default(p ai.Provider) string {
	switch p {
	case ai.ProviderAnthropic:
		return anthropic.DefaultModel
	case ai.ProviderOpenAI:
		return openai.DefaultModel
	case ai.ProviderGoogle:
		return google.DefaultModel
	}
	return ""
}

// Resolve returns id, or the provider default when id is empty.
func Resolve(p ai.Provider, id string) string {
	if id != "" {
		return id
	}
	return Default(p)
}
