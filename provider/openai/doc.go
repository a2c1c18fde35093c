// Package openai adapts the OpenAI Chat Completions API to chat.Client.
//
// Each tool result becomes its own tool message. Failed results are prefixed
// with "Error: " since the API has no error flag. WithBaseURL allows any
// OpenAI-compatible endpoint.
package openai
