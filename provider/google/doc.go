// Package google adapts the Gemini API (google.golang.org/genai) to
// chat.Client.
//
// Tool results are sent as function responses carrying either an "output"
// or an "error" key. JSON Schema tool parameters are converted to genai
// schemas.
package google
