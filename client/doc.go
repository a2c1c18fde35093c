// Package client provides the model gateway used by agents: one chat.Client
// that resolves a provider from configuration and retries transient failures.
//
// # Basic Usage
//
//	c, err := client.New(client.Config{
//	    Provider: thinkact.ProviderAnthropic,
//	    APIKeys:  client.APIKeys{Anthropic: os.Getenv("ANTHROPIC_API_KEY")},
//	    Model:    "claude-sonnet-4-5",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a := agent.New(c, dispatcher)
//
// # Retries
//
// Rate limits, server errors and network failures are retried with
// exponential backoff, honoring Retry-After when the provider sends one.
// Permanent errors such as a bad API key are returned immediately. Pass
// Config.Retry to change the schedule, or retry.Disabled() to turn it off.
//
// # Events
//
// Set Config.Events to observe request start, completion, failure and
// retries. Sends never block.
package client
