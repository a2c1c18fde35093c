// Package model holds the chat model catalog: default model per provider and
// list prices used to estimate the cost of a run.
//
//	p, ok := model.Lookup("claude-sonnet-4-5")
//	if ok {
//	    fmt.Printf("$%.4f\n", p.Cost(result.TotalUsage))
//	}
//
// Prices are USD per million tokens and were last checked in December 2025.
// Unknown models have no price; callers should treat the cost as unknown
// rather than zero.
package model
