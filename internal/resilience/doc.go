// Package resilience groups the fault tolerance helpers used around every
// outbound call the tracker makes to LLM providers, search APIs and
// announcement pages.
//
//   - circuitbreaker: per-provider gobreaker instances and a registry whose
//     states are reported by /health
//   - retry: exponential backoff with jitter for transient failures
//
// Usage:
//
//	breakers := circuitbreaker.NewRegistry()
//	cb := breakers.Get(circuitbreaker.ProviderConfig("grok"))
//	out, err := cb.Execute(func() (any, error) {
//	    return retry.Do(ctx, retry.ProviderConfig(), call)
//	})
package resilience
