// Package pubsub contains an in-process implementation of core.PubSub.
//
// InMemoryService behaves like a personal eventing service: nodes belong to
// the bare JID that publishes to them, are created on first publish, honour
// publish-options preconditions, persist items only when configured to, and
// restrict retrieval according to the node access model. Replies arrive on a
// separate goroutine after an optional simulated latency, so request timeouts
// and context cancellation behave as they would against a remote service.
//
// Callers should depend on core.PubSub rather than this concrete type so a
// network-backed implementation can be substituted.
package pubsub
