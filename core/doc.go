// Package core provides the contracts private storage is built on:
//
//   - PubSub, the publish/subscribe service requests are delegated to
//   - FormBuilder, the factory for empty request forms
//   - Payload and Item, the published content and its stored form
//   - Pending, the placeholder returned for every outstanding request
//   - StanzaError and the sentinel errors services report
//
// Implementations live in their own packages (pubsub for an in-process
// service, form for the default builder) so callers can substitute a real
// XMPP connection without touching the storage layer.
package core
