package core

import (
	"context"
	"time"

	"mellium.im/xmpp/jid"

	"github.com/hupe1980/privstore/form"
)

// Namespaces of the forms exchanged with the pub/sub service.
const (
	NSPubSub         = "http://jabber.org/protocol/pubsub"
	NSPublishOptions = "http://jabber.org/protocol/pubsub#publish-options"
	NSNodeConfig     = "http://jabber.org/protocol/pubsub#node_config"
)

// Node configuration fields used by private storage.
const (
	FieldPersistItems = "pubsub#persist_items"
	FieldAccessModel  = "pubsub#access_model"
	FieldMaxItems     = "pubsub#max_items"
)

// Access models understood by services.
const (
	AccessOpen      = "open"
	AccessPresence  = "presence"
	AccessRoster    = "roster"
	AccessWhitelist = "whitelist"
)

// CallOptions are the per request parameters every service call accepts.
// A zero Sender lets the service use the connected account; a zero Timeout
// lets the service apply its own default.
type CallOptions struct {
	Sender  jid.JID
	Timeout time.Duration
}

// PubSub is the publish/subscribe service private storage is layered on.
// Implementations perform the network exchange; every call returns
// immediately with a Pending that resolves on reply, failure or timeout.
// A zero owner addresses the requester's own service.
type PubSub interface {
	SetNodeConfig(ctx context.Context, owner jid.JID, node string, cfg *form.Form, call CallOptions) *Pending[struct{}]
	Publish(ctx context.Context, item Payload, node, itemID string, options *form.Form, call CallOptions) *Pending[PublishResult]
	GetItems(ctx context.Context, owner jid.JID, node string, itemIDs []string, call CallOptions) *Pending[[]Item]
}

// FormBuilder creates the empty forms requests are built from.
type FormBuilder interface {
	NewSubmit() *form.Form
}
