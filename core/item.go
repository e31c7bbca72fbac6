package core

import (
	"time"

	"mellium.im/xmpp/jid"
)

// Payload is opaque content published to a node. Its namespace is the node
// used when a publish does not name one.
type Payload interface {
	Namespace() string
}

// RawPayload is a Payload carrying pre-serialized content.
type RawPayload struct {
	NS   string
	Body []byte
}

// Namespace returns the payload namespace.
func (p RawPayload) Namespace() string { return p.NS }

// Item is a stored payload as returned by a retrieval.
type Item struct {
	ID        string
	Payload   Payload
	Publisher jid.JID
	Published time.Time
}

// PublishResult identifies where a publish landed.
type PublishResult struct {
	Node   string
	ItemID string
}
