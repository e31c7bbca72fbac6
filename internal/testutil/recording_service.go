package testutil

import (
	"context"
	"sync"

	"mellium.im/xmpp/jid"

	"github.com/hupe1980/privstore/core"
	"github.com/hupe1980/privstore/form"
)

// ConfigCall is a recorded SetNodeConfig request.
type ConfigCall struct {
	Owner jid.JID
	Node  string
	Form  *form.Form
	Call  core.CallOptions
}

// PublishCall is a recorded Publish request.
type PublishCall struct {
	Item    core.Payload
	Node    string
	ItemID  string
	Options *form.Form
	Call    core.CallOptions
}

// GetItemsCall is a recorded GetItems request.
type GetItemsCall struct {
	Owner   jid.JID
	Node    string
	ItemIDs []string
	Call    core.CallOptions
}

// RecordingService is a core.PubSub that records every request and resolves
// immediately with the configured results. Forms and id slices are snapshot
// at call time so assertions see each request as it was sent.
type RecordingService struct {
	mu sync.Mutex

	Configs   []ConfigCall
	Publishes []PublishCall
	Gets      []GetItemsCall

	ConfigErr  error
	PublishErr error
	GetErr     error
	Items      []core.Item
}

// NewRecordingService returns an empty RecordingService.
func NewRecordingService() *RecordingService {
	return &RecordingService{}
}

// SetNodeConfig records the request.
func (r *RecordingService) SetNodeConfig(_ context.Context, owner jid.JID, node string, cfg *form.Form, call core.CallOptions) *core.Pending[struct{}] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Configs = append(r.Configs, ConfigCall{Owner: owner, Node: node, Form: cfg.Clone(), Call: call})
	return core.Resolved(struct{}{}, r.ConfigErr)
}

// Publish records the request and echoes node and item id.
func (r *RecordingService) Publish(_ context.Context, item core.Payload, node, itemID string, options *form.Form, call core.CallOptions) *core.Pending[core.PublishResult] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Publishes = append(r.Publishes, PublishCall{Item: item, Node: node, ItemID: itemID, Options: options.Clone(), Call: call})
	if r.PublishErr != nil {
		return core.Resolved(core.PublishResult{}, r.PublishErr)
	}
	return core.Resolved(core.PublishResult{Node: node, ItemID: itemID}, nil)
}

// GetItems records the request and returns Items.
func (r *RecordingService) GetItems(_ context.Context, owner jid.JID, node string, itemIDs []string, call core.CallOptions) *core.Pending[[]core.Item] {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	if itemIDs != nil {
		ids = make([]string, len(itemIDs))
		copy(ids, itemIDs)
	}
	r.Gets = append(r.Gets, GetItemsCall{Owner: owner, Node: node, ItemIDs: ids, Call: call})
	if r.GetErr != nil {
		return core.Resolved[[]core.Item](nil, r.GetErr)
	}
	items := make([]core.Item, len(r.Items))
	copy(items, r.Items)
	return core.Resolved(items, nil)
}

// LastPublish returns the most recent Publish request.
func (r *RecordingService) LastPublish() (PublishCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Publishes) == 0 {
		return PublishCall{}, false
	}
	return r.Publishes[len(r.Publishes)-1], true
}
