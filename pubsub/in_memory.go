package pubsub

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"mellium.im/xmpp/jid"

	"github.com/hupe1980/privstore/core"
	"github.com/hupe1980/privstore/form"
	"github.com/hupe1980/privstore/logging"
)

type nodeKey struct {
	owner string
	node  string
}

type nodeState struct {
	config    *form.Form
	items     []core.Item
	whitelist map[string]struct{}
}

type requestLogger interface {
	LogRequest(op, node string, dur time.Duration, err error)
}

// InMemoryService is an in-process personal eventing service implementing
// core.PubSub. Every account owns its own set of nodes, keyed by bare JID.
// Nodes are created on first publish from the default configuration overlaid
// with the publish options, and later publishes must match the node
// configuration for every option they carry.
//
// Layout: owner bare JID + node -> configuration, items, whitelist
//
// It is safe for concurrent access and meant for tests, examples and
// single-process prototypes; nothing survives a restart.
type InMemoryService struct {
	account jid.JID
	cfg     Config
	logger  logging.Logger
	now     func() time.Time

	mu    sync.RWMutex
	nodes map[nodeKey]*nodeState
}

// NewInMemoryService returns an empty service acting for account when a
// request carries no sender.
func NewInMemoryService(account jid.JID, optFns ...func(o *Options)) *InMemoryService {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
		Now:    time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &InMemoryService{
		account: account.Bare(),
		cfg:     opts.Config,
		logger:  opts.Logger,
		now:     opts.Now,
		nodes:   make(map[nodeKey]*nodeState),
	}
}

// DefaultNodeConfig returns the configuration a node starts with.
func DefaultNodeConfig() *form.Form {
	f := form.New(form.TypeResult)
	f.AddField(form.Field{Var: form.VarFormType, Type: form.FieldHidden, Value: core.NSNodeConfig})
	f.AddField(form.Field{Var: core.FieldPersistItems, Type: form.FieldBoolean, Value: false})
	f.AddField(form.Field{Var: core.FieldAccessModel, Type: form.FieldListSingle, Value: core.AccessPresence})
	f.AddField(form.Field{Var: core.FieldMaxItems, Type: form.FieldTextSingle, Value: "max"})
	f.AddField(form.Field{Var: "pubsub#title", Type: form.FieldTextSingle, Value: ""})
	return f
}

// SetNodeConfig replaces the given fields of an existing node's
// configuration. Only the owner may configure a node.
func (s *InMemoryService) SetNodeConfig(ctx context.Context, owner jid.JID, node string, cfg *form.Form, call core.CallOptions) *core.Pending[struct{}] {
	cfg = cfg.Clone()
	return dispatch(ctx, s, "set_node_config", node, call, func() (struct{}, error) {
		return struct{}{}, s.setNodeConfig(owner, node, cfg, call)
	})
}

// Publish stores item on the requester's own node.
func (s *InMemoryService) Publish(ctx context.Context, item core.Payload, node, itemID string, options *form.Form, call core.CallOptions) *core.Pending[core.PublishResult] {
	options = options.Clone()
	if node == "" && item != nil {
		node = item.Namespace()
	}
	return dispatch(ctx, s, "publish", node, call, func() (core.PublishResult, error) {
		return s.publish(item, node, itemID, options, call)
	})
}

// GetItems returns the requested items, or all items when itemIDs is empty.
// Unknown ids are skipped.
func (s *InMemoryService) GetItems(ctx context.Context, owner jid.JID, node string, itemIDs []string, call core.CallOptions) *core.Pending[[]core.Item] {
	ids := slices.Clone(itemIDs)
	return dispatch(ctx, s, "get_items", node, call, func() ([]core.Item, error) {
		return s.getItems(owner, node, ids, call)
	})
}

// Whitelist grants members read access to a whitelisted node of owner.
func (s *InMemoryService) Whitelist(owner jid.JID, node string, members ...jid.JID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.nodes[keyFor(owner.Bare(), node)]
	if !ok {
		return core.NewStanzaError(core.ConditionItemNotFound, "node %q does not exist", node)
	}
	for _, m := range members {
		st.whitelist[m.Bare().String()] = struct{}{}
	}
	return nil
}

// NodeConfig returns a copy of a node's current configuration.
func (s *InMemoryService) NodeConfig(owner jid.JID, node string) (*form.Form, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.nodes[keyFor(owner.Bare(), node)]
	if !ok {
		return nil, false
	}
	return st.config.Clone(), true
}

// Nodes returns the sorted node names owned by owner.
func (s *InMemoryService) Nodes(owner jid.JID) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bare := owner.Bare().String()
	var out []string
	for k := range s.nodes {
		if k.owner == bare {
			out = append(out, k.node)
		}
	}
	slices.Sort(out)
	return out
}

func (s *InMemoryService) setNodeConfig(owner jid.JID, node string, cfg *form.Form, call core.CallOptions) error {
	requester := s.requester(call)
	owner = ownerOr(owner, requester)
	if node == "" {
		return core.NewStanzaError(core.ConditionBadRequest, "node is required")
	}
	if cfg == nil {
		return core.NewStanzaError(core.ConditionBadRequest, "configuration form is required")
	}
	if ft := cfg.FormType(); ft != "" && ft != core.NSNodeConfig {
		return core.NewStanzaError(core.ConditionBadRequest, "unexpected FORM_TYPE %q", ft)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.nodes[keyFor(owner, node)]
	if !ok {
		return core.NewStanzaError(core.ConditionItemNotFound, "node %q does not exist", node)
	}
	if !owner.Equal(requester) {
		return core.NewStanzaError(core.ConditionForbidden, "only the owner may configure %q", node)
	}

	next := st.config.Clone()
	for _, f := range cfg.Fields() {
		if f.Var == form.VarFormType {
			continue
		}
		if !next.Has(f.Var) {
			return core.NewStanzaError(core.ConditionNotAcceptable, "unsupported field %q", f.Var)
		}
		if err := validateValue(f.Var, f.Value); err != nil {
			return err
		}
		next.SetValue(f.Var, f.Value)
	}
	st.config = next
	st.items = trim(st.items, s.retention(next))
	return nil
}

func (s *InMemoryService) publish(item core.Payload, node, itemID string, options *form.Form, call core.CallOptions) (core.PublishResult, error) {
	if item == nil {
		return core.PublishResult{}, core.NewStanzaError(core.ConditionBadRequest, "payload is required")
	}
	if node == "" {
		return core.PublishResult{}, core.NewStanzaError(core.ConditionBadRequest, "no node given and payload has no namespace")
	}
	if ft := options.FormType(); ft != "" && ft != core.NSPublishOptions {
		return core.PublishResult{}, core.NewStanzaError(core.ConditionBadRequest, "unexpected FORM_TYPE %q", ft)
	}

	owner := s.requester(call)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyFor(owner, node)
	st, ok := s.nodes[key]
	if !ok {
		cfg := DefaultNodeConfig()
		for _, f := range options.Fields() {
			if f.Var == form.VarFormType {
				continue
			}
			if !cfg.Has(f.Var) {
				return core.PublishResult{}, preconditionNotMet("unsupported option %q", f.Var)
			}
			if err := validateValue(f.Var, f.Value); err != nil {
				return core.PublishResult{}, err
			}
			cfg.SetValue(f.Var, f.Value)
		}
		st = &nodeState{config: cfg, whitelist: make(map[string]struct{})}
		s.nodes[key] = st
		s.logger.Debug("Node created", "owner", owner.String(), "node", node)
	} else {
		for _, f := range options.Fields() {
			if f.Var == form.VarFormType {
				continue
			}
			current, ok := st.config.Field(f.Var)
			if !ok || !form.EqualValues(current.Value, f.Value) {
				return core.PublishResult{}, preconditionNotMet("%s is %q, publish requires %q", f.Var, form.ValueString(current.Value), form.ValueString(f.Value))
			}
		}
	}

	if itemID == "" {
		itemID = uuid.NewString()
	}

	if keep := s.retention(st.config); keep != 0 {
		st.items = slices.DeleteFunc(st.items, func(it core.Item) bool { return it.ID == itemID })
		st.items = append(st.items, core.Item{
			ID:        itemID,
			Payload:   item,
			Publisher: owner,
			Published: s.now(),
		})
		st.items = trim(st.items, keep)
	}

	return core.PublishResult{Node: node, ItemID: itemID}, nil
}

func (s *InMemoryService) getItems(owner jid.JID, node string, ids []string, call core.CallOptions) ([]core.Item, error) {
	requester := s.requester(call)
	owner = ownerOr(owner, requester)
	if node == "" {
		return nil, core.NewStanzaError(core.ConditionBadRequest, "node is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.nodes[keyFor(owner, node)]
	if !ok {
		return nil, core.NewStanzaError(core.ConditionItemNotFound, "node %q does not exist", node)
	}
	if !canRead(st, owner, requester) {
		return nil, core.NewStanzaError(core.ConditionForbidden, "%s may not read %q", requester.String(), node)
	}

	if len(ids) == 0 {
		return slices.Clone(st.items), nil
	}
	out := make([]core.Item, 0, len(ids))
	for _, id := range ids {
		if i := slices.IndexFunc(st.items, func(it core.Item) bool { return it.ID == id }); i >= 0 {
			out = append(out, st.items[i])
		}
	}
	return out, nil
}

func (s *InMemoryService) requester(call core.CallOptions) jid.JID {
	if call.Sender.String() != "" {
		return call.Sender.Bare()
	}
	return s.account
}

// retention returns how many items a node keeps: 0 for none, -1 for no limit.
func (s *InMemoryService) retention(cfg *form.Form) int {
	if !form.EqualValues(cfg.Value(core.FieldPersistItems), true) {
		return 0
	}
	keep := -1
	if n, err := strconv.Atoi(form.ValueString(cfg.Value(core.FieldMaxItems))); err == nil && n > 0 {
		keep = n
	}
	if s.cfg.MaxItems > 0 && (keep < 0 || s.cfg.MaxItems < keep) {
		keep = s.cfg.MaxItems
	}
	return keep
}

func trim(items []core.Item, keep int) []core.Item {
	switch {
	case keep < 0 || len(items) <= keep:
		return items
	case keep == 0:
		return nil
	default:
		return slices.Clone(items[len(items)-keep:])
	}
}

func canRead(st *nodeState, owner, requester jid.JID) bool {
	if owner.Equal(requester) {
		return true
	}
	switch form.ValueString(st.config.Value(core.FieldAccessModel)) {
	case core.AccessOpen:
		return true
	case core.AccessWhitelist:
		_, ok := st.whitelist[requester.String()]
		return ok
	default:
		// Presence and roster subscriptions are not modelled.
		return false
	}
}

func validateValue(v string, value any) error {
	switch v {
	case core.FieldPersistItems:
		if !form.EqualValues(value, true) && !form.EqualValues(value, false) {
			return core.NewStanzaError(core.ConditionNotAcceptable, "%s must be boolean", v)
		}
	case core.FieldAccessModel:
		switch form.ValueString(value) {
		case core.AccessOpen, core.AccessPresence, core.AccessRoster, core.AccessWhitelist:
		default:
			return core.NewStanzaError(core.ConditionNotAcceptable, "unsupported access model %q", form.ValueString(value))
		}
	case core.FieldMaxItems:
		raw := form.ValueString(value)
		if raw == "max" {
			return nil
		}
		if n, err := strconv.Atoi(raw); err != nil || n < 1 {
			return core.NewStanzaError(core.ConditionNotAcceptable, "%s must be a positive integer or max", v)
		}
	}
	return nil
}

func preconditionNotMet(format string, args ...any) error {
	err := core.NewStanzaError(core.ConditionConflict, format, args...)
	err.PubSubCondition = "precondition-not-met"
	return err
}

func ownerOr(owner, requester jid.JID) jid.JID {
	if owner.String() != "" {
		return owner.Bare()
	}
	return requester
}

func keyFor(owner jid.JID, node string) nodeKey {
	return nodeKey{owner: owner.String(), node: node}
}

// dispatch runs fn on its own goroutine after the configured latency and
// resolves the returned Pending with its outcome, core.ErrTimeout, or the
// context error.
func dispatch[T any](ctx context.Context, s *InMemoryService, op, node string, call core.CallOptions, fn func() (T, error)) *core.Pending[T] {
	p, resolve := core.NewPending[T]()

	timeout := call.Timeout
	if timeout <= 0 {
		timeout = s.cfg.ResponseTimeout
	}

	go func() {
		start := time.Now()
		v, err := await(ctx, s.cfg.Latency, timeout, fn)
		if rl, ok := s.logger.(requestLogger); ok {
			rl.LogRequest(op, node, time.Since(start), err)
		} else if err != nil {
			s.logger.Debug("Request failed", "operation", op, "node", node, "error", err.Error())
		}
		resolve(v, err)
	}()

	return p
}

func await[T any](ctx context.Context, latency, timeout time.Duration, fn func() (T, error)) (T, error) {
	var zero T

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	if latency > 0 {
		delay := time.NewTimer(latency)
		defer delay.Stop()
		select {
		case <-delay.C:
		case <-expired:
			return zero, core.ErrTimeout
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return fn()
}
