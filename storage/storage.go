package storage

import (
	"context"

	"mellium.im/xmpp/jid"

	"github.com/hupe1980/privstore/core"
	"github.com/hupe1980/privstore/form"
	"github.com/hupe1980/privstore/logging"
)

// Options configures a Storage instance.
type Options struct {
	// Forms creates the empty forms requests start from.
	// Defaults to form.Builder.
	Forms core.FormBuilder

	// Logger receives a debug entry per request.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger
}

// StoreOptions are the optional parameters of Store.
type StoreOptions struct {
	core.CallOptions

	// Node to publish to. Empty lets the service pick, which for PEP is the
	// payload namespace.
	Node string
	// ItemID of the published item. Empty lets the service assign one.
	ItemID string
	// Options are caller publish options. They are merged with the profile;
	// the caller's form is left untouched.
	Options *form.Form
}

// RetrieveOptions are the optional parameters of Retrieve.
type RetrieveOptions struct {
	core.CallOptions

	// ItemID is a single id to fetch. It is appended after ItemIDs.
	ItemID string
	// ItemIDs is the group of ids to fetch. Empty fetches every item.
	ItemIDs []string
}

// Storage stores private data on a pub/sub service. Every request it sends
// carries the persistent whitelist profile. It holds no per-request state and
// is safe for concurrent use.
type Storage struct {
	svc     core.PubSub
	forms   core.FormBuilder
	profile Profile
	logger  logging.Logger
}

// New creates a Storage delegating to svc.
func New(svc core.PubSub, optFns ...func(o *Options)) *Storage {
	opts := Options{
		Forms:  form.Builder{},
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Forms == nil {
		opts.Forms = form.Builder{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Storage{
		svc:     svc,
		forms:   opts.Forms,
		profile: DefaultProfile(),
		logger:  opts.Logger,
	}
}

// Profile returns a copy of the enforced profile.
func (s *Storage) Profile() Profile {
	out := make(Profile, len(s.profile))
	copy(out, s.profile)
	return out
}

// Configure updates the configuration of node to match the profile. It is
// never called implicitly by Store or Retrieve.
func (s *Storage) Configure(ctx context.Context, node string, optFns ...func(o *core.CallOptions)) *core.Pending[struct{}] {
	var call core.CallOptions
	for _, fn := range optFns {
		fn(&call)
	}

	cfg := s.profile.Apply(s.forms.NewSubmit())

	s.logger.Debug("Configuring private node", "node", node, "fields", cfg.Vars())

	return s.svc.SetNodeConfig(ctx, jid.JID{}, node, cfg, call)
}

// Store publishes item with publish options forced to the profile. Publish
// options supplied by the caller are passed on without FORM_TYPE if they lack
// one; only options built here get the publish-options FORM_TYPE.
func (s *Storage) Store(ctx context.Context, item core.Payload, optFns ...func(o *StoreOptions)) *core.Pending[core.PublishResult] {
	var opts StoreOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	options := s.MergePublishOptions(opts.Options)

	s.logger.Debug("Storing private item", "node", opts.Node, "item_id", opts.ItemID)

	return s.svc.Publish(ctx, item, opts.Node, opts.ItemID, options, opts.CallOptions)
}

// MergePublishOptions returns the publish options Store would send for
// caller-supplied options (nil when the caller has none).
func (s *Storage) MergePublishOptions(options *form.Form) *form.Form {
	if options == nil {
		options = s.forms.NewSubmit()
		options.AddField(form.Field{
			Var:   form.VarFormType,
			Type:  form.FieldHidden,
			Value: core.NSPublishOptions,
		})
	}
	return s.profile.Apply(options)
}

// Retrieve fetches items from node. ItemID, when set, is appended to ItemIDs
// as is; duplicates are not removed.
func (s *Storage) Retrieve(ctx context.Context, node string, optFns ...func(o *RetrieveOptions)) *core.Pending[[]core.Item] {
	var opts RetrieveOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	ids := ComposeItemIDs(opts.ItemID, opts.ItemIDs)

	s.logger.Debug("Retrieving private items", "node", node, "item_ids", ids)

	return s.svc.GetItems(ctx, jid.JID{}, node, ids, opts.CallOptions)
}

// ComposeItemIDs folds a single optional id into a fresh copy of ids.
func ComposeItemIDs(itemID string, ids []string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	if itemID != "" {
		out = append(out, itemID)
	}
	return out
}
