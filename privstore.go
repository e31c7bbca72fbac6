// Package privstore provides a high-level façade over the storage layer for
// keeping private data on a publish/subscribe service. Most applications:
//  1. Create a Client via New() (optionally supplying a network-backed
//     core.PubSub; the default is an in-memory service)
//  2. Store payloads, which are published with the persistent whitelist profile
//  3. Retrieve them again, asynchronously (Retrieve) or synchronously
//     (RetrieveSync)
//
// Defaults are safe for local development and testing; production deployments
// supply a PubSub bound to a live XMPP stream and a structured logger.
package privstore

import (
	"context"
	"fmt"

	"mellium.im/xmpp/jid"

	"github.com/hupe1980/privstore/config"
	"github.com/hupe1980/privstore/core"
	"github.com/hupe1980/privstore/form"
	"github.com/hupe1980/privstore/logging"
	"github.com/hupe1980/privstore/pubsub"
	"github.com/hupe1980/privstore/storage"
)

// Options configures the Client.
type Options struct {
	// Service carries the requests. Defaults to an in-memory service acting
	// for Account.
	Service core.PubSub

	// Account is the identity of the default in-memory service.
	Account jid.JID

	// ServiceConfig tunes the default in-memory service.
	ServiceConfig pubsub.Config

	// Forms creates request forms (defaults to form.Builder).
	Forms core.FormBuilder

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Client is the façade aggregating the storage layer and its service.
type Client struct {
	*storage.Storage
	svc core.PubSub
}

// New creates a Client with optional overrides. An unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		ServiceConfig: pubsub.DefaultConfig,
		Forms:         form.Builder{},
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Service == nil {
		opts.Service = pubsub.NewInMemoryService(opts.Account, func(o *pubsub.Options) {
			o.Config = opts.ServiceConfig
			o.Logger = opts.Logger
		})
	}

	s := storage.New(opts.Service, func(o *storage.Options) {
		o.Forms = opts.Forms
		o.Logger = opts.Logger
	})

	return &Client{Storage: s, svc: opts.Service}
}

// NewFromConfig creates a Client backed by an in-memory service configured
// from cfg.
func NewFromConfig(cfg *config.Config, optFns ...func(o *Options)) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	account, err := cfg.AccountJID()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger().WithComponent("privstore").WithContext("account", account.Bare().String())

	fns := append([]func(o *Options){func(o *Options) {
		o.Account = account
		o.ServiceConfig.Latency = cfg.Latency
		o.ServiceConfig.ResponseTimeout = cfg.Timeout
		o.ServiceConfig.MaxItems = cfg.MaxItems
		o.Logger = logger
	}}, optFns...)

	return New(fns...), nil
}

// Service returns the underlying pub/sub service.
func (c *Client) Service() core.PubSub { return c.svc }

// StoreSync stores item and waits for the service reply.
func (c *Client) StoreSync(ctx context.Context, item core.Payload, optFns ...func(o *storage.StoreOptions)) (core.PublishResult, error) {
	return c.Store(ctx, item, optFns...).Wait(ctx)
}

// RetrieveSync retrieves items from node and waits for the service reply.
func (c *Client) RetrieveSync(ctx context.Context, node string, optFns ...func(o *storage.RetrieveOptions)) ([]core.Item, error) {
	return c.Retrieve(ctx, node, optFns...).Wait(ctx)
}

// ConfigureSync configures node and waits for the service reply.
func (c *Client) ConfigureSync(ctx context.Context, node string, optFns ...func(o *core.CallOptions)) error {
	_, err := c.Configure(ctx, node, optFns...).Wait(ctx)
	return err
}
