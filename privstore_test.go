package privstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mellium.im/xmpp/jid"

	"github.com/hupe1980/privstore/config"
	"github.com/hupe1980/privstore/core"
	"github.com/hupe1980/privstore/form"
	"github.com/hupe1980/privstore/internal/testutil"
	"github.com/hupe1980/privstore/pubsub"
	"github.com/hupe1980/privstore/storage"
)

var (
	juliet = jid.MustParse("juliet@capulet.lit/balcony")
	romeo  = jid.MustParse("romeo@montague.lit")
)

func newCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_StoreAndRetrievePrivateData(t *testing.T) {
	ctx := newCtx(t)
	c := New(func(o *Options) { o.Account = juliet })

	res, err := c.StoreSync(ctx, testutil.Payload("storage:bookmarks", "<storage/>"), func(o *storage.StoreOptions) {
		o.ItemID = "current"
	})
	require.NoError(t, err)
	assert.Equal(t, "storage:bookmarks", res.Node)
	assert.Equal(t, "current", res.ItemID)

	items, err := c.RetrieveSync(ctx, "storage:bookmarks", func(o *storage.RetrieveOptions) {
		o.ItemID = "current"
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, core.RawPayload{NS: "storage:bookmarks", Body: []byte("<storage/>")}, items[0].Payload)

	svc, ok := c.Service().(*pubsub.InMemoryService)
	require.True(t, ok)
	cfg, ok := svc.NodeConfig(juliet, "storage:bookmarks")
	require.True(t, ok)
	assert.True(t, storage.DefaultProfile().Satisfied(cfg))
}

func TestClient_OtherAccountsCannotRead(t *testing.T) {
	ctx := newCtx(t)
	svc := pubsub.NewInMemoryService(juliet)
	owner := New(func(o *Options) { o.Service = svc })

	_, err := owner.StoreSync(ctx, testutil.Payload("urn:example", "secret"), func(o *storage.StoreOptions) {
		o.Node = "urn:example"
	})
	require.NoError(t, err)

	_, err = owner.Retrieve(ctx, "urn:example", func(o *storage.RetrieveOptions) {
		o.Sender = romeo
	}).Wait(ctx)
	assert.ErrorIs(t, err, core.ErrItemNotFound)

	_, err = svc.GetItems(ctx, juliet, "urn:example", nil, core.CallOptions{Sender: romeo}).Wait(ctx)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestClient_CallerOptionsCannotOpenNode(t *testing.T) {
	ctx := newCtx(t)
	c := New(func(o *Options) { o.Account = juliet })

	open := testutil.NewFormBuilder(form.TypeSubmit).
		PublishOptions().
		Field(core.FieldAccessModel, core.AccessOpen).
		Build()

	_, err := c.StoreSync(ctx, testutil.Payload("urn:x", ""), func(o *storage.StoreOptions) {
		o.Node = "n"
		o.Options = open
	})
	require.NoError(t, err)

	cfg, _ := c.Service().(*pubsub.InMemoryService).NodeConfig(juliet, "n")
	assert.Equal(t, core.AccessWhitelist, cfg.Value(core.FieldAccessModel))
}

func TestClient_ConfigureExistingNode(t *testing.T) {
	ctx := newCtx(t)
	svc := pubsub.NewInMemoryService(juliet)
	c := New(func(o *Options) { o.Service = svc })

	// Configure does not create nodes.
	err := c.ConfigureSync(ctx, "legacy")
	assert.ErrorIs(t, err, core.ErrItemNotFound)

	_, err = svc.Publish(ctx, testutil.Payload("urn:x", ""), "legacy", "1", nil, core.CallOptions{}).Wait(ctx)
	require.NoError(t, err)

	// A plain node rejects the private profile as publish options...
	_, err = c.StoreSync(ctx, testutil.Payload("urn:x", ""), func(o *storage.StoreOptions) { o.Node = "legacy" })
	assert.ErrorIs(t, err, core.ErrPreconditionNotMet)

	// ...until it is configured with it.
	require.NoError(t, c.ConfigureSync(ctx, "legacy"))
	_, err = c.StoreSync(ctx, testutil.Payload("urn:x", ""), func(o *storage.StoreOptions) { o.Node = "legacy" })
	require.NoError(t, err)
}

func TestClient_Timeout(t *testing.T) {
	ctx := newCtx(t)
	c := New(func(o *Options) {
		o.Account = juliet
		o.ServiceConfig.Latency = 200 * time.Millisecond
	})

	_, err := c.StoreSync(ctx, testutil.Payload("urn:x", ""), func(o *storage.StoreOptions) {
		o.Timeout = 10 * time.Millisecond
	})
	assert.ErrorIs(t, err, core.ErrTimeout)
}

func TestNewFromConfig(t *testing.T) {
	ctx := newCtx(t)
	cfg := &config.Config{
		Account:   "juliet@capulet.lit",
		Node:      config.DefaultNode,
		Timeout:   time.Second,
		MaxItems:  1,
		LogLevel:  "error",
		LogFormat: "json",
	}

	c, err := NewFromConfig(cfg)
	require.NoError(t, err)

	for _, id := range []string{"a", "b"} {
		_, err := c.StoreSync(ctx, testutil.Payload(cfg.Node, id), func(o *storage.StoreOptions) { o.ItemID = id })
		require.NoError(t, err)
	}

	items, err := c.RetrieveSync(ctx, cfg.Node)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)

	_, err = NewFromConfig(&config.Config{})
	assert.Error(t, err)
}
