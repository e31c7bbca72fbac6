// Package storage implements persistent storage of private data on a
// publish/subscribe service (XEP-0223).
//
// Storage is a thin layer over core.PubSub that forces every configuration and
// publish request onto a fixed profile: items are persisted and the node is
// whitelisted so only its owner can read them. It performs no I/O itself;
// each operation builds a fresh request, hands it to the service and returns
// the service's Pending unchanged, failures included.
//
//	store := storage.New(svc)
//	res, err := store.Store(ctx, payload, func(o *storage.StoreOptions) {
//	    o.Node = "urn:xmpp:bookmarks:1"
//	    o.ItemID = "current"
//	}).Wait(ctx)
package storage
