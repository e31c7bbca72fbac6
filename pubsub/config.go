package pubsub

import (
	"time"

	"github.com/hupe1980/privstore/logging"
)

// Config defines tuning parameters for the in-memory service.
type Config struct {
	// Latency delays every reply. Requests whose timeout elapses first fail
	// with core.ErrTimeout and are not applied.
	Latency time.Duration

	// ResponseTimeout applies to requests that do not carry their own
	// timeout. Zero waits forever.
	ResponseTimeout time.Duration

	// MaxItems caps the items retained per persistent node on top of the
	// node's own pubsub#max_items. Zero means no service-wide cap.
	MaxItems int
}

// DefaultConfig replies instantly and gives up after 30 seconds.
var DefaultConfig = Config{
	ResponseTimeout: 30 * time.Second,
}

// Options configures an InMemoryService.
type Options struct {
	// Config contains operational parameters.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// Logger receives per request entries. When it also implements
	// LogRequest (as *logging.StoreLogger does) round trips are timed.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger

	// Now returns the publish timestamp. Defaults to time.Now.
	Now func() time.Time
}
