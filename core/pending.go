package core

import (
	"context"
	"sync"
)

// Pending is the placeholder for the reply to an outstanding request. It is
// resolved exactly once by the service that issued it; later resolutions are
// ignored. Pending is safe for concurrent use.
type Pending[T any] struct {
	done chan struct{}
	once sync.Once

	mu        sync.Mutex
	value     T
	err       error
	callbacks []func(T, error)
}

// NewPending returns an unresolved Pending and the function that resolves it.
func NewPending[T any]() (*Pending[T], func(T, error)) {
	p := &Pending[T]{done: make(chan struct{})}
	return p, p.resolve
}

// Resolved returns a Pending that has already completed with v and err.
func Resolved[T any](v T, err error) *Pending[T] {
	p, resolve := NewPending[T]()
	resolve(v, err)
	return p
}

func (p *Pending[T]) resolve(v T, err error) {
	p.once.Do(func() {
		p.mu.Lock()
		p.value, p.err = v, err
		callbacks := p.callbacks
		p.callbacks = nil
		close(p.done)
		p.mu.Unlock()

		for _, fn := range callbacks {
			fn(v, err)
		}
	})
}

// Done is closed once the reply (or failure) is available.
func (p *Pending[T]) Done() <-chan struct{} { return p.done }

// Wait blocks until the Pending resolves or ctx is done. Giving up on ctx
// leaves the Pending untouched.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until the Pending resolves and returns its outcome.
func (p *Pending[T]) Result() (T, error) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err
}

// Then registers fn to run with the outcome. If the Pending has already
// resolved fn runs immediately on the calling goroutine, otherwise it runs on
// the resolving goroutine.
func (p *Pending[T]) Then(fn func(T, error)) {
	p.mu.Lock()
	select {
	case <-p.done:
		v, err := p.value, p.err
		p.mu.Unlock()
		fn(v, err)
	default:
		p.callbacks = append(p.callbacks, fn)
		p.mu.Unlock()
	}
}
