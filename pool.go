package docstudio

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// PaginatorPool shares up to n paginators between concurrent callers.
// Each paginator owns its own browser. Paginators are created lazily on
// first acquire. The pool is itself a Paginator.
type PaginatorPool struct {
	size    int
	factory func() (Paginator, error)

	mu         sync.Mutex
	paginators []Paginator
	sem        chan Paginator
	created    int
	closed     bool
}

// Compile-time interface check.
var _ Paginator = (*PaginatorPool)(nil)

// NewPaginatorPool creates a pool of at most n paginators built by factory.
func NewPaginatorPool(n int, factory func() (Paginator, error)) *PaginatorPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &PaginatorPool{
		size:       n,
		factory:    factory,
		paginators: make([]Paginator, 0, n),
		sem:        make(chan Paginator, n),
	}
}

// Acquire gets a paginator, creating one if capacity allows.
// Blocks until one is released or ctx is done.
func (p *PaginatorPool) Acquire(ctx context.Context) (Paginator, error) {
	select {
	case pag, ok := <-p.sem:
		if !ok {
			return nil, ErrPaginatorClosed
		}
		return pag, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPaginatorClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create outside the lock; a browser launch can be slow.
		pag, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			// Close already walked p.paginators; this one would leak its browser.
			p.mu.Unlock()
			_ = pag.Close()
			return nil, ErrPaginatorClosed
		}
		p.paginators = append(p.paginators, pag)
		p.mu.Unlock()
		return pag, nil
	}
	p.mu.Unlock()

	select {
	case pag, ok := <-p.sem:
		if !ok {
			return nil, ErrPaginatorClosed
		}
		return pag, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a paginator to the pool.
// The lock is held while sending so Close cannot close the channel under us;
// the channel has room for every paginator so the send never blocks.
func (p *PaginatorPool) Release(pag Paginator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- pag
}

// Paginate acquires a paginator, renders job, and releases it.
func (p *PaginatorPool) Paginate(ctx context.Context, job PrintJob) ([]byte, error) {
	pag, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(pag)
	return pag.Paginate(ctx, job)
}

// Close releases all browser resources.
// Returns an aggregated error if several paginators fail to close.
func (p *PaginatorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	paginators := p.paginators
	p.mu.Unlock()

	var errs []error
	for _, pag := range paginators {
		if err := pag.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *PaginatorPool) Size() int {
	return p.size
}

// ResolvePoolSize picks the pool size: an explicit worker count, else
// GOMAXPROCS/2 bounded to [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
