package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pool holds a fixed set of arc-scoring sessions. The dependency parser
// draws one per sentence, so corpus splits processed in parallel share the
// loaded model instead of each opening its own.
type Pool struct {
	sessions  chan *Session
	modelPath string
	size      int
	mu        sync.Mutex
	closed    bool
}

// NewPool loads the arc scorer at modelPath size times. A size below one is
// treated as one.
func NewPool(modelPath string, size int) (*Pool, error) {
	size = max(size, 1)

	pool := &Pool{
		sessions:  make(chan *Session, size),
		modelPath: modelPath,
		size:      size,
	}

	for i := range size {
		session, err := NewSession(modelPath)
		if err != nil {
			_ = pool.Close() // Best-effort cleanup; original error takes precedence
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		pool.sessions <- session
	}

	return pool, nil
}

// Acquire takes a session, waiting until one is released or ctx is done.
// Returns ErrPoolClosed once closed.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case session, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return session, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a session to the pool.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = s.Close() // Pool closed; clean up session
		return
	}
	p.mu.Unlock()

	select {
	case p.sessions <- s:
	default:
		_ = s.Close() // Pool full; clean up excess session
	}
}

// Infer scores all head/dependent pairs of one tokenized sentence on a
// pooled session.
func (p *Pool) Infer(ctx context.Context, inputIDs, attentionMask []int64) (ArcScores, error) {
	session, err := p.Acquire(ctx)
	if err != nil {
		return ArcScores{}, fmt.Errorf("acquiring session: %w", err)
	}
	defer p.Release(session)

	return session.Infer(ctx, inputIDs, attentionMask)
}

// Close closes all sessions in the pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.sessions)

	var errs []error
	for session := range p.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Size returns the number of sessions, which bounds concurrent parses.
func (p *Pool) Size() int {
	return p.size
}

// ModelPath returns the model file the sessions were created from.
func (p *Pool) ModelPath() string {
	return p.modelPath
}
