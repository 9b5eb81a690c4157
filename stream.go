package factor

import (
	"context"
	"errors"
	"io"
	"math/big"
	"sync"
)

// ErrStreamClosed is returned by [Stream.Send] when the stream has been closed. The engine
// never sends after the root join, so receiving it from a producer indicates a scheduling bug.
var ErrStreamClosed = errors.New("send on closed stream")

// Stream delivers factors to a consumer as a lazy, non-restartable, finite sequence.
//
// Multiple producers may Send concurrently; the stream serializes them internally. The buffer
// is bounded, so a Send blocks while the buffer is full and unblocks on consumption, close or
// context cancellation. Close is idempotent and irreversible.
//
// Go channels panic on double close and on send-after-close; Stream converts both into errors
// so concurrent teardown stays safe.
type Stream struct {
	ch     chan *big.Int
	once   sync.Once
	closed chan struct{} // closed when Close() is called

	mu       sync.RWMutex // protects isClosed and err, serializes Send with Close
	isClosed bool
	err      error
}

func newStream(capacity int) *Stream {
	return &Stream{
		ch:     make(chan *big.Int, capacity),
		closed: make(chan struct{}),
	}
}

// Send delivers v to the consumer. It blocks while the buffer is full, unblocking early if ctx
// is canceled or the stream is closed. Returns [ErrStreamClosed] after close, or the context
// error on cancellation.
func (s *Stream) Send(ctx context.Context, v *big.Int) error {
	s.mu.RLock()
	if s.isClosed {
		s.mu.RUnlock()
		return ErrStreamClosed
	}

	// Try non-blocking send first while holding the lock, so Close cannot
	// slip between the check above and the send.
	select {
	case s.ch <- v:
		s.mu.RUnlock()
		return nil
	default:
		// Buffer is full, need to block - but we can't hold the lock while blocking
	}
	s.mu.RUnlock()

	select {
	case s.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return ErrStreamClosed
	}
}

// Next returns the next factor. It blocks while the stream is open and empty, and returns
// io.EOF once the stream is closed and drained. If the factorization failed, Next returns the
// terminal error instead of io.EOF; factors received before the failure remain valid.
func (s *Stream) Next(ctx context.Context) (*big.Int, error) {
	select {
	case v := <-s.ch:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.closed:
		// Drain values buffered before the close.
		select {
		case v := <-s.ch:
			return v, nil
		default:
		}
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
}

// Collect drains the stream into a slice. On failure it returns the factors received so far
// alongside the terminal error.
func (s *Stream) Collect(ctx context.Context) ([]*big.Int, error) {
	var factors []*big.Int
	for {
		v, err := s.Next(ctx)
		if err == io.EOF {
			return factors, nil
		}
		if err != nil {
			return factors, err
		}
		factors = append(factors, v)
	}
}

// Close ends the sequence. It is safe to call multiple times; only the first call actually
// closes the stream.
func (s *Stream) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.isClosed = true
		s.mu.Unlock()

		// The value channel itself is never closed: a producer blocked in Send selects on
		// closed instead, so it can never hit the send-on-closed-channel panic.
		close(s.closed)
	})
}

// closeWithError records the terminal failure then closes the stream. Only the first close
// wins, whether clean or failed.
func (s *Stream) closeWithError(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.isClosed = true
		s.err = err
		s.mu.Unlock()

		close(s.closed)
	})
}

// Err returns the terminal failure, or nil if the stream is open or ended cleanly.
func (s *Stream) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Done returns a channel closed when the stream ends.
func (s *Stream) Done() <-chan struct{} {
	return s.closed
}
