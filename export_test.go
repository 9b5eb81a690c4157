package factor

import "github.com/panjf2000/ants/v2"

// Pools returns the underlying pools
func (p *Pools) Pools() []*ants.Pool {
	if p == nil {
		return nil
	}
	return p.pools
}

// Submit exposes submit to tests
func (p *Pools) Submit(f func(*Pools)) error {
	return p.submit(f)
}

// NewStreamBuffered exposes newStream to tests
func NewStreamBuffered(capacity int) *Stream {
	return newStream(capacity)
}

// CloseWithError exposes closeWithError to tests
func (s *Stream) CloseWithError(err error) {
	s.closeWithError(err)
}
