/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package transport

import "sync"

const scopeChunkSize = 4096

var scopePool = sync.Pool{
	New: func() any { return &Scope{} },
}

// Scope owns the byte buffers backing the transport values of one
// accessor, assign or detach invocation. Callers acquire a scope at entry
// and release it with Close on every exit path, typically via defer;
// values produced inside the scope must not outlive it.
type Scope struct {
	chunks [][]byte
	active []byte
}

// NewScope acquires a scope from the pool.
func NewScope() *Scope {
	return scopePool.Get().(*Scope)
}

// Close reclaims every buffer the scope handed out and returns the scope
// to the pool. Values produced within the scope are invalid afterwards.
func (s *Scope) Close() {
	for i := range s.chunks {
		s.chunks[i] = s.chunks[i][:0]
	}
	if len(s.chunks) > 0 {
		// Keep one chunk warm for the next user of this scope.
		s.active = s.chunks[0]
		s.chunks = s.chunks[:1]
	} else {
		s.active = nil
	}
	scopePool.Put(s)
}

func (s *Scope) alloc(n int) []byte {
	if cap(s.active)-len(s.active) < n {
		size := scopeChunkSize
		if n > size {
			size = n
		}
		s.active = make([]byte, 0, size)
		s.chunks = append(s.chunks, s.active)
	}
	off := len(s.active)
	s.active = s.active[:off+n]
	return s.active[off : off+n : off+n]
}

func (s *Scope) copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := s.alloc(len(b))
	copy(out, b)
	return out
}
