package statepub

import (
	"context"
	"sync"
)

// Frame is one recorded publication.
type Frame struct {
	Subject string
	Data    []byte
}

// MemPublisher records frames in memory, for tests and examples.
type MemPublisher struct {
	mu     sync.RWMutex
	frames []Frame
}

func NewMemPublisher() *MemPublisher {
	return &MemPublisher{}
}

func (m *MemPublisher) Publish(_ context.Context, subject string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, Frame{Subject: subject, Data: cp})
	return nil
}

// Frames returns a snapshot of everything published so far.
func (m *MemPublisher) Frames() []Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Frame, len(m.frames))
	copy(out, m.frames)
	return out
}

var _ Publisher = (*MemPublisher)(nil)
