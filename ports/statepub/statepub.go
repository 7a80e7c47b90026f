// Package statepub defines the outbound port for publishing object-state
// snapshots. The live-sync server emits one frame per state change; an
// adapter (in-memory for tests, NATS for real fan-out) carries it to
// interested consumers.
package statepub

import "context"

// Publisher carries serialized state frames to a subject. Implementations
// must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Nop returns a Publisher that discards every frame.
func Nop() Publisher { return nopPublisher{} }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, []byte) error { return nil }
