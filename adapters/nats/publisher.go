package nats

import (
	"context"

	"github.com/xaliphostes/introspection/ports/statepub"
)

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	// Connect opens the connection. Defaults to ConnectDefault.
	Connect Connector
	// SubjectPrefix is prepended (dot-separated) to every subject.
	// Empty means subjects pass through unchanged.
	SubjectPrefix string
}

// Publisher publishes state frames over core NATS.
type Publisher struct {
	nc     ncPublisher
	close  closeFunc
	prefix string
}

// ncPublisher is the subset of *nats.Conn the adapter uses; tests
// substitute a recorder.
type ncPublisher interface {
	Publish(subj string, data []byte) error
}

// NewPublisher connects and returns a statepub.Publisher backed by NATS.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	doConnect := cfg.Connect
	if doConnect == nil {
		doConnect = ConnectDefault()
	}

	nc, closeConn, err := doConnect()
	if err != nil {
		return nil, err
	}

	return &Publisher{nc: nc, close: closeConn, prefix: cfg.SubjectPrefix}, nil
}

func (p *Publisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.prefix != "" {
		subject = p.prefix + "." + subject
	}
	return p.nc.Publish(subject, data)
}

// Close releases the underlying connection.
func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}

var _ statepub.Publisher = (*Publisher)(nil)
