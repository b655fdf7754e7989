package events

import (
	"context"
	"encoding/json"
	"time"

	"videohub-service/metrics"
	"videohub-service/model"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const eventVersion = "1.0"

// Publisher announces video lifecycle changes to other services.
type Publisher interface {
	Publish(ctx context.Context, event model.VideoEvent)
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher handles publishing video events to NATS
type NATSPublisher struct {
	conn   Conn
	prefix string
	source string
	log    *zap.Logger
	now    func() time.Time
}

// NewNATSPublisher creates a publisher on an established connection. Subjects
// are "<prefix>.<event type>".
func NewNATSPublisher(conn Conn, prefix, source string, log *zap.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:   conn,
		prefix: prefix,
		source: source,
		log:    log,
		now:    time.Now,
	}
}

// Connect dials NATS with reconnects enabled.
func Connect(url, name string, log *zap.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

// Publish never fails the caller: delivery problems are logged and counted.
func (p *NATSPublisher) Publish(_ context.Context, event model.VideoEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}
	event.Source = p.source
	event.Version = eventVersion

	subject := p.Subject(event.Type)
	data, err := json.Marshal(event)
	if err != nil {
		metrics.NatsMessagesPublished.WithLabelValues(subject, "error").Inc()
		p.log.Error("failed to encode video event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		metrics.NatsMessagesPublished.WithLabelValues(subject, "error").Inc()
		p.log.Error("failed to publish video event",
			zap.String("subject", subject),
			zap.String("video_id", event.VideoID),
			zap.Error(err))
		return
	}

	metrics.NatsMessagesPublished.WithLabelValues(subject, "success").Inc()
	p.log.Debug("published video event", zap.String("subject", subject), zap.String("video_id", event.VideoID))
}

// NopPublisher drops events. Used when NATS_URL is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.VideoEvent) {}
