package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	logrus "github.com/sirupsen/logrus"
)

type NATSPublisher struct {
	nc      *nats.Conn
	prefix  string
	metrics Recorder
}

func NewNATSPublisher(url, prefix string, m Recorder) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("trip-tracker"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logrus.WithError(err).Warn("NATS: disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logrus.WithField("url", nc.ConnectedUrl()).Info("NATS: reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logrus.Info("NATS: connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{nc: nc, prefix: subjectToken(prefix), metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

func (p *NATSPublisher) PublishTripEvent(ctx context.Context, ev TripEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	err = p.nc.Publish(Subject(p.prefix, ev.Type), b)
	if p.metrics != nil {
		p.metrics.EventPublished(err)
	}
	return err
}

// Subject returns "<prefix>.<eventType>", e.g. "trips.created".
func Subject(prefix, eventType string) string {
	return subjectToken(prefix) + "." + subjectToken(eventType)
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
