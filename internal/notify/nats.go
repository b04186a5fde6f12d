// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/hades-rt/hades-core/pkg/log"
)

// NATSConfig configures a connection to a NATS server.
type NATSConfig struct {
	Address       string
	Username      string
	Password      string
	CredsFilePath string
}

// NATSSink publishes every event as JSON on the subject `hades.<event>`.
type NATSSink struct {
	conn *nats.Conn
}

// NewNATSSink connects to cfg.Address and returns a Sink publishing onto
// it. The connection auto-reconnects; a publish after a disconnect is
// buffered by the underlying client rather than failing immediately.
func NewNATSSink(cfg NATSConfig) (*NATSSink, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("notify: NATS address is required")
	}

	var opts []nats.Option
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.CredsFilePath != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFilePath))
	}
	opts = append(opts,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("notify: NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("notify: NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Errorf("notify: NATS error: %v", err)
		}),
	)

	nc, err := nats.Connect(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("notify: NATS connect failed: %w", err)
	}

	log.Infof("notify: NATS connected to %s", cfg.Address)
	return &NATSSink{conn: nc}, nil
}

// Publish marshals payload as JSON and sends it on hades.<event>. A
// marshal or publish failure is logged and swallowed — a notification
// sink is best-effort, it must never fail the caller's own operation.
func (s *NATSSink) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("notify: marshaling %q event: %v", event, err)
		return
	}
	subject := "hades." + event
	if err := s.conn.Publish(subject, data); err != nil {
		log.Errorf("notify: publishing to %q: %v", subject, err)
	}
}

// Close flushes and closes the underlying NATS connection.
func (s *NATSSink) Close() {
	if s.conn != nil {
		_ = s.conn.Flush()
		s.conn.Close()
	}
}
