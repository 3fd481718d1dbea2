// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

// Package mailer delivers outbound e-mail through SMTP. Messages are
// enqueued fire-and-forget: Enqueue never blocks a request handler, and
// a supervised dispatcher drains the queue at a bounded rate. When no
// SMTP host is configured the mailer silently drops everything.
package mailer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	gomail "gopkg.in/gomail.v2"

	"github.com/vericapture/vericapture/internal/config"
	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/metrics"
)

// WelcomeSubject is the subject line of the registration welcome e-mail.
const WelcomeSubject = "🎉 Welcome to VeriCapture – No More Fake News for You!"

// Message is a queued outbound e-mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// WelcomeMessage builds the registration welcome e-mail for a new user.
func WelcomeMessage(firstName, email string) Message {
	body := fmt.Sprintf("Hello %s,\n\n"+
		"Welcome to VeriCapture!\n\n"+
		"You're now officially part of a real-time, truth-driven platform.\n\n"+
		"🚀 Explore. Share. Stay ahead.\n\n"+
		"- VeriCapture Team", firstName)
	return Message{To: email, Subject: WelcomeSubject, Body: body}
}

// sender abstracts gomail.Dialer so the dispatcher can be tested without
// an SMTP server.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer queues and dispatches outbound e-mail.
type Mailer struct {
	enabled bool
	from    string
	queue   chan Message
	sender  sender
	limiter *rate.Limiter
}

// New builds a Mailer from the mail configuration. A disabled mailer
// (no SMTP host) accepts and drops messages.
func New(cfg config.MailConfig) *Mailer {
	m := &Mailer{
		enabled: cfg.Enabled(),
		from:    cfg.From,
		queue:   make(chan Message, queueSize(cfg.QueueSize)),
		limiter: rate.NewLimiter(sendRate(cfg.SendsPerMinute), 1),
	}
	if m.enabled {
		m.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

func queueSize(n int) int {
	if n < 1 {
		return 256
	}
	return n
}

func sendRate(perMinute int) rate.Limit {
	if perMinute < 1 {
		perMinute = 30
	}
	return rate.Every(time.Minute / time.Duration(perMinute))
}

// Enqueue queues a message for delivery without blocking. A full queue
// drops the message; callers never fail because of mail.
func (m *Mailer) Enqueue(msg Message) {
	if !m.enabled {
		return
	}
	select {
	case m.queue <- msg:
		metrics.MailQueueDepth.Set(float64(len(m.queue)))
	default:
		metrics.EmailsSent.WithLabelValues("dropped").Inc()
		logging.Warn().Str("to", msg.To).Msg("mail queue full, message dropped")
	}
}

// Serve implements suture.Service: it drains the queue until the context
// is canceled, pacing sends through the rate limiter.
func (m *Mailer) Serve(ctx context.Context) error {
	if !m.enabled {
		// Nothing to do; park until shutdown so the supervisor
		// does not treat this as a crash loop.
		<-ctx.Done()
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-m.queue:
			metrics.MailQueueDepth.Set(float64(len(m.queue)))
			if err := m.limiter.Wait(ctx); err != nil {
				return err
			}
			m.send(msg)
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (m *Mailer) String() string {
	return "mail-dispatcher"
}

// send delivers one message, logging failures rather than propagating
// them; a bad address must not restart the dispatcher.
func (m *Mailer) send(msg Message) {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.sender.DialAndSend(gm); err != nil {
		metrics.EmailsSent.WithLabelValues("failure").Inc()
		logging.Error().Err(err).Str("to", msg.To).Msg("mail delivery failed")
		return
	}
	metrics.EmailsSent.WithLabelValues("success").Inc()
	logging.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail delivered")
}
