package convert

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// MessageType discriminates inbound messages.
type MessageType string

// MessageCheckCSSText carries style sheet text to be converted.
const MessageCheckCSSText MessageType = "check-css-text"

// Message is inbound event sent by the host panel.
type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is posted back to the host panel.
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// UI is host side of the message channel.
type UI interface {
	PostMessage(n Notification)
	Close()
}

// ErrSessionClosed is returned for messages arriving after session ended.
var ErrSessionClosed = errors.New("session is closed")

// Session handles single request from the host. Whatever happens during
// processing session is closed afterwards.
type Session struct {
	log      *zap.Logger
	ui       UI
	pipeline *Pipeline
	closed   bool
}

func NewSession(pipeline *Pipeline, ui UI, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{log: log.Named("session"), ui: ui, pipeline: pipeline}
}

// OnMessage processes inbound message. Messages other than
// MessageCheckCSSText are ignored, but still end the session.
func (s *Session) OnMessage(ctx context.Context, msg Message) error {
	if s.closed {
		return ErrSessionClosed
	}
	defer s.close()

	if msg.Type != MessageCheckCSSText {
		s.log.Debug("Ignoring message", zap.String("type", string(msg.Type)))
		return nil
	}
	return s.pipeline.Run(ctx, msg.Text)
}

// Closed reports whether session has ended.
func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) close() {
	s.closed = true
	s.ui.Close()
}
