package chatsession

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
)

// ErrCannotSend is returned by Submit when the backend is unreachable, a
// request is already in flight, or the draft is blank.
var ErrCannotSend = errors.New("chatsession: cannot send")

// Backend is the assistant as seen by the client. Send returns an error only
// when the assistant could not be reached; in-band failures arrive in the reply.
type Backend interface {
	Send(ctx context.Context, utterance string) (assistant.ChatResponse, error)
	Health(ctx context.Context) error
}

// Session owns one conversation transcript and its view state.
type Session struct {
	backend Backend
	logger  *slog.Logger

	mu         sync.Mutex
	transcript []Message
	reachable  bool
	inFlight   bool
	draft      string
}

// NewSession starts with an empty transcript and an unprobed (unreachable) backend.
func NewSession(backend Backend, logger *slog.Logger) *Session {
	return &Session{
		backend: backend,
		logger:  logger.With("component", "chatsession.session"),
	}
}

// Probe checks backend liveness and records the outcome.
func (s *Session) Probe(ctx context.Context) bool {
	err := s.backend.Health(ctx)
	if err != nil {
		s.logger.Warn("assistant health probe failed", "error", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reachable = err == nil
	return s.reachable
}

// SetDraft replaces the pending input text.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// Draft returns the pending input text.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// CanSend reports whether Submit would start a request.
func (s *Session) CanSend() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSendLocked()
}

func (s *Session) canSendLocked() bool {
	return s.reachable && !s.inFlight && strings.TrimSpace(s.draft) != ""
}

// Reachable reports the outcome of the last probe or send.
func (s *Session) Reachable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reachable
}

// InFlight reports whether a submitted utterance is awaiting its reply.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Submit sends the current draft. The user message is appended before Submit
// returns; the result message is appended later and delivered on the channel,
// which is closed afterwards.
func (s *Session) Submit(ctx context.Context) (<-chan Message, error) {
	s.mu.Lock()
	if !s.canSendLocked() {
		s.mu.Unlock()
		return nil, ErrCannotSend
	}
	utterance := strings.TrimSpace(s.draft)
	s.transcript = append(s.transcript, newMessage(KindUser, utterance, nil))
	s.draft = ""
	s.inFlight = true
	s.mu.Unlock()

	out := make(chan Message, 1)
	go s.exchange(ctx, utterance, out)
	return out, nil
}

func (s *Session) exchange(ctx context.Context, utterance string, out chan<- Message) {
	var result Message
	defer func() {
		s.mu.Lock()
		s.transcript = append(s.transcript, result)
		s.inFlight = false
		s.mu.Unlock()
		out <- result
		close(out)
	}()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("assistant exchange panicked", "panic", r)
			result = newMessage(KindError, FriendlyError(""), nil)
		}
	}()

	reply, err := s.backend.Send(ctx, utterance)
	if err != nil {
		s.logger.Warn("assistant unreachable", "error", err)
		s.mu.Lock()
		s.reachable = false
		s.mu.Unlock()
		result = newMessage(KindError, connectivityNotice, nil)
		return
	}
	result = resultMessage(reply)
}

// Reset empties the transcript. Safe to call repeatedly.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
}

// Transcript returns a copy of the messages in insertion order.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}
