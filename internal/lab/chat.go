package lab

import (
	"errors"
	"strings"
	"time"

	"ailab/internal/models"
)

// FallbackReply replaces an agent reply whose stream failed.
const FallbackReply = "Neural link severed. Recalibrating quantum gate."

var greeting = models.ChatMessage{
	Role: models.ChatRoleAgent,
	Text: "Neurological sync established. I am the AI Lab Research Guardian. " +
		"How shall we traverse the quantum constructs today?",
}

var (
	// ErrChatBusy is returned when a message is sent while the agent is
	// still answering the previous one.
	ErrChatBusy = errors.New("lab: agent is still responding")

	// ErrEmptyMessage is returned for blank chat input.
	ErrEmptyMessage = errors.New("lab: empty message")
)

// AppendUser records a user message and marks the agent as typing. It
// returns the conversation before the new message, which is the history
// passed to the provider.
func (s *Session) AppendUser(text string) ([]models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typing {
		return nil, ErrChatBusy
	}
	history := s.historyLocked()
	s.chat = append(s.chat, models.ChatMessage{Role: models.ChatRoleUser, Text: text})
	s.typing = true
	return history, nil
}

// historyLocked returns the finished messages after the greeting.
func (s *Session) historyLocked() []models.ChatMessage {
	var out []models.ChatMessage
	for _, m := range s.chat[1:] {
		if m.Streaming || m.Text == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// BeginAgent opens an empty streaming agent message.
func (s *Session) BeginAgent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, models.ChatMessage{Role: models.ChatRoleAgent, Streaming: true})
}

// AppendDelta adds streamed text to the open agent message and returns the
// text accumulated so far.
func (s *Session) AppendDelta(delta string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.lastStreamingLocked()
	if last == nil {
		return ""
	}
	last.Text += delta
	return last.Text
}

// Finalize closes the open agent message and clears the typing flag. The
// final text is returned.
func (s *Session) Finalize() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.typing = false
	last := s.lastStreamingLocked()
	if last == nil {
		return ""
	}
	last.Streaming = false
	return last.Text
}

// Fail ends the exchange with the fallback reply. A partial agent message
// is kept as is; an empty one is replaced.
func (s *Session) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.typing = false
	if last := s.lastStreamingLocked(); last != nil {
		last.Streaming = false
		if last.Text == "" {
			s.chat = s.chat[:len(s.chat)-1]
		}
	}
	s.chat = append(s.chat, models.ChatMessage{Role: models.ChatRoleAgent, Text: FallbackReply})
}

func (s *Session) lastStreamingLocked() *models.ChatMessage {
	if len(s.chat) == 0 {
		return nil
	}
	last := &s.chat[len(s.chat)-1]
	if last.Role != models.ChatRoleAgent || !last.Streaming {
		return nil
	}
	return last
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.chat...)
}

// Typing reports whether an agent reply is in progress.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// Speech deadlines. A reservation covers synthesis; once playback starts
// the deadline is the audio length plus SpeechGrace.
const (
	SpeechReservation = 2 * time.Minute
	SpeechGrace       = 2 * time.Second
)

// BeginSpeech marks the session as speaking. It reports false when speech
// is already playing, in which case the caller must not synthesize again.
func (s *Session) BeginSpeech() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.speakingLocked() {
		return false
	}
	s.speaking = true
	s.speakingUntil = s.now().Add(SpeechReservation)
	return true
}

// PlaySpeech records that audio of length d has been handed to the client.
// Speaking ends on its own once d plus SpeechGrace has passed.
func (s *Session) PlaySpeech(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.speaking {
		return
	}
	s.speakingUntil = s.now().Add(d + SpeechGrace)
}

// EndSpeech clears the speaking flag once playback ends or synthesis fails.
func (s *Session) EndSpeech() {
	s.mu.Lock()
	s.speaking = false
	s.speakingUntil = time.Time{}
	s.mu.Unlock()
}

// Speaking reports whether speech is playing.
func (s *Session) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speakingLocked()
}

func (s *Session) speakingLocked() bool {
	return s.speaking && s.now().Before(s.speakingUntil)
}
