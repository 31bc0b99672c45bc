package lab

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ailab/internal/models"
)

func TestChatExchange(t *testing.T) {
	s, _ := newTestSession(t)

	history, err := s.AppendUser("  what is rivermind?  ")
	if err != nil {
		t.Fatalf("AppendUser: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history = %+v, want empty (greeting excluded)", history)
	}
	if !s.Typing() {
		t.Error("expected typing after a user message")
	}

	if _, err := s.AppendUser("again"); !errors.Is(err, ErrChatBusy) {
		t.Errorf("second message while typing: err = %v, want ErrChatBusy", err)
	}

	s.BeginAgent()
	s.AppendDelta("A **compressed** ")
	if got := s.AppendDelta("mind."); got != "A **compressed** mind." {
		t.Errorf("accumulated = %q", got)
	}
	if got := s.Finalize(); got != "A **compressed** mind." {
		t.Errorf("Finalize = %q", got)
	}
	if s.Typing() {
		t.Error("typing should clear after Finalize")
	}

	want := []models.ChatMessage{
		greeting,
		{Role: models.ChatRoleUser, Text: "what is rivermind?"},
		{Role: models.ChatRoleAgent, Text: "A **compressed** mind."},
	}
	if diff := cmp.Diff(want, s.Messages()); diff != "" {
		t.Errorf("transcript (-want +got):\n%s", diff)
	}

	history, err = s.AppendUser("and the DNA DNS?")
	if err != nil {
		t.Fatalf("AppendUser: %v", err)
	}
	if diff := cmp.Diff(want[1:], history); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestChatRejectsBlank(t *testing.T) {
	s, _ := newTestSession(t)
	if _, err := s.AppendUser("   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}
	if s.Typing() {
		t.Error("blank input must not start typing")
	}
}

func TestChatFail(t *testing.T) {
	tests := []struct {
		name    string
		partial string
		want    []models.ChatMessage
	}{
		{
			name: "empty reply replaced",
			want: []models.ChatMessage{
				{Role: models.ChatRoleUser, Text: "hi"},
				{Role: models.ChatRoleAgent, Text: FallbackReply},
			},
		},
		{
			name:    "partial reply kept",
			partial: "Sync",
			want: []models.ChatMessage{
				{Role: models.ChatRoleUser, Text: "hi"},
				{Role: models.ChatRoleAgent, Text: "Sync"},
				{Role: models.ChatRoleAgent, Text: FallbackReply},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			if _, err := s.AppendUser("hi"); err != nil {
				t.Fatal(err)
			}
			s.BeginAgent()
			if tt.partial != "" {
				s.AppendDelta(tt.partial)
			}
			s.Fail()

			if s.Typing() {
				t.Error("typing should clear after Fail")
			}
			if diff := cmp.Diff(tt.want, s.Messages()[1:]); diff != "" {
				t.Errorf("transcript (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSpeechSingleFlight(t *testing.T) {
	s, _ := newTestSession(t)
	if !s.BeginSpeech() {
		t.Fatal("first BeginSpeech refused")
	}
	if s.BeginSpeech() {
		t.Error("second BeginSpeech should be refused while speaking")
	}
	s.EndSpeech()
	if s.Speaking() {
		t.Error("still speaking after EndSpeech")
	}
	if !s.BeginSpeech() {
		t.Error("BeginSpeech refused after EndSpeech")
	}
}

func TestSpeechExpiresAfterPlayback(t *testing.T) {
	s, clock := newTestSession(t)
	if !s.BeginSpeech() {
		t.Fatal("BeginSpeech refused")
	}
	s.PlaySpeech(3 * time.Second)

	clock.advance(3 * time.Second)
	if !s.Speaking() {
		t.Error("should still be speaking within the grace period")
	}
	if s.BeginSpeech() {
		t.Error("BeginSpeech should be refused while playback may run")
	}

	// The client never reports the end of playback.
	clock.advance(SpeechGrace)
	if s.Speaking() {
		t.Error("speaking should lapse once playback and grace have passed")
	}
	if !s.BeginSpeech() {
		t.Error("BeginSpeech refused after the deadline")
	}
}

func TestSpeechReservationLapses(t *testing.T) {
	s, clock := newTestSession(t)
	s.BeginSpeech()

	clock.advance(SpeechReservation - time.Second)
	if !s.Speaking() {
		t.Error("reservation should hold while synthesis may still run")
	}
	clock.advance(time.Second)
	if s.Speaking() {
		t.Error("reservation should lapse")
	}
}

func TestPlaySpeechWithoutBegin(t *testing.T) {
	s, _ := newTestSession(t)
	s.PlaySpeech(time.Minute)
	if s.Speaking() {
		t.Error("PlaySpeech must not start speech on its own")
	}
}
