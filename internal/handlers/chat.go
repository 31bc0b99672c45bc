// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ailab/internal/ai"
	"ailab/internal/audio"
	"ailab/internal/cache"
	"ailab/internal/lab"
	"ailab/internal/markdown"
	"ailab/internal/middleware"
	"ailab/internal/models"
	"ailab/internal/render"
)

// insightFallback is shown when the architect cannot be reached.
const insightFallback = "Neural uplink failed. Quantum interference detected."

// assistant is the slice of the AI registry the chat widget needs.
type assistant interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Stream(ctx context.Context, systemPrompt string, history []models.ChatMessage, prompt string) iter.Seq2[string, error]
	Speak(ctx context.Context, text string) ([]byte, error)
}

// Chat groups the handlers behind the floating chat widget: streamed
// replies from the guardian persona, spoken playback of replies and
// one-shot questions to the architect persona about a post.
type Chat struct {
	renderer *render.Renderer
	ai       assistant
	speech   *cache.SpeechCache
}

// NewChat creates the chat handler group. speech may wrap a nil Valkey
// client, in which case every reply is synthesized afresh.
func NewChat(renderer *render.Renderer, a assistant, speech *cache.SpeechCache) *Chat {
	return &Chat{renderer: renderer, ai: a, speech: speech}
}

// Messages renders the transcript.
func (c *Chat) Messages(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	c.renderer.WriteFragment(w, "chat_messages", render.ChatData{
		Messages: sess.Messages(),
		Typing:   sess.Typing(),
		Speaking: sess.Speaking(),
	})
}

// Send records the visitor's message and streams the agent's reply as
// server-sent events: "delta" per chunk, then "done" with the rendered
// reply, or "error" with the fallback text when the stream fails.
func (c *Chat) Send(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	text := r.FormValue("text")
	if msg := validateMessage(text); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	history, err := sess.AppendUser(text)
	switch {
	case errors.Is(err, lab.ErrEmptyMessage):
		http.Error(w, "Message is required.", http.StatusBadRequest)
		return
	case errors.Is(err, lab.ErrChatBusy):
		http.Error(w, "The guardian is still responding.", http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Debug("clear write deadline", "error", err)
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sess.BeginAgent()

	var (
		streamErr error
		received  bool
	)
	for delta, err := range c.ai.Stream(r.Context(), ai.GuardianPrompt, history, strings.TrimSpace(text)) {
		if err != nil {
			streamErr = err
			break
		}
		if delta == "" {
			continue
		}
		received = true
		sess.AppendDelta(delta)
		if err := writeEvent(w, "delta", map[string]string{"text": delta}); err != nil {
			streamErr = err
			break
		}
		rc.Flush()
	}
	if streamErr == nil && !received {
		streamErr = errors.New("empty reply")
	}

	if streamErr != nil {
		slog.Error("chat stream failed", "error", streamErr)
		sess.Fail()
		writeEvent(w, "error", map[string]string{"text": lab.FallbackReply})
		rc.Flush()
		return
	}

	reply := sess.Finalize()
	html, err := markdown.ToHTML(reply)
	if err != nil {
		slog.Warn("render chat reply", "error", err)
	}
	writeEvent(w, "done", map[string]string{"text": reply, "html": html})
	rc.Flush()
}

// Speech synthesizes text and returns it as a WAV file. Only one playback
// runs per session; the client reports the end through SpeechEnded.
func (c *Chat) Speech(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	text := strings.TrimSpace(r.FormValue("text"))
	if msg := validateSpeech(text); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if !sess.BeginSpeech() {
		http.Error(w, "Speech already playing.", http.StatusConflict)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), aiTimeout)
	defer cancel()

	var buf bytes.Buffer
	length, err := c.synthesize(ctx, text, &buf)
	if err != nil {
		sess.EndSpeech()
		slog.Error("speech synthesis failed", "error", err)
		if errors.Is(err, ai.ErrUnsupported) || errors.Is(err, ai.ErrNoProvider) {
			http.Error(w, "Speech is not available.", http.StatusNotImplemented)
			return
		}
		http.Error(w, "Speech synthesis failed.", http.StatusBadGateway)
		return
	}

	// Speaking lapses after playback even if the client never reports the end.
	sess.PlaySpeech(length)

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("write speech", "error", err)
	}
}

// synthesize writes text as WAV to out, using cached PCM when available,
// and returns the playback length.
func (c *Chat) synthesize(ctx context.Context, text string, out io.Writer) (time.Duration, error) {
	pcm, ok := c.speech.Get(ctx, text)
	if !ok {
		var err error
		pcm, err = c.ai.Speak(ctx, text)
		if err != nil {
			return 0, err
		}
		c.speech.Set(ctx, text, pcm)
	}

	decoded, err := audio.DecodePCM16(pcm, ai.SpeechSampleRate, 1)
	if err != nil {
		return 0, fmt.Errorf("decode speech: %w", err)
	}
	if err := decoded.WriteWAV(out); err != nil {
		return 0, err
	}
	return decoded.Duration(), nil
}

// SpeechEnded clears the speaking flag once playback finishes.
func (c *Chat) SpeechEnded(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	sess.EndSpeech()
	w.WriteHeader(http.StatusNoContent)
}

// Ask answers a question about a post with the architect persona, using
// the post as context. Failures render the fallback text in place of the
// answer.
func (c *Chat) Ask(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	post, ok := sess.Post(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	question := r.FormValue("question")
	if msg := validateQuestion(question); msg != "" {
		fail(w, r, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), aiTimeout)
	defer cancel()

	answer, err := c.ai.Generate(ctx, ai.ArchitectPromptWithContext(post.Title+"\n\n"+post.Content), strings.TrimSpace(question))
	if err != nil {
		slog.Error("architect query failed", "post_id", post.ID, "error", err)
		answer = insightFallback
	}
	c.renderer.WriteFragment(w, "architect_answer", answer)
}

// writeEvent writes one server-sent event with a JSON payload. HTML in the
// payload is left unescaped; the client inserts it as markup.
func writeEvent(w io.Writer, event string, payload any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, bytes.TrimRight(buf.Bytes(), "\n"))
	return err
}
