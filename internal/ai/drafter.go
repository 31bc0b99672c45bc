// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"ailab/internal/models"
)

// draftFields are the properties every draft object must carry.
var draftFields = []string{"title", "excerpt", "content", "category", "readTime"}

// ErrEmptyTopic is returned when the admin submits a blank topic.
var ErrEmptyTopic = errors.New("ai: empty topic")

// Draft is the research report returned by the provider.
type Draft struct {
	Title    string          `json:"title"`
	Excerpt  string          `json:"excerpt"`
	Content  string          `json:"content"`
	Category models.Category `json:"category"`
	ReadTime string          `json:"readTime"`
}

// jsonSource is the part of Registry the drafter needs.
type jsonSource interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, fields []string) (string, error)
}

// Drafter turns an admin topic into a vault post.
type Drafter struct {
	src  jsonSource
	now  func() time.Time
	unit func() int
}

// NewDrafter creates a drafter backed by the registry's active provider.
func NewDrafter(src jsonSource) *Drafter {
	return &Drafter{
		src:  src,
		now:  time.Now,
		unit: func() int { return rand.IntN(1000) },
	}
}

// Draft asks the provider for a report about topic and parses it.
func (d *Drafter) Draft(ctx context.Context, topic string) (Draft, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Draft{}, ErrEmptyTopic
	}

	raw, err := d.src.GenerateJSON(ctx, ArchitectPrompt, draftPrompt(topic), draftFields)
	if err != nil {
		return Draft{}, fmt.Errorf("draft: %w", err)
	}
	return ParseDraft(raw)
}

// Publish drafts a report and dresses it as a post with a fresh id, a
// synthetic author, today's date and a placeholder image.
func (d *Drafter) Publish(ctx context.Context, topic string) (models.Post, error) {
	draft, err := d.Draft(ctx, topic)
	if err != nil {
		return models.Post{}, err
	}

	id := uuid.New().String()
	return models.Post{
		ID:       id,
		Title:    draft.Title,
		Excerpt:  draft.Excerpt,
		Content:  draft.Content,
		Category: draft.Category,
		Author:   fmt.Sprintf("AGI-Brain-Unit-%d", d.unit()),
		Date:     d.now().Format("Jan 2, 2006"),
		ReadTime: draft.ReadTime,
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/new-agi-%s/1200/600", id),
	}, nil
}

// ParseDraft decodes a draft object. Markdown code fences around the JSON
// are stripped and an unknown category becomes RESEARCH.
func ParseDraft(raw string) (Draft, error) {
	var d Draft
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &d); err != nil {
		return Draft{}, fmt.Errorf("draft unmarshal: %w", err)
	}
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
		return Draft{}, fmt.Errorf("draft: missing title or content")
	}

	c, ok := models.ParseCategory(string(d.Category))
	if !ok || c.IsWildcard() {
		c = models.CategoryResearch
	}
	d.Category = c
	if d.ReadTime == "" {
		d.ReadTime = "10m Sync"
	}
	return d, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
