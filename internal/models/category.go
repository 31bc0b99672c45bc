// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// Category is the research area a vault post belongs to.
type Category string

const (
	CategoryAI       Category = "AI"
	CategoryAGI      Category = "AGI"
	CategoryLLM      Category = "LLM"
	CategoryPrompts  Category = "PROMPTS"
	CategoryResearch Category = "RESEARCH"
	CategoryAgents   Category = "AGENTS"

	// CategoryAll is the wildcard filter. It is never stored on a post.
	CategoryAll Category = "ALL"
)

// Categories lists every concrete category in display order. The order is
// part of the generator's seed space, so it must not change.
var Categories = []Category{
	CategoryAI,
	CategoryAGI,
	CategoryLLM,
	CategoryPrompts,
	CategoryResearch,
	CategoryAgents,
}

// ParseCategory converts user input (case-insensitive) into a Category.
// The wildcard "ALL" is accepted. Returns false for anything else.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if c == CategoryAll {
		return c, true
	}
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// IsWildcard reports whether c is the "ALL" filter (or unset).
func (c Category) IsWildcard() bool {
	return c == CategoryAll || c == ""
}
