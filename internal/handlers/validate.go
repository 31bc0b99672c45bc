package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for text sent to the AI providers.
const (
	maxTopicLen    = 500
	maxMessageLen  = 4_000
	maxQuestionLen = 1_000
	maxSpeechLen   = 5_000
)

// validateTopic checks a research topic from the admin form and returns the
// first error found.
func validateTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "Research objective is required."
	}
	if utf8.RuneCountInString(topic) > maxTopicLen {
		return "Research objective is too long (max 500 characters)."
	}
	return ""
}

// validateMessage checks a chat message.
func validateMessage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "Message is required."
	}
	if utf8.RuneCountInString(text) > maxMessageLen {
		return "Message is too long (max 4,000 characters)."
	}
	return ""
}

// validateQuestion checks a question about a post.
func validateQuestion(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return "Question is required."
	}
	if utf8.RuneCountInString(q) > maxQuestionLen {
		return "Question is too long (max 1,000 characters)."
	}
	return ""
}

// validateSpeech checks text submitted for synthesis.
func validateSpeech(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "Nothing to speak."
	}
	if utf8.RuneCountInString(text) > maxSpeechLen {
		return "Text is too long to speak (max 5,000 characters)."
	}
	return ""
}
