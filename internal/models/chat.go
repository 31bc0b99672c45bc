package models

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleAgent ChatRole = "agent"
)

// ChatMessage is one entry in a session's chat transcript. Streaming is true
// while agent text is still arriving from the provider.
type ChatMessage struct {
	Role      ChatRole `json:"role"`
	Text      string   `json:"text"`
	Streaming bool     `json:"streaming,omitempty"`
}
