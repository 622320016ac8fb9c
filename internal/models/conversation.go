package models

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message within a video conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// History is an ordered, append-only sequence of turns. The retrieval and
// answer components receive it as an argument and never mutate it.
type History []Turn
