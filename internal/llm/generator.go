package llm

import "context"

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one entry of the ordered conversation history handed to the model.
type Turn struct {
	Role Role
	Text string
}

// Generator produces the persona's reply to a user message given the prior
// turn history.
type Generator interface {
	Reply(ctx context.Context, history []Turn, userText string) (string, error)
}
