package provider

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider is the generative-language collaborator.
type Provider interface {
	Complete(ctx context.Context, msgs []Message) (string, error)
	Name() string
	ModelName() string
	Models(ctx context.Context) ([]string, error)
}

// Persona builds the prompt for one shopper utterance.
func Persona(systemPrompt, utterance string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: "user query:" + utterance},
	}
}
