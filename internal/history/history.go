// Package history converts the flat {type, content} records persisted on a
// dialogue into the typed chat messages the conversation chain consumes,
// and back. The flat shape is a stored contract and must not drift.
package history

import (
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Record is one persisted turn of a dialogue.
type Record struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ErrUnknownRole is returned when a record carries a role tag outside
// human/ai/system. Corrupt history is rejected, never coerced.
var ErrUnknownRole = errors.New("unknown message role")

const (
	RoleHuman  = "human"
	RoleAI     = "ai"
	RoleSystem = "system"
)

// Decode maps flat records to typed chat messages, preserving order.
func Decode(records []Record) ([]llms.ChatMessage, error) {
	messages := make([]llms.ChatMessage, 0, len(records))
	for i, r := range records {
		switch r.Type {
		case RoleHuman:
			messages = append(messages, llms.HumanChatMessage{Content: r.Content})
		case RoleAI:
			messages = append(messages, llms.AIChatMessage{Content: r.Content})
		case RoleSystem:
			messages = append(messages, llms.SystemChatMessage{Content: r.Content})
		default:
			return nil, fmt.Errorf("record %d: %w: %q", i, ErrUnknownRole, r.Type)
		}
	}
	return messages, nil
}

// Encode is the inverse of Decode for the three supported roles.
func Encode(messages []llms.ChatMessage) ([]Record, error) {
	records := make([]Record, 0, len(messages))
	for i, m := range messages {
		var role string
		switch m.GetType() {
		case llms.ChatMessageTypeHuman:
			role = RoleHuman
		case llms.ChatMessageTypeAI:
			role = RoleAI
		case llms.ChatMessageTypeSystem:
			role = RoleSystem
		default:
			return nil, fmt.Errorf("message %d: %w: %q", i, ErrUnknownRole, m.GetType())
		}
		records = append(records, Record{Type: role, Content: m.GetContent()})
	}
	return records, nil
}
