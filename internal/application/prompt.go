package application

import (
	"strings"

	"github.com/bnema/ds-tutor-cli/internal/domain"
)

const tutorInstruction = `You are a data science tutor. Answer ONLY data science-related questions.
If the user asks something unrelated, politely decline.
Keep the conversation aware using memory.`

const emptyHistory = "(no previous turns)"

// BuildPrompt renders the fixed tutor instruction, the whole memory buffer and
// the new utterance into a single prompt.
func BuildPrompt(memory []domain.Exchange, userText string) string {
	var b strings.Builder
	b.WriteString(tutorInstruction)
	b.WriteString("\n\nConversation history:\n")
	b.WriteString(renderMemory(memory))
	b.WriteString("\n\nUser: ")
	b.WriteString(userText)

	return b.String()
}

func renderMemory(memory []domain.Exchange) string {
	if len(memory) == 0 {
		return emptyHistory
	}

	lines := make([]string, 0, len(memory)*2)
	for _, exchange := range memory {
		lines = append(lines, "Human: "+exchange.Human, "AI: "+exchange.AI)
	}

	return strings.Join(lines, "\n")
}
