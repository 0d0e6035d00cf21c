package orchestrator

// #region imports
import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/danielpatrickdp/orchestra/internal/conversation"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// charsPerToken is the rough size of one token used for context budgeting.
const charsPerToken = 4

// #region build-context

// buildContext turns stored history into adapter context. Only the newest
// window turns are kept, then the oldest are dropped until everything fits
// the provider's MaxContext budget. The stored history is never modified.
func buildContext(system, query string, history []conversation.Turn, window, maxContext int) provider.GenerateContext {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}

	msgs := make([]provider.Message, 0, len(history))
	for _, t := range history {
		role := provider.RoleUser
		if t.Role == conversation.RoleAssistant {
			role = provider.RoleAssistant
		}
		msgs = append(msgs, provider.Message{Role: role, Content: t.Content})
	}

	if maxContext > 0 {
		budget := maxContext*charsPerToken - utf8.RuneCountInString(system) - utf8.RuneCountInString(query)
		used := 0
		for _, m := range msgs {
			used += utf8.RuneCountInString(m.Content)
		}
		for len(msgs) > 0 && used > budget {
			used -= utf8.RuneCountInString(msgs[0].Content)
			msgs = msgs[1:]
		}
	}

	return provider.GenerateContext{SystemPrompt: system, History: msgs}
}

// #endregion

// #region improvement-prompt

// improvementPrompt asks the same provider to rewrite its answer.
func improvementPrompt(query, response string, suggestions []string) string {
	var b strings.Builder
	b.WriteString("Improve the answer below. Keep it accurate and reply in the language of the question.\n\n")
	fmt.Fprintf(&b, "Question:\n%s\n\nAnswer:\n%s\n", query, response)
	if len(suggestions) > 0 {
		b.WriteString("\nFix the following:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	b.WriteString("\nReturn only the improved answer.")
	return b.String()
}

// #endregion
