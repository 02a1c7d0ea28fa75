package llm

import (
	"fmt"
	"strings"
)

// historyWindow is the number of trailing conversation turns included in
// the prompt.
const historyWindow = 5

// systemPrompt is the fixed instruction heading every composed prompt.
const systemPrompt = `You are an intelligent, friendly university study buddy assistant.

Your capabilities:
1. Answer questions about any subject in the syllabus
2. Help students prepare for exams (CT1, CT2, Semester)
3. Generate study notes and summaries
4. Explain complex topics simply
5. Create study plans

Guidelines:
- Be conversational and encouraging
- Use bullet points for clarity
- When explaining topics, relate to real-world examples
- For exam prep: CT1 = Units 1-2, CT2 = Units 3-4, Semester = All units
- Always cite which unit/subject the information is from

You have access to the syllabus context provided below.`

// noContextNotice replaces the context section when retrieval produced
// nothing, so the model answers from general knowledge instead of
// hallucinating citations.
const noContextNotice = "No specific context found. Answer based on general knowledge."

// ComposePrompt builds the single prompt string sent to the gateway: the
// system instruction, the retrieved context (or an explicit no-context
// notice), the last turns of conversation history as "role: content" lines,
// and the current question.
func ComposePrompt(contextText string, history []Message, question string) string {
	var sb strings.Builder

	sb.WriteString(systemPrompt)
	sb.WriteString("\n\nSYLLABUS CONTEXT:\n")
	if strings.TrimSpace(contextText) != "" {
		sb.WriteString(contextText)
	} else {
		sb.WriteString(noContextNotice)
	}

	sb.WriteString("\n\nCONVERSATION HISTORY:\n")
	if len(history) == 0 {
		sb.WriteString("None")
	} else {
		start := len(history) - historyWindow
		if start < 0 {
			start = 0
		}
		lines := make([]string, 0, historyWindow)
		for _, m := range history[start:] {
			lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
		}
		sb.WriteString(strings.Join(lines, "\n"))
	}

	sb.WriteString("\n\nSTUDENT QUESTION: ")
	sb.WriteString(question)
	sb.WriteString("\n\nProvide a helpful, accurate response:")

	return sb.String()
}
