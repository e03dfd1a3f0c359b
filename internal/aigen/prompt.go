package aigen

import (
	"fmt"
	"strings"

	"github.com/abhisek/trivia/internal/trivia"
)

const systemPrompt = `You write questions for a pub-style trivia quiz.
Every question must have exactly one unambiguous correct answer that is
widely accepted and verifiable. Wrong options must be plausible but clearly
wrong. Do not repeat questions within a batch. Do not reveal the answer in
the question text. Use plain text only.`

func buildUserMessage(category string, s trivia.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d trivia questions.\n", s.Amount)
	fmt.Fprintf(&b, "Category: %s\n", category)
	if s.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", s.Difficulty)
	}
	switch s.Type {
	case trivia.TypeBoolean:
		b.WriteString("Format: True/False. correct_answer is \"True\" or \"False\" and incorrect_answers holds the other one.\n")
	default:
		b.WriteString("Format: multiple choice with exactly three incorrect_answers.\n")
	}
	return b.String()
}
