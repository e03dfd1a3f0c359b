package aigen

import "github.com/abhisek/trivia/internal/llm"

// BatchSchema is the response shape requested from the model.
var BatchSchema = &llm.Schema{
	Name:        "trivia-batch",
	Description: "A batch of trivia questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text, plain UTF-8 without HTML entities",
						},
						"correct_answer": map[string]any{
							"type": "string",
						},
						"incorrect_answers": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Three wrong options for multiple choice, or the single opposite of the correct answer for True/False",
						},
					},
					"required":             []any{"question", "correct_answer", "incorrect_answers"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}
