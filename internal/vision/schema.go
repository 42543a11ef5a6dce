package vision

import "github.com/abhisek/polyglot/internal/llm"

// DetectionSchema is the structured answer requested from the model.
var DetectionSchema = &llm.Schema{
	Name:        "teeth-detection",
	Description: "Whether an image shows human teeth, a smile, or dental anatomy",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{
				"type":        "string",
				"description": "A short description of what the image shows",
			},
			"is_teeth": map[string]any{
				"type":        "boolean",
				"description": "True if the image contains human teeth, a smile, or dental anatomy",
			},
			"confidence_score": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     1.0,
				"description": "Confidence in the is_teeth verdict, 0.0 to 1.0",
			},
		},
		"required":             []any{"description", "is_teeth", "confidence_score"},
		"additionalProperties": false,
	},
}
