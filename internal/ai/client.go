package ai

import (
	"context"
	"fmt"
)

// TitleSuggester is the interface for AI providers.
type TitleSuggester interface {
	// SuggestTitles analyzes the CV text and returns the five most relevant
	// job titles, most relevant first.
	SuggestTitles(ctx context.Context, cvText string) ([]string, error)
}

// SuggestedTitleCount is the number of titles the model must return.
const SuggestedTitleCount = 5

// buildPrompt creates the instruction for the AI model. The model is told to
// answer with a bare JSON array so the response stays machine-parseable.
func buildPrompt(cvText string) string {
	return fmt.Sprintf(`Analyze the following CV and suggest the top %d most relevant job titles based on skills, experience, and qualifications.

IMPORTANT: Return ONLY a valid JSON array of exactly %d job title strings. Do not include any other text, explanations, or formatting outside the JSON array.

Example of expected format:
["Job Title 1", "Job Title 2", "Job Title 3", "Job Title 4", "Job Title 5"]

CV to analyze:
%s`, SuggestedTitleCount, SuggestedTitleCount, cvText)
}
