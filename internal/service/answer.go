package service

import "strings"

// Fallback reasoning strings for when the model ignores the output schema.
const (
	reasoningFallbackNoMarkers   = "Answer derived from document analysis."
	reasoningFallbackNoReasoning = "Based on the provided document context."
)

// ParseAnswer splits raw model output into answer and reasoning. It is a
// two-state capture machine over lines: the ANSWER:/REASONING: markers open
// their section, and subsequent non-empty lines are space-joined onto
// whichever section is active. A missing marker is tolerated: with neither
// marker the whole output becomes the answer, and a missing REASONING:
// gets a fixed fallback.
func ParseAnswer(raw string) (answer, reasoning string) {
	section := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, AnswerMarker):
			section = "answer"
			answer = strings.TrimSpace(strings.TrimPrefix(line, AnswerMarker))
		case strings.HasPrefix(line, ReasoningMarker):
			section = "reasoning"
			reasoning = strings.TrimSpace(strings.TrimPrefix(line, ReasoningMarker))
		case section == "answer" && line != "":
			answer += " " + line
		case section == "reasoning" && line != "":
			reasoning += " " + line
		}
	}

	if answer == "" && reasoning == "" {
		answer = raw
		reasoning = reasoningFallbackNoMarkers
	} else if reasoning == "" {
		reasoning = reasoningFallbackNoReasoning
	}

	return strings.TrimSpace(answer), strings.TrimSpace(reasoning)
}
