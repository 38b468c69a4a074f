package service

import (
	"strings"

	"github.com/docqa-labs/docqa/internal/domain"
)

const (
	maxSuggestions = 3
	maxTopicWords  = 2
)

// Suggest produces up to three follow-up prompts. Three fixed heuristics
// fire on question words, then up to two "Tell me more about {word}"
// suggestions are built from topic words harvested out of the reference
// snippets. No model call is involved. Topic words are taken in first-seen
// order across references so the output is deterministic.
func Suggest(question, answer string, references []domain.Reference) []string {
	suggestions := make([]string, 0, maxSuggestions+maxTopicWords)

	q := strings.ToLower(question)
	if strings.Contains(q, "what") {
		suggestions = append(suggestions, "How does this relate to other aspects mentioned in the documents?")
	}
	if strings.Contains(q, "why") {
		suggestions = append(suggestions, "What are the implications of this?")
	}
	if strings.Contains(q, "when") {
		suggestions = append(suggestions, "What happened before or after this?")
	}

	seen := make(map[string]bool)
	topics := 0
	for _, ref := range references {
		if topics >= maxTopicWords {
			break
		}
		for _, word := range strings.Fields(strings.ToLower(ref.ContentSnippet)) {
			if len([]rune(word)) <= 4 || seen[word] {
				continue
			}
			seen[word] = true
			suggestions = append(suggestions, "Tell me more about "+word)
			topics++
			if topics >= maxTopicWords {
				break
			}
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
