package tasks

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/saishagoel27/scribbly/internal/models"
)

// Local generation used when the backend's analyze or flashcard endpoints
// fail: frequency-based key phrases, an extractive summary, and simple
// definition or fill-in-the-blank cards derived from the text.

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "must": true, "can": true,
	"this": true, "that": true, "these": true, "those": true,
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// extractKeyPhrases returns up to max words ranked by frequency, skipping
// stop words and words of three characters or fewer.
func extractKeyPhrases(text string, max int) []string {
	freq := map[string]int{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, `.,!?;:"()[]`)
		if len(word) > 3 && !stopWords[word] {
			freq[word]++
		}
	}

	words := make([]string, 0, len(freq))
	for word := range freq {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}

// extractiveSummary builds a summary from the leading and trailing sentences.
func extractiveSummary(text string) string {
	sentences := strings.Split(text, ".")

	var picked []string
	if len(sentences) > 6 {
		picked = append(picked, sentences[:3]...)
		picked = append(picked, sentences[len(sentences)-2:]...)
	} else {
		n := len(sentences)
		if n > 4 {
			n = 4
		}
		picked = sentences[:n]
	}

	var kept []string
	for _, s := range picked {
		s = strings.TrimSpace(s)
		if len(s) > 10 {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ". ")
}

// fallbackSummary assembles a SummaryResult entirely from local heuristics.
func fallbackSummary(text string) *models.SummaryResult {
	phrases := extractKeyPhrases(text, 15)

	abstract := ""
	if len(phrases) > 0 {
		top := phrases
		if len(top) > 5 {
			top = top[:5]
		}
		abstract = fmt.Sprintf("Key topics: %s", strings.Join(top, ", "))
	}

	return &models.SummaryResult{
		Best:       extractiveSummary(text),
		Abstract:   abstract,
		KeyPhrases: phrases,
		WordCount:  len(strings.Fields(text)),
		Quality:    "basic",
	}
}

// fallbackFlashcards creates simple definition-style flashcards from the
// text's longer sentences. Sentences opening with a capitalized term become
// "What is X?" cards; the rest become fill-in-the-blank cards.
func fallbackFlashcards(text string, numCards int) []models.Flashcard {
	raw := sentenceSplit.Split(text, -1)
	var sentences []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) > 30 {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) > numCards {
		sentences = sentences[:numCards]
	}

	var cards []models.Flashcard
	for i, sentence := range sentences {
		words := strings.Fields(sentence)

		var term string
		for _, word := range words {
			runes := []rune(word)
			if len(runes) > 3 && unicode.IsUpper(runes[0]) {
				term = word
				break
			}
		}

		card := models.Flashcard{
			Concept:    fmt.Sprintf("Concept %d", i+1),
			Difficulty: "easy",
		}

		switch {
		case term != "":
			card.Question = fmt.Sprintf("What is %s?", term)
			card.Answer = sentence
		case len(words) > 8:
			blank := len(words) / 2
			missing := words[blank]
			masked := make([]string, len(words))
			copy(masked, words)
			masked[blank] = "______"
			card.Question = fmt.Sprintf("Fill in the blank: %s", strings.Join(masked, " "))
			card.Answer = fmt.Sprintf("The missing word is: %s. Complete sentence: %s", missing, sentence)
		default:
			preview := sentence
			if len(preview) > 50 {
				preview = preview[:50]
			}
			card.Question = fmt.Sprintf("Explain this concept: %s...", preview)
			card.Answer = sentence
		}

		cards = append(cards, card)
	}

	if len(cards) == 0 {
		answer := text
		if len(answer) > 200 {
			answer = answer[:200] + "..."
		}
		cards = []models.Flashcard{{
			Question:   "What is the main topic of this material?",
			Answer:     answer,
			Concept:    "Main Topic",
			Difficulty: "easy",
		}}
	}

	return cards
}
