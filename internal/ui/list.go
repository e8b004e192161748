package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/saishagoel27/scribbly/internal/models"
)

var (
	_ list.Item = choiceItem{}
	_ list.Item = cardItem{}
)

// choiceItem is a labelled option in the configuration lists.
type choiceItem struct {
	label string
	desc  string
	value string
}

func (i choiceItem) FilterValue() string { return i.label }
func (i choiceItem) Title() string       { return i.label }
func (i choiceItem) Description() string { return i.desc }

func modeItems() []list.Item {
	return []list.Item{
		choiceItem{"Complete package", "summary and flashcards", string(models.CompletePackage)},
		choiceItem{"Flashcards only", "skip the summary", string(models.FlashcardsOnly)},
		choiceItem{"Summary only", "no flashcards", string(models.SummaryOnly)},
	}
}

func difficultyItems() []list.Item {
	return []list.Item{
		choiceItem{"Mixed", "a spread of difficulties", string(models.DifficultyMixed)},
		choiceItem{"Easy", "recall and definitions", string(models.DifficultyEasy)},
		choiceItem{"Medium", "application questions", string(models.DifficultyMedium)},
		choiceItem{"Hard", "synthesis and analysis", string(models.DifficultyHard)},
	}
}

// cardItem wraps [models.PersistedFlashcard] to implement [list.Item].
type cardItem struct {
	card *models.PersistedFlashcard
}

func (i cardItem) FilterValue() string { return i.card.Question() }
func (i cardItem) Title() string       { return i.card.Question() }
func (i cardItem) Description() string {
	return fmt.Sprintf("%s • %s", i.card.Difficulty(), i.card.Progress())
}
