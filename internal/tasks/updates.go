package tasks

import "fmt"

// ProgressUpdate represents a progress event during a processing run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Phase enumerates the four pipeline phases of a processing run.
type Phase int

const (
	ExtractText Phase = iota
	AnalyzeContent
	GenerateCards
	Finalize
)

func (p Phase) String() string {
	switch p {
	case ExtractText:
		return "extract_text"
	case AnalyzeContent:
		return "analyze_content"
	case GenerateCards:
		return "generate_cards"
	case Finalize:
		return "finalize"
	default:
		return ""
	}
}

// Fraction returns overall pipeline completion for the phase start, used by
// progress bars that render the run as a single bar.
func (p Phase) Fraction() float64 {
	switch p {
	case ExtractText:
		return 0.1
	case AnalyzeContent:
		return 0.5
	case GenerateCards:
		return 0.75
	case Finalize:
		return 1.0
	default:
		return 0
	}
}

func extractingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractText,
		Step:    1,
		Total:   1,
		Message: "Extracting text from your document...",
	}
}

func extractedUpdate(words int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractText,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Extracted %d words", words),
	}
}

func analyzingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzeContent,
		Step:    1,
		Total:   1,
		Message: "Analyzing content...",
	}
}

func analyzeFallbackUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzeContent,
		Step:    1,
		Total:   1,
		Message: "Using backup summary generation...",
	}
}

func generatingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateCards,
		Step:    0,
		Total:   total,
		Message: "Creating flashcards...",
	}
}

func cardsFallbackUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateCards,
		Step:    0,
		Total:   0,
		Message: "Using backup flashcard generation...",
	}
}

func cardsCreatedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateCards,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Created %d flashcards", count),
	}
}

func finalizeUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finalize,
		Step:    1,
		Total:   1,
		Message: "All done! Ready to study!",
	}
}
