// Package ui implements the interactive wizard using bubbletea's Elm architecture.
//
// The TUI walks the four-stage study workflow:
//  1. [UploadView] : Pick a document with the bubbles filepicker and upload it
//  2. [ConfigureView] : Choose study mode, difficulty focus, and flashcard count
//  3. [ConfirmView] : Review the estimated processing time and start the run
//  4. [ProcessView] : Monitor the four-phase pipeline via real-time progress updates
//  5. [StudyView] / [SummaryView] : Study flashcards and read the generated summary
//  6. [ResultView] : Display failures with a retry path
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the StudyEngine, providing non-blocking
// status reporting during processing. Stage navigation always goes through the
// session store, which enforces the wizard's linear progression: esc moves backward
// only to stages the store reports as completed.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
