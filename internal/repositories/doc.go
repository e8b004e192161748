// Package repositories implements sqlite-backed persistence for wizard sessions and flashcards.
//
// [SessionRepository] stores each wizard session's stage, configuration,
// uploaded-file metadata, summary output, and aggregate study stats in a
// single row, standing in for the browser client's localStorage cache.
// [FlashcardRepository] stores generated cards with their per-card study
// progress so a resumed session keeps its unseen/learning/mastered tags.
//
// Both repositories use uuid primary keys, monotonically increasing sequence
// numbers (see [NextSequence]), and soft deletes via a deleted_at column.
package repositories
