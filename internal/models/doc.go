// Package models defines domain entities and persistence interfaces for the Scribbly study-material client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs exchanged with the processing backend
//   - [FileMetadata] : Extracted document metadata returned by the upload endpoint
//   - [StudyConfig] : Generation options chosen during the configure stage
//   - [SummaryResult] : Summary, key phrases, and content analysis
//   - [Flashcard] : A generated question/answer pair
//   - [ProcessingResults] : Everything produced by a processing run
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Session] : A wizard session tracking stage progression and results
//   - [PersistedFlashcard] : A flashcard with per-card study progress (unseen/learning/mastered)
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
