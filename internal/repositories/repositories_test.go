package repositories

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/shared"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestSessionRepository(t *testing.T) {
	t.Run("Create assigns ID and sequence", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		sess := models.NewSession()
		if err := repo.Create(sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if sess.ID() == "" {
			t.Error("expected generated ID")
		}
		if sess.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", sess.Sequence())
		}
	})

	t.Run("Get round trips a full session", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		sess := models.NewSession()
		sess.SetFile(&models.FileMetadata{
			Filename:    "notes.pdf",
			SizeBytes:   2048,
			Extension:   "pdf",
			Pages:       4,
			ReadingTime: "8 minutes",
			Complexity:  "medium",
		})
		sess.SetStage(models.StageStudy)
		sess.SetSummary(&models.SummaryResult{
			Best:       "A short summary.",
			Abstract:   "Key topics: testing",
			KeyPhrases: []string{"testing", "sqlite"},
			WordCount:  120,
			Quality:    "good",
		}, true)
		sess.RecordAnswer(true)
		sess.RecordAnswer(false)

		if err := repo.Create(sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		loaded, err := repo.Get(sess.ID())
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}

		if loaded.Stage() != models.StageStudy {
			t.Errorf("expected study stage, got %s", loaded.Stage())
		}
		if loaded.File() == nil || loaded.File().Filename != "notes.pdf" {
			t.Error("expected file metadata to round trip")
		}
		if loaded.Summary() == nil || loaded.Summary().Best != "A short summary." {
			t.Error("expected summary to round trip")
		}
		if len(loaded.Summary().KeyPhrases) != 2 {
			t.Errorf("expected 2 key phrases, got %d", len(loaded.Summary().KeyPhrases))
		}
		if !loaded.FallbackUsed() {
			t.Error("expected fallback flag to round trip")
		}
		if loaded.Stats().Correct != 1 || loaded.Stats().Incorrect != 1 {
			t.Error("expected stats to round trip")
		}
	})

	t.Run("Get returns ErrSessionNotFound for missing ID", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Latest returns most recently updated", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		first := models.NewSession()
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create first session: %v", err)
		}

		second := models.NewSession()
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create second session: %v", err)
		}

		second.SetFile(&models.FileMetadata{Filename: "late.pdf"})
		if err := repo.Update(second); err != nil {
			t.Fatalf("failed to update second session: %v", err)
		}

		latest, err := repo.Latest()
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}
		if latest.ID() != second.ID() {
			t.Errorf("expected latest to be %s, got %s", second.ID(), latest.ID())
		}
	})

	t.Run("Latest on empty database returns ErrSessionNotFound", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		if _, err := repo.Latest(); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Update persists stage changes", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		sess := models.NewSession()
		if err := repo.Create(sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		sess.SetFile(&models.FileMetadata{Filename: "notes.txt"})
		sess.SetStage(models.StageConfigure)
		if err := repo.Update(sess); err != nil {
			t.Fatalf("failed to update session: %v", err)
		}

		loaded, err := repo.Get(sess.ID())
		if err != nil {
			t.Fatalf("failed to reload session: %v", err)
		}
		if loaded.Stage() != models.StageConfigure {
			t.Errorf("expected configure stage, got %s", loaded.Stage())
		}
	})

	t.Run("Delete soft deletes", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		sess := models.NewSession()
		if err := repo.Create(sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if err := repo.Delete(sess.ID()); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}
		if _, err := repo.Get(sess.ID()); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
		}
		if err := repo.Delete(sess.ID()); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound on second delete, got %v", err)
		}
	})

	t.Run("List filters by stage", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		uploading := models.NewSession()
		if err := repo.Create(uploading); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		configured := models.NewSession()
		if err := repo.Create(configured); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		configured.SetFile(&models.FileMetadata{Filename: "a.pdf"})
		configured.SetStage(models.StageConfigure)
		if err := repo.Update(configured); err != nil {
			t.Fatalf("failed to update session: %v", err)
		}

		sessions, err := repo.List(map[string]any{"stage": models.StageConfigure})
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}
		if len(sessions) != 1 || sessions[0].ID() != configured.ID() {
			t.Errorf("expected only the configured session, got %d results", len(sessions))
		}
	})
}

func TestFlashcardRepository(t *testing.T) {
	seedSession := func(t *testing.T, db *sql.DB) *models.Session {
		t.Helper()
		sess := models.NewSession()
		if err := NewSessionRepository(db).Create(sess); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
		return sess
	}

	sampleCards := []models.Flashcard{
		{Question: "What is Go?", Answer: "A programming language.", Concept: "Go", Difficulty: "easy"},
		{Question: "What is a goroutine?", Answer: "A lightweight thread.", Concept: "Concurrency", Difficulty: "medium"},
		{Question: "What is a channel?", Answer: "A typed conduit.", Concept: "Concurrency", Difficulty: "medium"},
	}

	t.Run("CreateBatch persists cards in position order", func(t *testing.T) {
		db := testDB(t)
		sess := seedSession(t, db)
		repo := NewFlashcardRepository(db)

		persisted, err := repo.CreateBatch(sess.ID(), sampleCards)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		if len(persisted) != 3 {
			t.Fatalf("expected 3 cards, got %d", len(persisted))
		}

		loaded, err := repo.List(map[string]any{"session_id": sess.ID()})
		if err != nil {
			t.Fatalf("failed to list cards: %v", err)
		}
		for i, card := range loaded {
			if card.Position() != i {
				t.Errorf("expected position %d, got %d", i, card.Position())
			}
			if card.Progress() != models.ProgressUnseen {
				t.Errorf("expected new cards unseen, got %s", card.Progress())
			}
		}
		if loaded[0].Question() != "What is Go?" {
			t.Errorf("expected first card first, got %q", loaded[0].Question())
		}
	})

	t.Run("CreateBatch allocates sequences inside its own transaction", func(t *testing.T) {
		db := testDB(t)
		sess := seedSession(t, db)
		repo := NewFlashcardRepository(db)

		// The batch transaction holds the pool's connection, so sequence
		// numbers must come from the same transaction rather than a nested
		// one. A nested db.Begin() would see an empty :memory: database.
		persisted, err := repo.CreateBatch(sess.ID(), sampleCards)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}

		for i := 1; i < len(persisted); i++ {
			if persisted[i].Sequence() != persisted[i-1].Sequence()+1 {
				t.Errorf("expected consecutive sequences, got %d then %d", persisted[i-1].Sequence(), persisted[i].Sequence())
			}
		}

		var counter int
		if err := db.QueryRow("SELECT value FROM flashcards_sequence WHERE id = 1").Scan(&counter); err != nil {
			t.Fatalf("failed to read sequence counter: %v", err)
		}
		if counter != len(sampleCards) {
			t.Errorf("expected counter %d after batch, got %d", len(sampleCards), counter)
		}
	})

	t.Run("Update persists study progress", func(t *testing.T) {
		db := testDB(t)
		sess := seedSession(t, db)
		repo := NewFlashcardRepository(db)

		persisted, err := repo.CreateBatch(sess.ID(), sampleCards)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}

		card := persisted[0]
		card.Reveal()
		card.Record(true)
		card.Record(true)
		if err := repo.Update(card); err != nil {
			t.Fatalf("failed to update card: %v", err)
		}

		loaded, err := repo.Get(card.ID())
		if err != nil {
			t.Fatalf("failed to reload card: %v", err)
		}
		if loaded.Progress() != models.ProgressMastered {
			t.Errorf("expected mastered, got %s", loaded.Progress())
		}
		if loaded.Streak() != 2 {
			t.Errorf("expected streak 2, got %d", loaded.Streak())
		}
	})

	t.Run("List filters by progress", func(t *testing.T) {
		db := testDB(t)
		sess := seedSession(t, db)
		repo := NewFlashcardRepository(db)

		persisted, err := repo.CreateBatch(sess.ID(), sampleCards)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}

		persisted[1].Reveal()
		if err := repo.Update(persisted[1]); err != nil {
			t.Fatalf("failed to update card: %v", err)
		}

		learning, err := repo.List(map[string]any{"session_id": sess.ID(), "progress": string(models.ProgressLearning)})
		if err != nil {
			t.Fatalf("failed to list cards: %v", err)
		}
		if len(learning) != 1 {
			t.Errorf("expected 1 learning card, got %d", len(learning))
		}
	})

	t.Run("DeleteBySession removes all cards", func(t *testing.T) {
		db := testDB(t)
		sess := seedSession(t, db)
		repo := NewFlashcardRepository(db)

		if _, err := repo.CreateBatch(sess.ID(), sampleCards); err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}

		if err := repo.DeleteBySession(sess.ID()); err != nil {
			t.Fatalf("failed to delete cards: %v", err)
		}

		loaded, err := repo.List(map[string]any{"session_id": sess.ID()})
		if err != nil {
			t.Fatalf("failed to list cards: %v", err)
		}
		if len(loaded) != 0 {
			t.Errorf("expected no cards after delete, got %d", len(loaded))
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := testDB(t)

	first, err := NextSequence(db, "sessions")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "sessions")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if first != 1 || second != 2 {
		t.Errorf("expected 1 then 2, got %d then %d", first, second)
	}
}
