package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.db == nil {
		t.Error("Store database should not be nil")
	}

	dbPath := filepath.Join(tmpDir, "inboxpert.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should be created")
	}
}

func TestNewStore_InvalidDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	invalidPath := filepath.Join(tmpDir, "file.txt")
	_ = os.WriteFile(invalidPath, []byte("test"), 0644)

	_, err := NewStore(invalidPath)
	if err == nil {
		t.Error("Expected error when creating store in invalid directory")
	}
}

func TestSaveDraft_GetDraft(t *testing.T) {
	store := newTestStore(t)

	draft := core.Draft{
		ID:            uuid.NewString(),
		Subject:       "Leave request",
		Body:          "Dear manager,\n\nI need Friday off.\n\nRegards,\n[Your Name]",
		Intent:        "request_info",
		Language:      "en",
		Raw:           `{"subject":"Leave request","body":"..."}`,
		ModelUsed:     "gpt-3.5-turbo",
		DateGenerated: time.Now().UTC(),
	}

	if err := store.SaveDraft(draft); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	got, err := store.GetDraft(draft.ID)
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetDraft returned nil for a saved draft")
	}
	if got.Subject != draft.Subject || got.Body != draft.Body || got.ModelUsed != draft.ModelUsed {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestGetDraft_Missing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetDraft("no-such-id")
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing draft, got %+v", got)
	}
}

func TestListDrafts_NewestFirst(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i, subject := range []string{"oldest", "middle", "newest"} {
		draft := core.Draft{
			ID:            uuid.NewString(),
			Subject:       subject,
			DateGenerated: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.SaveDraft(draft); err != nil {
			t.Fatalf("SaveDraft failed: %v", err)
		}
	}

	drafts, err := store.ListDrafts(2)
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].Subject != "newest" || drafts[1].Subject != "middle" {
		t.Errorf("wrong order: %q, %q", drafts[0].Subject, drafts[1].Subject)
	}
}

func TestUpsertEmail_NoDuplicatesOnResync(t *testing.T) {
	store := newTestStore(t)

	email := core.EmailRecord{
		ID:         uuid.NewString(),
		MessageID:  "gmail-msg-1",
		Sender:     "alice@example.com",
		Subject:    "Q3 numbers",
		Snippet:    "attached as discussed",
		Body:       "Full body here.",
		Intent:     "follow_up",
		Received:   time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC),
		DateSynced: time.Now().UTC(),
	}
	if err := store.UpsertEmail(email); err != nil {
		t.Fatalf("UpsertEmail failed: %v", err)
	}

	// Second sync of the same message with an updated classification.
	email.ID = uuid.NewString()
	email.IsSpam = true
	if err := store.UpsertEmail(email); err != nil {
		t.Fatalf("UpsertEmail (resync) failed: %v", err)
	}

	emails, err := store.ListEmails(10, false)
	if err != nil {
		t.Fatalf("ListEmails failed: %v", err)
	}
	if len(emails) != 1 {
		t.Fatalf("resync duplicated the message: %d rows", len(emails))
	}
	if !emails[0].IsSpam {
		t.Error("resync should have updated the spam flag")
	}
}

func TestListEmails_SpamFilterAndOrder(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	rows := []core.EmailRecord{
		{ID: uuid.NewString(), MessageID: "m1", Subject: "ham old", Received: base},
		{ID: uuid.NewString(), MessageID: "m2", Subject: "spam", IsSpam: true, Received: base.Add(time.Hour)},
		{ID: uuid.NewString(), MessageID: "m3", Subject: "ham new", Received: base.Add(2 * time.Hour)},
	}
	for _, r := range rows {
		if err := store.UpsertEmail(r); err != nil {
			t.Fatalf("UpsertEmail failed: %v", err)
		}
	}

	all, err := store.ListEmails(10, false)
	if err != nil {
		t.Fatalf("ListEmails failed: %v", err)
	}
	if len(all) != 3 || all[0].Subject != "ham new" {
		t.Errorf("wrong listing: %+v", all)
	}

	spam, err := store.ListEmails(10, true)
	if err != nil {
		t.Fatalf("ListEmails(spamOnly) failed: %v", err)
	}
	if len(spam) != 1 || spam[0].Subject != "spam" {
		t.Errorf("spam filter wrong: %+v", spam)
	}
}

func TestLastSyncTime(t *testing.T) {
	store := newTestStore(t)

	got, err := store.LastSyncTime()
	if err != nil {
		t.Fatalf("LastSyncTime failed: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("fresh store should report zero time, got %v", got)
	}

	synced := time.Date(2025, time.June, 2, 8, 30, 0, 0, time.UTC)
	email := core.EmailRecord{ID: uuid.NewString(), MessageID: "m1", DateSynced: synced}
	if err := store.UpsertEmail(email); err != nil {
		t.Fatalf("UpsertEmail failed: %v", err)
	}

	got, err = store.LastSyncTime()
	if err != nil {
		t.Fatalf("LastSyncTime failed: %v", err)
	}
	if !got.Equal(synced) {
		t.Errorf("LastSyncTime = %v, want %v", got, synced)
	}
}
