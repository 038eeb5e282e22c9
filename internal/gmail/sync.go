package gmail

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/yaswanthpuritipati/inboXpert/internal/classify"
	"github.com/yaswanthpuritipati/inboXpert/internal/core"
	"github.com/yaswanthpuritipati/inboXpert/internal/logger"
	"github.com/yaswanthpuritipati/inboXpert/internal/store"
)

// messageFetcher is the slice of Client the sync loop needs; tests
// substitute a fake.
type messageFetcher interface {
	ListMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
}

// Syncer pulls recent messages, classifies them, and upserts them into
// the store.
type Syncer struct {
	fetcher    messageFetcher
	classifier *classify.Classifier
	store      *store.Store
	now        func() time.Time
}

// NewSyncer wires a sync pipeline from its three stages.
func NewSyncer(fetcher messageFetcher, classifier *classify.Classifier, st *store.Store) *Syncer {
	return &Syncer{fetcher: fetcher, classifier: classifier, store: st, now: time.Now}
}

// Sync fetches up to maxMessages recent inbox messages and stores them.
// Individual message failures are logged and skipped so one bad message
// cannot abort a whole sync. Returns the number of messages stored.
func (s *Syncer) Sync(ctx context.Context, maxMessages int64) (int, error) {
	if maxMessages < 1 {
		maxMessages = 25
	}
	ids, err := s.fetcher.ListMessageIDs(ctx, "in:inbox", maxMessages)
	if err != nil {
		return 0, fmt.Errorf("failed to list messages: %w", err)
	}

	synced := 0
	for _, id := range ids {
		msg, err := s.fetcher.GetMessage(ctx, id)
		if err != nil {
			logger.Warn("skipping message that failed to fetch", "message_id", id, "err", err.Error())
			continue
		}
		record := s.toRecord(msg)
		if err := s.store.UpsertEmail(record); err != nil {
			return synced, fmt.Errorf("failed to store message %s: %w", id, err)
		}
		synced++
	}
	return synced, nil
}

func (s *Syncer) toRecord(msg *gmail.Message) core.EmailRecord {
	subject := header(msg, "Subject")
	body := extractBody(msg)
	return core.EmailRecord{
		ID:         uuid.NewString(),
		MessageID:  msg.Id,
		Sender:     header(msg, "From"),
		Subject:    subject,
		Snippet:    msg.Snippet,
		Body:       body,
		IsSpam:     s.classifier.IsSpam(subject, body),
		Intent:     s.classifier.Intent(subject, body),
		Received:   receivedTime(msg),
		DateSynced: s.now().UTC(),
	}
}
