package producttypes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix = "producttypes:draft:"
	submitLockTTL  = 30 * time.Second
)

// ErrDraftNotFound is returned when a draft expired or was discarded.
var ErrDraftNotFound = errors.New("producttypes: draft not found")

// Draft is a mounted creation page persisted between requests.
type Draft struct {
	ID            string   `json:"id"`
	Page          Snapshot `json:"page"`
	TaxClassPages int      `json:"taxClassPages"`
}

// DraftStore keeps drafts in Redis.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore constructs a DraftStore.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &DraftStore{client: client, ttl: ttl}
}

// New allocates a draft for a freshly mounted page.
func (s *DraftStore) New(ctx context.Context, page *CreatePage) (Draft, error) {
	d := Draft{ID: uuid.NewString(), Page: page.Snapshot(), TaxClassPages: 1}
	if err := s.Save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Load fetches a draft by id.
func (s *DraftStore) Load(ctx context.Context, id string) (Draft, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Draft{}, ErrDraftNotFound
	}
	raw, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, ErrDraftNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("load draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	d.ID = id
	if d.TaxClassPages < 1 {
		d.TaxClassPages = 1
	}
	return d, nil
}

// Save stores d and refreshes its expiry.
func (s *DraftStore) Save(ctx context.Context, d Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKeyPrefix+d.ID, raw, s.ttl).Err()
}

// Discard removes the draft and any submit lock.
func (s *DraftStore) Discard(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKeyPrefix+id, submitLockKey(id)).Err()
}

// Begin takes the submit lock of a draft. It reports false when a
// submission is already in flight.
func (s *DraftStore) Begin(ctx context.Context, id string) (bool, error) {
	return s.client.SetNX(ctx, submitLockKey(id), time.Now().UTC().Format(time.RFC3339Nano), submitLockTTL).Result()
}

// Submitting reports whether the submit lock is held.
func (s *DraftStore) Submitting(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, submitLockKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Release drops the submit lock.
func (s *DraftStore) Release(ctx context.Context, id string) error {
	return s.client.Del(ctx, submitLockKey(id)).Err()
}

func submitLockKey(id string) string {
	return draftKeyPrefix + id + ":submit"
}
