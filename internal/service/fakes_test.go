package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"comment-go/internal/model"
	"comment-go/internal/repository"

	"gorm.io/gorm"
)

type fakeCommentStore struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*model.Comment
	writes   int
	err      error
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[int64]*model.Comment)}
}

func (f *fakeCommentStore) Create(ctx context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	c.ID = f.nextID
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute)
	c.CreatedAt = now
	c.UpdatedAt = now
	stored := *c
	f.comments[c.ID] = &stored
	f.writes++
	return nil
}

func (f *fakeCommentStore) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommentStore) GetByIDs(ctx context.Context, ids []int64) ([]model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := f.comments[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) Update(ctx context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.comments[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *c
	updated.Ref = existing.Ref
	updated.RefID = existing.RefID
	f.comments[c.ID] = &updated
	f.writes++
	return nil
}

func (f *fakeCommentStore) UpdateStatus(ctx context.Context, id int64, status model.CommentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	f.writes++
	return nil
}

func (f *fakeCommentStore) Delete(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.comments[id]; !ok {
		return false, nil
	}
	delete(f.comments, id)
	f.writes++
	return true, nil
}

func (f *fakeCommentStore) IncrementAbuse(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	c, ok := f.comments[id]
	if !ok {
		return false, nil
	}
	c.Abuse++
	return true, nil
}

func (f *fakeCommentStore) List(ctx context.Context, filter repository.CommentFilter, skip, limit int) ([]model.Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}

	matched := make([]model.Comment, 0)
	for _, c := range f.comments {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Ref != "" && c.Ref != filter.Ref {
			continue
		}
		if filter.RefID != nil && c.RefID != *filter.RefID {
			continue
		}
		if filter.CustomerID != nil && (c.CustomerID == nil || *c.CustomerID != *filter.CustomerID) {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(c.Title, filter.Keyword) && !strings.Contains(c.Content, filter.Keyword) {
			continue
		}
		matched = append(matched, *c)
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.Order == repository.OrderCreated {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if skip >= len(matched) {
		return []model.Comment{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (f *fakeCommentStore) RatingSummary(ctx context.Context, ref string, refID int64) (int64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	var sum int
	for _, c := range f.comments {
		if c.Ref == ref && c.RefID == refID && c.Status == model.CommentAccepted && c.Rating != nil {
			count++
			sum += *c.Rating
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, float64(sum) / float64(count), nil
}

type fakeMetaStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeMetaStore() *fakeMetaStore {
	return &fakeMetaStore{values: make(map[string]string)}
}

func metaKey(metaKey, elementKey string, elementID int64) string {
	return fmt.Sprintf("%s|%s|%d", metaKey, elementKey, elementID)
}

func (f *fakeMetaStore) GetVal(ctx context.Context, key, elementKey string, elementID int64) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[metaKey(key, elementKey, elementID)]
	return v, ok, nil
}

func (f *fakeMetaStore) SetVal(ctx context.Context, key, elementKey string, elementID int64, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[metaKey(key, elementKey, elementID)] = value
	return nil
}

func (f *fakeMetaStore) DeleteVal(ctx context.Context, key, elementKey string, elementID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := metaKey(key, elementKey, elementID)
	if _, ok := f.values[k]; !ok {
		return 0, nil
	}
	delete(f.values, k)
	return 1, nil
}

type fakeSettingStore struct {
	values map[string]string
	reads  int
	err    error
}

func newFakeSettingStore() *fakeSettingStore {
	return &fakeSettingStore{values: make(map[string]string)}
}

func (f *fakeSettingStore) GetMany(ctx context.Context, names []string) (map[string]string, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string)
	for _, n := range names {
		if v, ok := f.values[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

func (f *fakeSettingStore) WriteMany(ctx context.Context, values map[string]string) error {
	if f.err != nil {
		return f.err
	}
	for k, v := range values {
		f.values[k] = v
	}
	return nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.values[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

type staticSettings struct {
	cfg ModuleConfig
	err error
}

func (s staticSettings) Load(ctx context.Context) (ModuleConfig, error) {
	return s.cfg, s.err
}

type publishedMessage struct {
	Topic string
	Key   string
	Value []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, topic, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{Topic: topic, Key: key, Value: value})
	return nil
}

type fakePurchases struct {
	bought    map[[2]int64]bool
	due       []model.Purchase
	reminded  map[int64]time.Time
	lastRef   string
	lastUntil time.Time
}

func newFakePurchases() *fakePurchases {
	return &fakePurchases{bought: make(map[[2]int64]bool), reminded: make(map[int64]time.Time)}
}

func (f *fakePurchases) HasPurchased(ctx context.Context, customerID, productID int64) (bool, error) {
	return f.bought[[2]int64{customerID, productID}], nil
}

func (f *fakePurchases) ListDueForReminder(ctx context.Context, ref string, before time.Time, limit int) ([]model.Purchase, error) {
	f.lastRef = ref
	f.lastUntil = before
	out := make([]model.Purchase, 0)
	for _, p := range f.due {
		if _, done := f.reminded[p.ID]; done || p.OrderedAt.After(before) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePurchases) MarkReminded(ctx context.Context, id int64, at time.Time) error {
	f.reminded[id] = at
	return nil
}

var errBoom = errors.New("boom")

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
