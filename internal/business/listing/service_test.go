package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/staynest/listings-api/internal/repository"
	"github.com/staynest/listings-api/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu            sync.Mutex
	docs          map[string][]repository.Document
	getErr        map[string]error
	queryErr      error
	queryFailures int
	gets          map[string]int
	queries       []repository.QuerySpec
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:   make(map[string][]repository.Document),
		getErr: make(map[string]error),
		gets:   make(map[string]int),
	}
}

func (f *fakeStore) put(collection, id string, data map[string]any) {
	f.docs[collection] = append(f.docs[collection], repository.Document{ID: id, Data: data})
}

func (f *fakeStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := collection + "/" + id
	f.gets[key]++
	if err, ok := f.getErr[key]; ok {
		return repository.Document{}, err
	}
	for _, d := range f.docs[collection] {
		if d.ID == id {
			return d, nil
		}
	}
	return repository.Document{}, repository.ErrDocumentNotFound
}

func (f *fakeStore) Query(ctx context.Context, qs repository.QuerySpec) ([]repository.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, qs)
	if f.queryFailures > 0 {
		f.queryFailures--
		return nil, errors.New("unavailable")
	}
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.docs[qs.Collection], nil
}

func (f *fakeStore) readCount(collection, id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[collection+"/"+id]
}

type fakeCache struct {
	mu       sync.Mutex
	accounts map[string]model.Account
	sets     int
}

func (c *fakeCache) Get(ctx context.Context, collection, id string) (model.Account, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	acct, ok := c.accounts[collection+"/"+id]
	return acct, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, collection string, acct model.Account) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accounts == nil {
		c.accounts = make(map[string]model.Account)
	}
	c.accounts[collection+"/"+acct.ID] = acct
	c.sets++
	return nil
}

// slowStore delays owner account reads and records how many run at once.
// Reads of ids in hang block until their context ends.
type slowStore struct {
	*fakeStore
	delay    time.Duration
	hang     map[string]bool
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *slowStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	if collection == Hotels.AccountCollection {
		n := s.inFlight.Add(1)
		defer s.inFlight.Add(-1)
		for {
			p := s.peak.Load()
			if n <= p || s.peak.CompareAndSwap(p, n) {
				break
			}
		}
		if s.hang[id] {
			<-ctx.Done()
			return repository.Document{}, ctx.Err()
		}
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return repository.Document{}, ctx.Err()
		}
	}
	return s.fakeStore.Get(ctx, collection, id)
}

func newTestService(store Store, cache AccountCache) *Service {
	svc := NewService(store, cache, Config{FetchTimeout: time.Second, FanOutLimit: 2, ReadAttempts: 2}, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestServiceGetNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)

	_, err := svc.Get(context.Background(), Hotels, "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceGetJoinsOwner(t *testing.T) {
	store := newFakeStore()
	store.put("hotels", "h1", map[string]any{"name": "Sea Pearl", "hotelAdminId": "a1", "price": 100})
	store.put("hotelAdmins", "a1", map[string]any{"planTier": "pro", "phoneNumber": "017"})
	svc := newTestService(store, nil)

	got, err := svc.Get(context.Background(), Hotels, "h1")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.ID)
	assert.Equal(t, "pro", got.PlanTier)
	assert.True(t, got.IsPro)
	assert.Equal(t, "017", got.ContactPhone)
	assert.Equal(t, 1, store.readCount("hotelAdmins", "a1"))
}

func TestServiceGetWithoutOwner(t *testing.T) {
	store := newFakeStore()
	store.put("hotels", "h1", map[string]any{"name": "Orphan"})
	svc := newTestService(store, nil)

	got, err := svc.Get(context.Background(), Hotels, "h1")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlanTier, got.PlanTier)
	assert.Empty(t, store.gets["hotelAdmins/"])
}

func TestServiceGetUpstreamFailure(t *testing.T) {
	store := newFakeStore()
	store.getErr["hotels/h1"] = errors.New("deadline exceeded")
	svc := newTestService(store, nil)

	_, err := svc.Get(context.Background(), Hotels, "h1")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "get hotel", upstream.Op)
	assert.Equal(t, 2, store.readCount("hotels", "h1"))
}

func TestServiceListSharedOwnerReadOnce(t *testing.T) {
	store := newFakeStore()
	store.put("hotels", "h1", map[string]any{"hotelAdminId": "a1"})
	store.put("hotels", "h2", map[string]any{"hotelAdminId": "a1"})
	store.put("hotels", "h3", map[string]any{"hotelAdminId": "a2"})
	store.put("hotelAdmins", "a1", map[string]any{"planTier": "pro"})
	store.put("hotelAdmins", "a2", map[string]any{"planTier": "premium"})
	svc := newTestService(store, nil)

	got, err := svc.List(context.Background(), Hotels, Filters{Featured: true, City: "Dhaka"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 1, store.readCount("hotelAdmins", "a1"))
	assert.Equal(t, 1, store.readCount("hotelAdmins", "a2"))
	assert.True(t, got[0].IsPro)
	assert.True(t, got[1].IsPro)
	assert.False(t, got[2].IsPro)

	require.Len(t, store.queries, 1)
	assert.Equal(t, BuildQuery("hotels", Filters{Featured: true, City: "Dhaka"}), store.queries[0])
}

func TestServiceListAccountFailureUsesEmptyAccount(t *testing.T) {
	store := newFakeStore()
	store.put("hotels", "h1", map[string]any{"hotelAdminId": "a1", "planTier": "pro"})
	store.put("hotels", "h2", map[string]any{"hotelAdminId": "a2"})
	store.put("hotelAdmins", "a2", map[string]any{"planTier": "pro", "phone": "999"})
	store.getErr["hotelAdmins/a1"] = errors.New("permission denied")
	svc := newTestService(store, nil)

	got, err := svc.List(context.Background(), Hotels, Filters{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pro", got[0].PlanTier)
	assert.Equal(t, "", got[0].ContactPhone)
	assert.Equal(t, "999", got[1].ContactPhone)
}

func TestServiceListUpstreamFailure(t *testing.T) {
	store := newFakeStore()
	store.queryErr = errors.New("index missing")
	svc := newTestService(store, nil)

	_, err := svc.List(context.Background(), Hotels, Filters{})
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "list hotels", upstream.Op)
	assert.Len(t, store.queries, 2)
}

func TestServiceListRetriesTransientFailure(t *testing.T) {
	store := newFakeStore()
	store.queryFailures = 1
	store.put("properties", "p1", map[string]any{"agentId": "ag1"})
	store.put("agents", "ag1", map[string]any{"planTier": "agent_pro"})
	svc := newTestService(store, nil)

	got, err := svc.List(context.Background(), Properties, Filters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsPro)
	assert.Len(t, store.queries, 2)
}

func TestServiceListAccountTimeout(t *testing.T) {
	store := &slowStore{fakeStore: newFakeStore(), hang: map[string]bool{"a1": true}}
	store.put("hotels", "h1", map[string]any{"hotelAdminId": "a1", "phone": "listing-phone"})
	store.put("hotels", "h2", map[string]any{"hotelAdminId": "a2"})
	store.put("hotelAdmins", "a1", map[string]any{"planTier": "pro", "phone": "never-seen"})
	store.put("hotelAdmins", "a2", map[string]any{"planTier": "pro", "phone": "999"})
	svc := NewService(store, nil, Config{FetchTimeout: 50 * time.Millisecond, FanOutLimit: 4, ReadAttempts: 1}, zerolog.Nop())

	start := time.Now()
	got, err := svc.List(context.Background(), Hotels, Filters{})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, DefaultPlanTier, got[0].PlanTier)
	assert.Equal(t, "listing-phone", got[0].ContactPhone)
	assert.Equal(t, "999", got[1].ContactPhone)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestServiceListFanOutBounded(t *testing.T) {
	const limit = 3
	store := &slowStore{fakeStore: newFakeStore(), delay: 30 * time.Millisecond}
	for i := range 10 {
		owner := fmt.Sprintf("a%d", i)
		store.put("hotels", fmt.Sprintf("h%d", i), map[string]any{"hotelAdminId": owner})
		store.put("hotelAdmins", owner, map[string]any{"planTier": "pro"})
	}
	svc := NewService(store, nil, Config{FetchTimeout: time.Second, FanOutLimit: limit, ReadAttempts: 1}, zerolog.Nop())

	got, err := svc.List(context.Background(), Hotels, Filters{})
	require.NoError(t, err)
	require.Len(t, got, 10)
	for _, l := range got {
		assert.True(t, l.IsPro)
	}

	peak := store.peak.Load()
	assert.LessOrEqual(t, peak, int32(limit))
	assert.Greater(t, peak, int32(1))
}

func TestServiceListEmpty(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)

	got, err := svc.List(context.Background(), Hotels, Filters{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestServiceAccountCache(t *testing.T) {
	store := newFakeStore()
	store.put("hotels", "h1", map[string]any{"hotelAdminId": "a1"})
	store.put("hotels", "h2", map[string]any{"hotelAdminId": "a2"})
	store.put("hotelAdmins", "a2", map[string]any{"planTier": "pro"})
	cache := &fakeCache{accounts: map[string]model.Account{
		"hotelAdmins/a1": {ID: "a1", PlanTier: "pro", Phone: "cached"},
	}}
	svc := newTestService(store, cache)

	got, err := svc.List(context.Background(), Hotels, Filters{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cached", got[0].ContactPhone)
	assert.Equal(t, 0, store.readCount("hotelAdmins", "a1"))
	assert.Equal(t, 1, store.readCount("hotelAdmins", "a2"))
	assert.Equal(t, 1, cache.sets)
}

func TestDistinctIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, distinctIDs([]string{"a", "", "b", "a", "b"}))
	assert.Empty(t, distinctIDs(nil))
}
