package listing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/staynest/listings-api/internal/repository"
	"github.com/staynest/listings-api/pkg/model"
	"golang.org/x/sync/errgroup"
)

// Store abstracts the document reads the listing service needs.
type Store interface {
	Get(ctx context.Context, collection, id string) (repository.Document, error)
	Query(ctx context.Context, qs repository.QuerySpec) ([]repository.Document, error)
}

// AccountCache is an optional read-through cache for owner accounts.
type AccountCache interface {
	Get(ctx context.Context, collection, id string) (model.Account, bool, error)
	Set(ctx context.Context, collection string, account model.Account) error
}

// Config tunes outbound reads.
type Config struct {
	FetchTimeout time.Duration
	FanOutLimit  int
	ReadAttempts int
}

// Service reads listings and joins them with their owning accounts.
type Service struct {
	store Store
	cache AccountCache
	cfg   Config
	log   zerolog.Logger
	now   func() time.Time
}

// NewService builds a Service. cache may be nil.
func NewService(store Store, cache AccountCache, cfg Config, logger zerolog.Logger) *Service {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.FanOutLimit <= 0 {
		cfg.FanOutLimit = DefaultFanOutLimit
	}
	if cfg.ReadAttempts <= 0 {
		cfg.ReadAttempts = DefaultReadAttempts
	}
	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
		log:   logger.With().Str("component", "listing").Logger(),
		now:   time.Now,
	}
}

// Get reads one listing by id and resolves its owner with one dependent read.
func (s *Service) Get(ctx context.Context, c Catalog, id string) (model.Listing, error) {
	var doc repository.Document
	err := s.read(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.store.Get(ctx, c.Collection, id)
		return err
	})
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return model.Listing{}, ErrNotFound
	}
	if err != nil {
		return model.Listing{}, &UpstreamError{Op: "get " + c.Name, Err: err}
	}

	ownerID := OwnerID(c, doc)
	accounts := s.fetchAccounts(ctx, c, []string{ownerID})
	l := Normalize(c, doc, accounts[ownerID], s.now())
	s.checkPricing(c, l)
	return l, nil
}

// List reads a filtered page of listings, newest first.
func (s *Service) List(ctx context.Context, c Catalog, f Filters) ([]model.Listing, error) {
	qs := BuildQuery(c.Collection, f)

	var docs []repository.Document
	err := s.read(ctx, func(ctx context.Context) error {
		var err error
		docs, err = s.store.Query(ctx, qs)
		return err
	})
	if err != nil {
		return nil, &UpstreamError{Op: "list " + c.Collection, Err: err}
	}

	ownerIDs := make([]string, len(docs))
	for i, doc := range docs {
		ownerIDs[i] = OwnerID(c, doc)
	}
	accounts := s.fetchAccounts(ctx, c, ownerIDs)

	now := s.now()
	out := make([]model.Listing, 0, len(docs))
	for i, doc := range docs {
		l := Normalize(c, doc, accounts[ownerIDs[i]], now)
		s.checkPricing(c, l)
		out = append(out, l)
	}
	return out, nil
}

// fetchAccounts reads each distinct owner once, concurrently and bounded by
// FanOutLimit. Owners that cannot be read resolve to an empty account.
func (s *Service) fetchAccounts(ctx context.Context, c Catalog, ids []string) map[string]model.Account {
	distinct := distinctIDs(ids)
	out := make(map[string]model.Account, len(distinct))
	if len(distinct) == 0 {
		return out
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.FanOutLimit)
	for _, id := range distinct {
		g.Go(func() error {
			acct := s.fetchAccount(ctx, c, id)
			mu.Lock()
			out[id] = acct
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Service) fetchAccount(ctx context.Context, c Catalog, id string) model.Account {
	if s.cache != nil {
		acct, ok, err := s.cache.Get(ctx, c.AccountCollection, id)
		if err != nil {
			s.log.Warn().Err(err).Str("account", id).Msg("account cache read failed")
		} else if ok {
			return acct
		}
	}

	var doc repository.Document
	err := s.read(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.store.Get(ctx, c.AccountCollection, id)
		return err
	})
	if errors.Is(err, repository.ErrDocumentNotFound) {
		s.log.Debug().Str("collection", c.AccountCollection).Str("account", id).Msg("owner account missing")
		return model.Account{}
	}
	if err != nil {
		s.log.Warn().Err(err).Str("collection", c.AccountCollection).Str("account", id).Msg("owner account read failed, using empty account")
		return model.Account{}
	}

	acct := DecodeAccount(doc)
	if s.cache != nil {
		if err := s.cache.Set(ctx, c.AccountCollection, acct); err != nil {
			s.log.Warn().Err(err).Str("account", id).Msg("account cache write failed")
		}
	}
	return acct
}

// read runs an idempotent store read with a per-attempt timeout. Not-found is
// final and never retried.
func (s *Service) read(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= s.cfg.ReadAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		err = fn(attemptCtx)
		cancel()
		if err == nil || errors.Is(err, repository.ErrDocumentNotFound) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt < s.cfg.ReadAttempts {
			s.log.Debug().Err(err).Int("attempt", attempt).Msg("store read failed, retrying")
		}
	}
	return err
}

// checkPricing flags listings whose active discount exceeds the base price.
// Such listings are served as stored.
func (s *Service) checkPricing(c Catalog, l model.Listing) {
	if l.HasDiscount && l.DisplayPrice > l.OriginalPrice {
		s.log.Debug().
			Str("catalog", c.Name).
			Str("id", l.ID).
			Float64("discountPrice", l.DisplayPrice).
			Float64("price", l.OriginalPrice).
			Msg("discount price above base price")
	}
}

func distinctIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
