package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"adsdash/internal/cache"
	"adsdash/internal/core"
	"adsdash/internal/sheets"
)

// DefaultTTL is how long a fetched tab is memoized. Concurrent callers
// inside the window share the cached table without re-fetching.
const DefaultTTL = 5 * time.Minute

// table is the raw fetch result cached per tab-candidate list.
type table struct {
	Header []string
	Rows   [][]string
}

// Fetcher reads spreadsheet tabs through a TabReader with time-boxed
// memoization, falling back through alternate tab names and degrading
// remote failures to empty tables.
type Fetcher struct {
	reader sheets.TabReader
	cache  *cache.TTLCache[table]
	log    *slog.Logger
}

// NewFetcher wraps the reader with a TTL memo cache.
func NewFetcher(reader sheets.TabReader, ttl time.Duration, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		reader: reader,
		cache:  cache.New[table](ttl),
		log:    log,
	}
}

// Cache exposes the memo cache for cleanup registration.
func (f *Fetcher) Cache() cache.Cleaner { return f.cache }

// LeadTable fetches the first existing tab among candidates and builds
// lead records from it. Any remote failure yields an empty record set;
// the error never propagates past this boundary.
func (f *Fetcher) LeadTable(ctx context.Context, candidates ...string) []core.LeadRecord {
	t, ok := f.fetch(ctx, candidates)
	if !ok {
		return nil
	}
	return BuildLeadTable(t.Header, t.Rows)
}

// ContractTable fetches the first existing tab among candidates and
// builds contract records from it, with the same degrade-to-empty
// policy as LeadTable.
func (f *Fetcher) ContractTable(ctx context.Context, candidates ...string) []core.ContractRecord {
	t, ok := f.fetch(ctx, candidates)
	if !ok {
		return nil
	}
	return BuildContractTable(t.Header, t.Rows)
}

func (f *Fetcher) fetch(ctx context.Context, candidates []string) (table, bool) {
	if len(candidates) == 0 {
		return table{}, false
	}
	key := strings.Join(candidates, "|")
	t, err := f.cache.GetOrFill(key, func() (table, error) {
		return f.readFirst(ctx, candidates)
	})
	if err != nil {
		f.log.WarnContext(ctx, "sheet fetch failed, serving empty table",
			"tabs", key, "error", err)
		return table{}, false
	}
	return t, true
}

// readFirst tries each candidate tab in order, moving on only when the
// tab is missing. Other errors stop the chain.
func (f *Fetcher) readFirst(ctx context.Context, candidates []string) (table, error) {
	var lastErr error
	for _, tab := range candidates {
		header, rows, err := f.reader.ReadTab(ctx, tab)
		if err == nil {
			return table{Header: header, Rows: rows}, nil
		}
		lastErr = err
		if errors.Is(err, sheets.ErrTabNotFound) {
			continue
		}
		return table{}, err
	}
	return table{}, lastErr
}
