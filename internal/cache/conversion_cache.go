package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/internal/storage"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
	"go.uber.org/zap"
)

const conversionFile = "conversion-rate.json"

// ConversionCache memoizes converter scrapes by unordered currency pair.
// Entries never expire out of the backing map: staleness is decided against
// the injected clock so a stale entry is overwritten by the next scrape, not
// silently evicted. Persistence is a side effect of Put, not a background
// task. Concurrent writers to the same pair race last-writer-wins.
type ConversionCache struct {
	entries *gocache.Cache
	store   *storage.Store
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
}

func NewConversionCache(store *storage.Store, ttl time.Duration, now func() time.Time) *ConversionCache {
	if now == nil {
		now = time.Now
	}
	c := &ConversionCache{
		entries: gocache.New(gocache.NoExpiration, 0),
		store:   store,
		ttl:     ttl,
		now:     now,
	}
	c.load()
	return c
}

// load restores previously persisted rates; a missing file is a fresh start.
func (c *ConversionCache) load() {
	var persisted map[string]models.ConversionRate
	found, err := c.store.ReadJSON(conversionFile, &persisted)
	if err != nil {
		logger.Warn("Failed to load conversion rate cache", zap.Error(err))
		return
	}
	if !found {
		return
	}
	for key, entry := range persisted {
		c.entries.Set(key, entry, gocache.NoExpiration)
	}
	logger.Info("Conversion rate cache loaded", zap.Int("entries", len(persisted)))
}

func pairKeys(from, to string) (string, string) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	return from + to, to + from
}

// Lookup returns the cached rate for the pair when a fresh entry exists in
// either direction. A reversed entry answers with the multiplicative inverse;
// the inversion only flips the rate's direction — a rate captured for one
// amount deliberately answers any amount.
func (c *ConversionCache) Lookup(from, to string) (string, bool) {
	key, altKey := pairKeys(from, to)

	var entry models.ConversionRate
	found := false
	for _, k := range []string{key, altKey} {
		if v, ok := c.entries.Get(k); ok {
			entry = v.(models.ConversionRate)
			found = true
			break
		}
	}
	if !found {
		metrics.ConversionCacheLookups.WithLabelValues("miss").Inc()
		return "", false
	}

	if c.now().Sub(entry.CapturedAt()) >= c.ttl {
		metrics.ConversionCacheLookups.WithLabelValues("stale").Inc()
		return "", false
	}

	if strings.EqualFold(entry.From, from) {
		metrics.ConversionCacheLookups.WithLabelValues("hit").Inc()
		return entry.Result, true
	}

	rate, err := strconv.ParseFloat(entry.Result, 64)
	if err != nil || rate == 0 {
		// An unparsable stored rate cannot be inverted; rescrape instead.
		metrics.ConversionCacheLookups.WithLabelValues("miss").Inc()
		return "", false
	}
	metrics.ConversionCacheLookups.WithLabelValues("inverse_hit").Inc()
	return strconv.FormatFloat(1/rate, 'f', -1, 64), true
}

// Put stores a freshly scraped rate under the pair key, stamps it with the
// cache's clock and persists the whole map to disk. Persistence failures are
// reported but the in-memory entry stays.
func (c *ConversionCache) Put(from, to, result string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	key, altKey := pairKeys(from, to)

	// Drop a stale reverse-direction entry so only one direction lingers.
	c.entries.Delete(altKey)
	c.entries.Set(key, models.ConversionRate{
		From:   from,
		To:     to,
		Result: result,
		Date:   c.now().UnixMilli(),
	}, gocache.NoExpiration)

	return c.persist()
}

func (c *ConversionCache) persist() error {
	snapshot := make(map[string]models.ConversionRate, c.entries.ItemCount())
	for key, item := range c.entries.Items() {
		snapshot[key] = item.Object.(models.ConversionRate)
	}
	return c.store.WriteJSON(conversionFile, snapshot)
}
