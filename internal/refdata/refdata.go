// Package refdata resolves reference code sets (relation, gender, voucher type, ...) to
// descriptions through a Redis read-through cache in front of the ref_codes table.
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// Set names a reference code set.
type Set string

const (
	Relation     Set = "relation"
	Gender       Set = "gender"
	Race         Set = "race"
	Ethnicity    Set = "ethnicity"
	IDType       Set = "id-type"
	PhoneType    Set = "phone-type"
	VoucherType  Set = "voucher-type"
	AccountType  Set = "account-type"
	LeadType     Set = "lead-type"
	FileType     Set = "file-type"
	UnitType     Set = "unit-type"
	DocumentType Set = "document-type"
)

// AllSets lists every set the application rules consult.
var AllSets = []Set{
	Relation, Gender, Race, Ethnicity, IDType, PhoneType, VoucherType,
	AccountType, LeadType, FileType, UnitType, DocumentType,
}

// Dictionary maps set -> code -> description.
type Dictionary map[Set]map[string]string

// Has reports whether code resolves in set.
func (d Dictionary) Has(set Set, code string) bool {
	_, ok := d[set][code]
	return ok
}

// Describe returns the description of code, or code itself when it does not resolve.
func (d Dictionary) Describe(set Set, code string) string {
	if desc, ok := d[set][code]; ok {
		return desc
	}
	return code
}

// Source loads one code set from the system of record.
type Source interface {
	LoadSet(ctx context.Context, set string) (map[string]string, error)
}

// Cache is the reference-data provider. It is constructed once at startup and shared.
type Cache struct {
	rdb    redis.Cmdable
	source Source
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCache(rdb redis.Cmdable, source Source, ttl time.Duration, prefix string, log logger.Logger) *Cache {
	if prefix == "" {
		prefix = "refdata:"
	}
	return &Cache{
		rdb:    rdb,
		source: source,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "refdata"}),
	}
}

func (c *Cache) key(set Set) string {
	return c.prefix + string(set)
}

// Load resolves the requested sets, reading through the cache.
// A cache failure falls back to the source; a source failure is returned.
func (c *Cache) Load(ctx context.Context, sets ...Set) (Dictionary, error) {
	if len(sets) == 0 {
		sets = AllSets
	}
	dict := make(Dictionary, len(sets))
	for _, set := range sets {
		if _, done := dict[set]; done {
			continue
		}
		codes, err := c.loadSet(ctx, set)
		if err != nil {
			return nil, err
		}
		dict[set] = codes
	}
	return dict, nil
}

func (c *Cache) loadSet(ctx context.Context, set Set) (map[string]string, error) {
	key := c.key(set)

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var codes map[string]string
		if jsonErr := json.Unmarshal([]byte(raw), &codes); jsonErr == nil {
			metrics.RefDataLookups.WithLabelValues(string(set), "hit").Inc()
			return codes, nil
		}
		c.logger.Warn("discarding corrupt cache entry", map[string]interface{}{"set": string(set)})
	case err != redis.Nil:
		c.logger.Warn("reference cache unavailable, reading source", map[string]interface{}{
			"set":   string(set),
			"error": err.Error(),
		})
	}
	metrics.RefDataLookups.WithLabelValues(string(set), "miss").Inc()

	codes, err := c.source.LoadSet(ctx, string(set))
	if err != nil {
		return nil, fmt.Errorf("load reference set %s: %w", set, err)
	}

	if payload, err := json.Marshal(codes); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache reference set", map[string]interface{}{
				"set":   string(set),
				"error": err.Error(),
			})
		}
	}
	return codes, nil
}

// Invalidate drops the cached copies of sets, or of every set when none are given.
func (c *Cache) Invalidate(ctx context.Context, sets ...Set) error {
	if len(sets) == 0 {
		sets = AllSets
	}
	keys := make([]string, len(sets))
	for i, s := range sets {
		keys[i] = c.key(s)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate reference sets: %w", err)
	}
	return nil
}
