package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/macroledger/backend/internal/nutrition"
	"github.com/redis/go-redis/v9"
)

// analysisCacheTTL is how long an analysis estimate stays valid. Redis key
// expiry enforces it, so an entry older than this is a miss without any
// background sweeping.
const analysisCacheTTL = 24 * time.Hour

// AnalysisCache maps normalized meal descriptions to previously computed
// macro estimates. Entries are keyed by description content only and shared
// across users; the same food has the same macros for everyone.
//
// The cache is best-effort throughout: any Redis or codec failure degrades
// to a miss and is logged, never surfaced to the meal submission.
type AnalysisCache struct {
	redis *redis.Client
}

func NewAnalysisCache(client *redis.Client) *AnalysisCache {
	return &AnalysisCache{
		redis: client,
	}
}

// NormalizeDescription case-folds and collapses whitespace so trivially
// different phrasings of the same meal share a cache entry.
func NormalizeDescription(description string) string {
	return strings.Join(strings.Fields(strings.ToLower(description)), " ")
}

func cacheKey(description string) string {
	sum := sha256.Sum256([]byte(NormalizeDescription(description)))
	return fmt.Sprintf("analysis:meal:%s", hex.EncodeToString(sum[:]))
}

// Lookup returns the cached estimate for a description, or a miss.
func (c *AnalysisCache) Lookup(ctx context.Context, description string) (*nutrition.AnalysisResult, bool) {
	data, err := c.redis.Get(ctx, cacheKey(description)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[AnalysisCache] lookup failed: %v", err)
		}
		return nil, false
	}

	var result nutrition.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		log.Printf("[AnalysisCache] corrupt entry, treating as miss: %v", err)
		return nil, false
	}
	return &result, true
}

// Store inserts or overwrites the estimate for a description, resetting its
// age. A store failure means "recompute next time", nothing more.
func (c *AnalysisCache) Store(ctx context.Context, description string, result *nutrition.AnalysisResult) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("[AnalysisCache] marshal failed: %v", err)
		return
	}
	if err := c.redis.Set(ctx, cacheKey(description), data, analysisCacheTTL).Err(); err != nil {
		log.Printf("[AnalysisCache] store failed: %v", err)
	}
}
