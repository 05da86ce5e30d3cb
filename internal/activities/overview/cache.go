package overview

import (
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/mkovacevic/equilog/internal/activities"
)

// ActivitiesCache keeps the full activity history per horse for a short while,
// so that an overview screen hitting stats + breakdown + week + calendar in a
// row reads the database once. Every activity write for a horse drops its
// entry.
type ActivitiesCache struct {
	cache      *freecache.Cache
	ttlSeconds int
}

func NewActivitiesCache(sizeBytes int, ttl time.Duration) *ActivitiesCache {
	return &ActivitiesCache{
		cache:      freecache.NewCache(sizeBytes),
		ttlSeconds: int(ttl.Seconds()),
	}
}

func (c *ActivitiesCache) Get(horseID string) ([]activities.Activity, bool) {
	val, err := c.cache.Get([]byte(horseID))
	if err != nil {
		// freecache returns ErrNotFound for a miss, nothing to log
		return nil, false
	}

	var acts []activities.Activity
	if err := json.Unmarshal(val, &acts); err != nil {
		log.Errorf("activities cache: unmarshal entry for horse %s: %s", horseID, err)
		c.InvalidateHorse(horseID)
		return nil, false
	}
	return acts, true
}

func (c *ActivitiesCache) Set(horseID string, acts []activities.Activity) {
	val, err := json.Marshal(acts)
	if err != nil {
		log.Errorf("activities cache: marshal entry for horse %s: %s", horseID, err)
		return
	}
	if err := c.cache.Set([]byte(horseID), val, c.ttlSeconds); err != nil {
		// entry too large for the cache, not an error worth failing for
		log.Warnf("activities cache: set entry for horse %s: %s", horseID, err)
	}
}

func (c *ActivitiesCache) InvalidateHorse(horseID string) {
	c.cache.Del([]byte(horseID))
}
