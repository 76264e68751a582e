package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/avasquez/recordshelf-be/internal/musicsearch"
)

// CacheJanitor periodically evicts expired entries from the search cache.
type CacheJanitor struct {
	cache    *musicsearch.Cache
	schedule cron.Schedule
	done     chan bool
}

// NewCacheJanitor creates a janitor for the given cache. The cron expression
// controls how often a sweep runs; "* * * * *" (every minute) is a sensible
// default for the cache's 5/10 minute windows.
func NewCacheJanitor(cache *musicsearch.Cache, cronExpr string) (*CacheJanitor, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &CacheJanitor{
		cache:    cache,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the janitor's sweep loop.
func (j *CacheJanitor) Run() {
	log.Info().Msg("Starting search cache janitor")
	for {
		next := j.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-j.done:
			timer.Stop()
			log.Info().Msg("Stopping search cache janitor")
			return
		case now := <-timer.C:
			if removed := j.cache.Prune(now); removed > 0 {
				log.Debug().Int("removed", removed).Int("remaining", j.cache.Len()).Msg("Pruned search cache")
			}
		}
	}
}

// Stop halts the janitor.
func (j *CacheJanitor) Stop() {
	j.done <- true
}
