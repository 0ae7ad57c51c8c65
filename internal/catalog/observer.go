package catalog

import "github.com/Houeta/rentcatalog/internal/models"

// Outcome classifies how a fetch ended.
type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeError           Outcome = "error"
	OutcomeUnauthenticated Outcome = "unauthenticated"
	OutcomeMalformed       Outcome = "malformed"
	OutcomeStale           Outcome = "stale"
)

// Observer is notified about cache activity, typically to export metrics.
type Observer interface {
	CacheHit(kind models.Kind)
	FetchDone(kind models.Kind, outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) CacheHit(models.Kind)           {}
func (nopObserver) FetchDone(models.Kind, Outcome) {}
