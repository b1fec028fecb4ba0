package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Broadcaster pushes status changes to connected pages.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// CheckFunc returns nil when the catalog answered.
type CheckFunc func(ctx context.Context) error

// Service keeps the last check result of every registered catalog. State
// lives in memory only.
type Service struct {
	mu          sync.RWMutex
	catalogs    map[string]*CatalogState
	slowAfter   time.Duration
	broadcaster Broadcaster
	logger      zerolog.Logger
	now         func() time.Time
}

// NewService creates a health service. A successful check slower than
// slowAfter is recorded as a warning; 0 disables the threshold.
func NewService(slowAfter time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		catalogs:  make(map[string]*CatalogState),
		slowAfter: slowAfter,
		logger:    logger,
		now:       time.Now,
	}
}

// SetBroadcaster sets where status changes are pushed.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Register starts tracking a catalog as OK. Registering twice keeps the
// existing state.
func (s *Service) Register(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalogs[id]; ok {
		return
	}
	s.catalogs[id] = &CatalogState{ID: id, Name: name, Status: StatusOK}
	s.logger.Debug().Str("catalog", id).Msg("tracking catalog health")
}

// Check runs check against a registered catalog, records the outcome and
// returns the updated state along with the check's error.
func (s *Service) Check(ctx context.Context, id string, check CheckFunc) (CatalogState, error) {
	start := s.now()
	err := check(ctx)
	state, ok := s.record(id, s.now().Sub(start), err)
	if !ok {
		return CatalogState{}, fmt.Errorf("catalog %q is not registered", id)
	}
	return state, err
}

func (s *Service) record(id string, latency time.Duration, checkErr error) (CatalogState, bool) {
	status, message := StatusOK, ""
	switch {
	case checkErr != nil:
		status, message = StatusError, checkErr.Error()
	case s.slowAfter > 0 && latency > s.slowAfter:
		status, message = StatusWarning, fmt.Sprintf("answering slower than %s", s.slowAfter)
	}

	s.mu.Lock()
	c, ok := s.catalogs[id]
	if !ok {
		s.mu.Unlock()
		return CatalogState{}, false
	}

	now := s.now()
	c.LastCheck = &now
	c.LatencyMS = latency.Milliseconds()

	changed := c.Status != status || c.Message != message
	if changed {
		prev := c.Status
		if status == StatusOK {
			c.Since = nil
		} else if prev != status {
			c.Since = &now
		}
		c.Status, c.Message = status, message

		s.logger.Info().
			Str("catalog", id).
			Str("from", string(prev)).
			Str("to", string(status)).
			Str("message", message).
			Msg("catalog health changed")
	}
	state := *c
	s.mu.Unlock()

	if changed && s.broadcaster != nil {
		if err := s.broadcaster.Broadcast(MsgUpdated, state); err != nil {
			s.logger.Debug().Err(err).Msg("could not broadcast health change")
		}
	}
	return state, true
}

// Report returns every tracked catalog ordered by ID.
func (s *Service) Report() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]CatalogState, 0, len(s.catalogs))
	for _, c := range s.catalogs {
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return Report{Catalog: list}
}

// Summary counts catalogs by status. Healthy is false when any catalog is
// in error; a slow catalog still serves searches.
func (s *Service) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum Summary
	for _, c := range s.catalogs {
		switch c.Status {
		case StatusOK:
			sum.OK++
		case StatusWarning:
			sum.Warning++
		case StatusError:
			sum.Error++
		}
	}
	sum.Healthy = sum.Error == 0
	return sum
}
