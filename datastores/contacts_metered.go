package datastores

import (
	"context"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// ContactsMetered wraps a [ContactsStore] and records its calls in a [metrics.Set].
type ContactsMetered struct {
	store ContactsStore

	loads, saves, mutations *metrics.Counter
	unreadable, failures    *metrics.Counter
	duration                *metrics.Histogram
}

var _ ContactsStore = (*ContactsMetered)(nil)

func NewContactsMetered(store ContactsStore, set *metrics.Set) *ContactsMetered {
	return &ContactsMetered{
		store:      store,
		loads:      set.NewCounter(`contacts_store_calls_total{op="load"}`),
		saves:      set.NewCounter(`contacts_store_calls_total{op="save"}`),
		mutations:  set.NewCounter(`contacts_store_calls_total{op="mutate"}`),
		unreadable: set.NewCounter(`contacts_store_errors_total{kind="unreadable"}`),
		failures:   set.NewCounter(`contacts_store_errors_total{kind="other"}`),
		duration:   set.NewHistogram(`contacts_store_duration_seconds`),
	}
}

func (s *ContactsMetered) LoadAll(ctx context.Context) ([]Contact, error) {
	defer s.duration.UpdateDuration(time.Now())
	s.loads.Inc()
	cs, err := s.store.LoadAll(ctx)
	s.count(err)
	return cs, err
}

func (s *ContactsMetered) SaveAll(ctx context.Context, cs []Contact) error {
	defer s.duration.UpdateDuration(time.Now())
	s.saves.Inc()
	err := s.store.SaveAll(ctx, cs)
	s.count(err)
	return err
}

func (s *ContactsMetered) Mutate(ctx context.Context, fn func([]Contact) ([]Contact, error)) ([]Contact, error) {
	defer s.duration.UpdateDuration(time.Now())
	s.mutations.Inc()
	cs, err := s.store.Mutate(ctx, fn)
	s.count(err)
	return cs, err
}

func (s *ContactsMetered) count(err error) {
	switch {
	case err == nil:
	case IsUnreadable(err):
		s.unreadable.Inc()
	default:
		s.failures.Inc()
	}
}
