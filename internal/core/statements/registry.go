package statements

import (
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
)

// Registry looks adapters up by vendor name. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	adapters  map[Vendor]Adapter
	weekStart time.Weekday
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithWeekStart sets the first day of week buckets for every adapter.
func WithWeekStart(day time.Weekday) RegistryOption {
	return func(r *Registry) {
		r.weekStart = day
	}
}

// WithAdapter registers an extra adapter, replacing a built-in one with the same vendor.
func WithAdapter(a Adapter) RegistryOption {
	return func(r *Registry) {
		r.adapters[a.Vendor()] = a
	}
}

// NewRegistry creates a registry holding every built-in adapter.
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		adapters:  make(map[Vendor]Adapter),
		weekStart: domain.DefaultWeekStart,
	}
	// Options run first so the built-ins see the configured week start and
	// explicitly registered adapters win.
	for _, option := range options {
		option(r)
	}
	for _, a := range []Adapter{
		NewBancaSella(r.weekStart),
		NewRevolut(r.weekStart),
		NewBancaSellaLedger(r.weekStart),
	} {
		if _, overridden := r.adapters[a.Vendor()]; !overridden {
			r.adapters[a.Vendor()] = a
		}
	}
	return r
}

// Lookup returns the adapter registered for vendor.
func (r *Registry) Lookup(vendor string) (Adapter, error) {
	a, ok := r.adapters[Vendor(vendor)]
	if !ok {
		return nil, fmt.Errorf("vendor %q: %w", vendor, apperrors.ErrNotFound)
	}
	return a, nil
}

// Vendors lists registered vendor names in ascending order.
func (r *Registry) Vendors() []Vendor {
	out := make([]Vendor, 0, len(r.adapters))
	for v := range r.adapters {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// WeekStart is the first weekday used for week buckets.
func (r *Registry) WeekStart() time.Weekday {
	return r.weekStart
}

// Parse looks the vendor up and parses raw with it.
func (r *Registry) Parse(vendor string, raw domain.RawTable) (*Result, error) {
	a, err := r.Lookup(vendor)
	if err != nil {
		return nil, err
	}
	return a.Parse(raw)
}
