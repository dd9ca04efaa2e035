package reports

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds the available report drivers by name.
type Registry interface {
	Register(d Driver) error
	Get(name string) (Driver, bool)
	// List returns drivers sorted by name.
	List() []Driver
}

type registry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

func NewRegistry(drivers ...Driver) (Registry, error) {
	r := &registry{drivers: make(map[string]Driver)}
	for _, d := range drivers {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *registry) Register(d Driver) error {
	if d == nil {
		return fmt.Errorf("driver cannot be nil")
	}
	name := d.Name()
	if name == "" {
		return fmt.Errorf("report name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drivers[name]; exists {
		return fmt.Errorf("report %q is already registered", name)
	}
	r.drivers[name] = d
	return nil
}

func (r *registry) Get(name string) (Driver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[name]
	return d, ok
}

func (r *registry) List() []Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		drivers = append(drivers, d)
	}
	slices.SortFunc(drivers, func(a, b Driver) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return drivers
}
