package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/integrators"
	"github.com/san-kum/attractor/internal/physics"
)

type Registry struct {
	models      map[string]func() dynamo.System
	integrators map[string]func(n int) dynamo.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func() dynamo.System),
		integrators: make(map[string]func(n int) dynamo.Stepper),
	}

	r.models["duffing"] = func() dynamo.System { return physics.NewDuffing() }
	r.models["lorenz"] = func() dynamo.System { return physics.NewLorenz() }
	r.models["rossler"] = func() dynamo.System { return physics.NewRossler() }
	r.models["dejong"] = func() dynamo.System { return physics.NewDeJong() }

	r.integrators["rk4"] = func(n int) dynamo.Stepper { return integrators.NewRK4(n) }
	r.integrators["rk4-scalar"] = func(n int) dynamo.Stepper { return integrators.NewRK4Scalar(n) }
	r.integrators["euler"] = func(n int) dynamo.Stepper { return integrators.NewEuler(n) }

	return r
}

// GetModel builds a fresh model and applies params in name order.
func (r *Registry) GetModel(name string, params map[string]float64) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown attractor: %s", name)
	}
	sys := fn()
	if len(params) == 0 {
		return sys, nil
	}
	c, ok := sys.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("%s takes no parameters", name)
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.SetParam(k, params[k]); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

func (r *Registry) GetIntegrator(name string, dim int) (dynamo.Stepper, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(dim), nil
}

func (r *Registry) ListModels() []string      { return sortedKeys(r.models) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
