// Package dispatch drives module navigation: exactly one module is active at
// a time, activation is filtered through the role policy, and activating a
// module runs its registered load routine to produce the view payload.
package dispatch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/internal/policy"
	"github.com/eduerp-dev/eduerp-api/pkg/errors"
)

// Loader produces the payload for a module's view. Loaders read from the
// state store; rendering is the caller's concern.
type Loader func(ctx context.Context, role models.UserRole) (any, error)

// View is the result of a successful activation.
type View struct {
	Module  models.Module `json:"module"`
	Active  bool          `json:"active"`
	Payload any           `json:"payload,omitempty"`
}

// Dispatcher is the navigation state machine. Initial state is dashboard.
// There is no history: activation replaces the current state outright.
type Dispatcher struct {
	mu      sync.RWMutex
	active  models.Module
	loaders map[models.Module]Loader
	log     *zap.Logger
}

func New(log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		active:  models.ModuleDashboard,
		loaders: make(map[models.Module]Loader),
		log:     log,
	}
}

// Register binds a load routine to a module. Later registrations replace
// earlier ones.
func (d *Dispatcher) Register(module models.Module, loader Loader) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaders[module] = loader
}

// Active returns the currently active module.
func (d *Dispatcher) Active() models.Module {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// Activate switches to the given module and runs its loader. A module
// outside the role's allowed set is refused and the active state stays
// unchanged. A module with no registered loader activates with an empty
// payload.
func (d *Dispatcher) Activate(ctx context.Context, role models.UserRole, module models.Module) (*View, error) {
	if !role.Valid() {
		return nil, errors.ErrInvalidRole
	}
	if !policy.IsAllowed(role, module) {
		d.log.Debug("activation refused",
			zap.String("role", string(role)),
			zap.String("module", string(module)),
		)
		return nil, errors.ErrModuleHidden
	}

	d.mu.Lock()
	d.active = module
	loader := d.loaders[module]
	d.mu.Unlock()

	view := &View{Module: module, Active: true}
	if loader != nil {
		payload, err := loader(ctx, role)
		if err != nil {
			return nil, err
		}
		view.Payload = payload
	}
	return view, nil
}

// Navigation returns the role's module list in display order, marking the
// active one.
func (d *Dispatcher) Navigation(role models.UserRole) ([]View, error) {
	if !role.Valid() {
		return nil, errors.ErrInvalidRole
	}

	d.mu.RLock()
	active := d.active
	d.mu.RUnlock()

	modules := policy.AllowedModules(role)
	views := make([]View, 0, len(modules))
	for _, m := range modules {
		views = append(views, View{Module: m, Active: m == active})
	}
	return views, nil
}
