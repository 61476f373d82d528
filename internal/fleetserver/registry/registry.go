// Package registry owns the set of simulator handles and their cached public
// descriptors, mirroring simulator state transitions into the descriptors.
package registry

import (
	"context"
	"sync"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/simulator"
	"github.com/luxfleet-io/luxfleet/internal/pkg/broadcast"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/log"
)

// Vehicle pairs one descriptor with its simulator handle. The descriptor is
// written only by the registry's state watcher; REST handlers read copies.
type Vehicle struct {
	ID   fleetv1.VehicleId
	Guid fleetv1.VehicleGuid

	// Command is the simulator handle.
	Command simulator.Sender

	mu         sync.RWMutex
	descriptor fleetv1.VehicleDescriptor
}

// Descriptor returns a copy of the current descriptor.
func (v *Vehicle) Descriptor() fleetv1.VehicleDescriptor {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.descriptor
}

func (v *Vehicle) setOnlineState(state fleetv1.OnlineState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.descriptor.State = state
}

// Registry holds the fleet. The sequence is small and fixed at startup, so
// lookups stay linear.
type Registry struct {
	vehicles []*Vehicle
	logger   log.Logger
}

// New spawns one simulator per seed descriptor plus a watcher task that keeps
// the descriptor's online state in step with the simulator. Everything runs
// until ctx is cancelled.
func New(ctx context.Context, seeds []fleetv1.VehicleDescriptor, timings simulator.Timings) *Registry {
	r := &Registry{logger: log.WithName("registry")}

	for _, seed := range seeds {
		v := &Vehicle{
			ID:         seed.ID,
			Guid:       seed.VehicleID,
			Command:    simulator.Start(ctx, seed, timings),
			descriptor: seed,
		}
		r.vehicles = append(r.vehicles, v)

		// Subscribe before anything else can command the simulator so no
		// transition slips past the mirror. Only the receiver is retained;
		// the simulator's lifecycle stays bounded by the registry, never the
		// other way around.
		rx, err := v.Command.WatchState(ctx)
		if err != nil {
			r.logger.Error(err, "Failed to watch simulator state", "vehicle", v.ID)
			continue
		}
		go r.watchState(ctx, v, rx)
	}

	return r
}

// watchState drains the simulator's state-discriminant broadcast and writes
// the mapped online state into the descriptor.
func (r *Registry) watchState(ctx context.Context, v *Vehicle, rx *broadcast.Receiver[fleetv1.SimulationState]) {
	defer rx.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-rx.C():
			if !ok {
				return
			}
			online := state.OnlineState()
			if v.Descriptor().State != online {
				r.logger.Debug("Vehicle state changed", "vehicle", v.ID, "state", string(online))
				v.setOnlineState(online)
			}
		}
	}
}

// Descriptors returns a copy of every vehicle's current descriptor, in seed
// order.
func (r *Registry) Descriptors() []fleetv1.VehicleDescriptor {
	out := make([]fleetv1.VehicleDescriptor, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v.Descriptor())
	}
	return out
}

// Vehicles returns the fleet in seed order.
func (r *Registry) Vehicles() []*Vehicle {
	return r.vehicles
}

// ByID looks a vehicle up by its owner API identifier.
func (r *Registry) ByID(id fleetv1.VehicleId) (*Vehicle, bool) {
	for _, v := range r.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

// ByGuid looks a vehicle up by its streaming identifier.
func (r *Registry) ByGuid(guid fleetv1.VehicleGuid) (*Vehicle, bool) {
	for _, v := range r.vehicles {
		if v.Guid == guid {
			return v, true
		}
	}
	return nil, false
}
