// Package auth issues and validates the symmetric-signed access and refresh
// credentials gating every REST and streaming operation.
package auth

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Scope is a fine-grained permission tag carried in a token.
type Scope string

const (
	ScopeOpenid              Scope = "openid"
	ScopeOfflineAccess       Scope = "offline_access"
	ScopeUserData            Scope = "user_data"
	ScopeVehicleDeviceData   Scope = "vehicle_device_data"
	ScopeVehicleCmds         Scope = "vehicle_cmds"
	ScopeVehicleChargingCmds Scope = "vehicle_charging_cmds"
	ScopeEnergyDeviceData    Scope = "energy_device_data"
	ScopeEnergyCmds          Scope = "energy_cmds"
)

var allScopes = []Scope{
	ScopeOpenid,
	ScopeOfflineAccess,
	ScopeUserData,
	ScopeVehicleDeviceData,
	ScopeVehicleCmds,
	ScopeVehicleChargingCmds,
	ScopeEnergyDeviceData,
	ScopeEnergyCmds,
}

// ParseScope parses a single scope name.
func ParseScope(s string) (Scope, error) {
	for _, scope := range allScopes {
		if Scope(s) == scope {
			return scope, nil
		}
	}
	return "", fmt.Errorf("unknown scope: %s", s)
}

// ScopeSet is an unordered collection of scopes. It marshals as a sorted JSON
// array of scope names.
type ScopeSet map[Scope]struct{}

// NewScopeSet builds a set from the given scopes.
func NewScopeSet(scopes ...Scope) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}

// AllScopes returns a set holding every known scope.
func AllScopes() ScopeSet {
	return NewScopeSet(allScopes...)
}

// ParseScopeSet parses a space-separated scope list. An unknown name is an
// error; the caller decides how to surface it.
func ParseScopeSet(s string) (ScopeSet, error) {
	set := ScopeSet{}
	for _, name := range strings.Fields(s) {
		scope, err := ParseScope(name)
		if err != nil {
			return nil, err
		}
		set[scope] = struct{}{}
	}
	return set, nil
}

// Has reports whether the set contains the scope.
func (s ScopeSet) Has(scope Scope) bool {
	_, ok := s[scope]
	return ok
}

// Contains reports whether every scope of other is in s.
func (s ScopeSet) Contains(other ScopeSet) bool {
	for scope := range other {
		if !s.Has(scope) {
			return false
		}
	}
	return true
}

// Intersect returns the scopes present in both sets.
func (s ScopeSet) Intersect(other ScopeSet) ScopeSet {
	out := ScopeSet{}
	for scope := range s {
		if other.Has(scope) {
			out[scope] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets hold exactly the same scopes.
func (s ScopeSet) Equal(other ScopeSet) bool {
	return len(s) == len(other) && s.Contains(other)
}

// Sorted returns the scopes in lexical order.
func (s ScopeSet) Sorted() []Scope {
	out := make([]Scope, 0, len(s))
	for scope := range s {
		out = append(out, scope)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the set as a space-separated scope list.
func (s ScopeSet) String() string {
	names := make([]string, 0, len(s))
	for _, scope := range s.Sorted() {
		names = append(names, string(scope))
	}
	return strings.Join(names, " ")
}

// MarshalJSON renders the set as a sorted array of scope names.
func (s ScopeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON accepts an array of scope names, rejecting unknown ones.
func (s *ScopeSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set := ScopeSet{}
	for _, name := range names {
		scope, err := ParseScope(name)
		if err != nil {
			return err
		}
		set[scope] = struct{}{}
	}
	*s = set
	return nil
}
