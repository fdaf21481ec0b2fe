/*
Package access implements the paid-access gate.

This file defines the Service, which owns policy persistence and the per-room
unlock flags. The unlock state machine is deliberately one-way: Locked ->
Unlocked, triggered by a simulated purchase, with no revoke transition.
*/
package access

import (
	"encoding/json"

	"commhub/internal/app/events"
	"commhub/internal/app/store"
	"commhub/internal/pkg/logx"

	"github.com/rs/zerolog"
)

// Service mediates all access-policy and unlock-flag reads and writes.
type Service struct {
	store  store.Store
	bus    *events.Bus
	logger zerolog.Logger
}

// NewService returns an access Service over the given store and bus.
func NewService(s store.Store, bus *events.Bus) *Service {
	serviceLogger := logx.Logger().With().Str("component", "AccessService").Logger()

	return &Service{
		store:  s,
		bus:    bus,
		logger: serviceLogger,
	}
}

// LoadPolicy returns the persisted policy, or the zero policy when nothing is
// stored or the stored blob does not parse. Parse failures are logged and
// otherwise indistinguishable from absence.
func (s *Service) LoadPolicy() Policy {
	data, ok := s.store.Get(PolicyStorageKey)
	if !ok {
		return DefaultPolicy()
	}

	var policy Policy
	if err := json.Unmarshal(data, &policy); err != nil {
		s.logger.Warn().Err(err).Msg("Stored access policy is malformed. Falling back to defaults.")
		return DefaultPolicy()
	}

	return normalize(policy)
}

// SavePolicy serializes and overwrites the entire persisted policy, then
// publishes paid-settings-updated. Last save wins; failures are absorbed.
func (s *Service) SavePolicy(policy Policy) {
	data, err := json.Marshal(normalize(policy))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Access policy serialization failed. Save skipped.")
		return
	}

	s.store.Set(PolicyStorageKey, data)
	s.bus.Publish(events.Event{Name: events.PaidSettingsUpdated})
}

// Unlock records a completed (simulated) purchase for the given room. The flag
// is permanent for this profile: there is no revoke operation, and which pass
// was "purchased" is not recorded.
func (s *Service) Unlock(roomID string) {
	s.store.Set(UnlockKey(roomID), []byte(unlockedValue))

	s.logger.Info().Str("room_id", roomID).Msg("Room unlocked.")
}

// Unlocked reports whether the given room has been unlocked on this profile.
// Only the literal "true" counts; any other stored value is ignored.
func (s *Service) Unlocked(roomID string) bool {
	data, ok := s.store.Get(UnlockKey(roomID))
	if !ok {
		return false
	}
	return string(data) == unlockedValue
}

// Gated reports whether the given room is currently behind the paywall,
// evaluating the gate predicate against the latest persisted policy and
// unlock flags.
func (s *Service) Gated(roomID string) bool {
	return IsGated(s.LoadPolicy(), roomID, s.Unlocked)
}

// DefaultPass returns the policy's checkout-preview pass, or nil when unset or
// dangling.
func (s *Service) DefaultPass() *Pass {
	return ResolveDefaultPass(s.LoadPolicy())
}
