/*
Package access implements the paid-access gate: the policy describing which rooms
sit behind a paywall, and the per-profile unlock flags recording simulated purchases.

This file defines the policy data model. The policy is persisted wholesale as one
JSON blob, independent of the room registry; the two can be individually stale
relative to each other and no referential integrity is enforced between them.
*/
package access

// PolicyStorageKey is the blob store key holding the serialized access policy.
const PolicyStorageKey = "paid_engagement_settings_v1"

// UnlockKeyPrefix prefixes the per-room unlock flag keys
// ("paid_access_granted_v1:<roomId>").
const UnlockKeyPrefix = "paid_access_granted_v1:"

// unlockedValue is the only value ever written for an unlock flag.
const unlockedValue = "true"

// Pass is a priced, time-boxed entitlement definition (not a purchase record).
type Pass struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PriceUSD    float64 `json:"priceUsd"`
	PeriodDays  int     `json:"periodDays"`
	Recurring   bool    `json:"recurring"`
	TrialDays   int     `json:"trialDays"`
	Description string  `json:"description,omitempty"`
}

// Policy is the full access-gating configuration, the unit of persistence for
// paywall rules.
type Policy struct {
	// Enabled is the master switch for the entire paid-access feature.
	// Disabling it makes every room ungated immediately; GatedRooms is retained
	// for when it is re-enabled.
	Enabled bool `json:"enabled"`

	// Passes holds the purchasable access passes in display order.
	Passes []Pass `json:"passes"`

	// DefaultPassID optionally references one pass for checkout-preview display.
	// It may dangle after the referenced pass is deleted; resolution treats a
	// dangling reference as unset.
	DefaultPassID *string `json:"defaultPassId"`

	// GatedRooms lists the channel ids requiring an unlocked pass to view or
	// post. Stored as a sequence; duplicates are tolerated.
	GatedRooms []string `json:"gatedRooms"`
}

// DefaultPolicy returns the zero policy used when nothing is stored or the
// stored blob does not parse: gating disabled, no passes, no gated rooms.
func DefaultPolicy() Policy {
	return Policy{
		Enabled:    false,
		Passes:     []Pass{},
		GatedRooms: []string{},
	}
}

// UnlockKey returns the blob store key of the unlock flag for the given room.
func UnlockKey(roomID string) string {
	return UnlockKeyPrefix + roomID
}

// IsGated is the gate predicate: a room is gated iff the feature is enabled,
// the room id appears in GatedRooms, and the room has not been unlocked. It
// never errors; a room absent from GatedRooms is always ungated regardless of
// Enabled. Inputs change independently, so callers must re-evaluate on every
// use rather than caching the result.
func IsGated(policy Policy, roomID string, unlocked func(roomID string) bool) bool {
	if !policy.Enabled {
		return false
	}

	inGated := false
	for _, id := range policy.GatedRooms {
		if id == roomID {
			inGated = true
			break
		}
	}
	if !inGated {
		return false
	}

	return unlocked == nil || !unlocked(roomID)
}

// ResolveDefaultPass returns the pass referenced by DefaultPassID, or nil when
// the reference is unset or dangling.
func ResolveDefaultPass(policy Policy) *Pass {
	if policy.DefaultPassID == nil {
		return nil
	}
	for i := range policy.Passes {
		if policy.Passes[i].ID == *policy.DefaultPassID {
			pass := policy.Passes[i]
			return &pass
		}
	}
	return nil
}

// normalize repairs structural damage in a decoded policy: nil slices become
// empty. Dangling DefaultPassID references and duplicate GatedRooms entries are
// preserved as stored; downstream reads tolerate both.
func normalize(p Policy) Policy {
	if p.Passes == nil {
		p.Passes = []Pass{}
	}
	if p.GatedRooms == nil {
		p.GatedRooms = []string{}
	}
	return p
}
