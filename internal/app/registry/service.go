/*
Package registry contains the room registry: the ordered tree of categories and
channels that defines the community's rooms.

This file defines the Service, which owns load/save/reset against the blob store
and the create-room flow. Every save publishes a rooms-updated event so mounted
UI surfaces can re-read; persistence failures are absorbed and never surfaced to
callers, which always observe a usable registry.
*/
package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"commhub/internal/app/events"
	"commhub/internal/app/store"
	"commhub/internal/pkg/logx"

	"github.com/rs/zerolog"
)

// Service mediates all registry access. It is safe for concurrent use; writes
// are serialized so a create-room flow never loses to a concurrent save of the
// same process, while cross-surface writes stay last-writer-wins by design.
type Service struct {
	store  store.Store
	bus    *events.Bus
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewService returns a registry Service over the given store and bus.
func NewService(s store.Store, bus *events.Bus) *Service {
	serviceLogger := logx.Logger().With().Str("component", "RegistryService").Logger()

	return &Service{
		store:  s,
		bus:    bus,
		logger: serviceLogger,
	}
}

// Load returns the persisted registry, or the fixed default registry when
// nothing is stored or the stored blob does not parse. Parse failures are
// logged and otherwise indistinguishable from absence.
func (s *Service) Load() Registry {
	data, ok := s.store.Get(StorageKey)
	if !ok {
		return DefaultRegistry()
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		s.logger.Warn().Err(err).Msg("Stored registry is malformed. Falling back to defaults.")
		return DefaultRegistry()
	}

	if reg == nil {
		// A stored "null" decodes without error but is no registry.
		s.logger.Warn().Msg("Stored registry is null. Falling back to defaults.")
		return DefaultRegistry()
	}

	return normalize(reg)
}

// Save serializes and overwrites the entire persisted registry, then publishes
// rooms-updated. There is no partial update and no merge with concurrent
// writers; the last save wins. Failures are absorbed.
func (s *Service) Save(reg Registry) {
	if reg == nil {
		reg = Registry{}
	}

	data, err := json.Marshal(reg)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Registry serialization failed. Save skipped.")
		return
	}

	s.store.Set(StorageKey, data)
	s.bus.Publish(events.Event{Name: events.RoomsUpdated})
}

// Reset discards all user edits and persists the default registry.
func (s *Service) Reset() {
	s.Save(DefaultRegistry())
}

// CreateChannel implements the create-room flow: it derives a slug id from the
// display name, synthesizes the target category when it does not exist (using
// the title-cased category id as its display name), de-duplicates the id within
// the category by suffixing -2, -3, ..., appends the channel, persists the whole
// registry, and notifies listeners. It returns the channel as created.
func (s *Service) CreateChannel(categoryID, name, icon, channelType string) Channel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !IsValidChannelType(channelType) {
		channelType = ChannelTypeText
	}

	reg := s.Load()

	cat := reg.FindCategory(categoryID)
	if cat == nil {
		reg = append(reg, Category{
			ID:       categoryID,
			Name:     TitleFromID(categoryID),
			Channels: []Channel{},
		})
		cat = &reg[len(reg)-1]

		s.logger.Info().
			Str("category_id", categoryID).
			Msg("Target category missing. Synthesized a new one.")
	}

	channel := Channel{
		ID:   uniqueChannelID(cat, Slugify(name)),
		Name: name,
		Icon: icon,
		Type: channelType,
	}

	cat.Channels = append(cat.Channels, channel)

	s.Save(reg)

	s.logger.Info().
		Str("category_id", categoryID).
		Str("channel_id", channel.ID).
		Str("channel_type", channel.Type).
		Msg("Channel created.")

	return channel
}

// uniqueChannelID resolves slug collisions within a category by appending
// -2, -3, ... until the id is unused.
func uniqueChannelID(cat *Category, slug string) string {
	inUse := func(id string) bool {
		for i := range cat.Channels {
			if cat.Channels[i].ID == id {
				return true
			}
		}
		return false
	}

	if !inUse(slug) {
		return slug
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", slug, n)
		if !inUse(candidate) {
			return candidate
		}
	}
}
