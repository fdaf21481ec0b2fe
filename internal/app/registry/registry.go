/*
Package registry contains the room registry: the ordered tree of categories and
channels that defines the community's rooms.

This file defines the data model, the fixed default registry used when nothing
has been saved yet, and the in-memory edit helpers. The tree is persisted
wholesale as a single JSON blob; ordering within the slices is display order.
*/
package registry

// StorageKey is the blob store key holding the serialized registry.
const StorageKey = "server_rooms_v1"

// Channel types. The type only affects which icon glyph the UI shows and the
// composer placeholder text.
const (
	ChannelTypeText  = "text"
	ChannelTypeVoice = "voice"
)

// Channel represents a single chat surface (a "room").
type Channel struct {
	// ID is unique within the owning category's channel list. The create-room
	// flow derives it by slugifying the display name; direct registry edits do
	// not enforce uniqueness.
	ID string `json:"id"`

	// Name is the user-editable display string. Not required to be unique.
	Name string `json:"name"`

	// Icon is an optional short decoration, typically a single emoji.
	Icon string `json:"icon,omitempty"`

	// Type is "text" or "voice".
	Type string `json:"type"`
}

// Category is a named, ordered group of channels.
type Category struct {
	// ID is unique within the registry.
	ID string `json:"id"`

	// Name is the display string.
	Name string `json:"name"`

	// Color is an optional styling tag, not enforced.
	Color string `json:"color,omitempty"`

	// Channels holds the category's rooms in display order. Empty is valid.
	Channels []Channel `json:"channels"`
}

// Registry is the full category/channel tree, the unit of persistence for rooms.
type Registry []Category

// IsValidChannelType reports whether t is one of the supported channel types.
func IsValidChannelType(t string) bool {
	return t == ChannelTypeText || t == ChannelTypeVoice
}

// DefaultRegistry returns the fixed fallback registry used when no saved state
// exists. Callers receive a fresh copy and may mutate it freely.
func DefaultRegistry() Registry {
	return Registry{
		{
			ID:   "general",
			Name: "General",
			Channels: []Channel{
				{ID: "self-intro", Name: "Self Intro", Icon: "👋", Type: ChannelTypeText},
				{ID: "general-chat", Name: "General Chat", Icon: "💬", Type: ChannelTypeText},
				{ID: "off-topic", Name: "Off Topic", Icon: "🎲", Type: ChannelTypeText},
			},
		},
		{
			ID:    "announcements",
			Name:  "Announcements",
			Color: "gold",
			Channels: []Channel{
				{ID: "announcements", Name: "Announcements", Icon: "📣", Type: ChannelTypeText},
				{ID: "events", Name: "Events", Icon: "📅", Type: ChannelTypeText},
			},
		},
		{
			ID:    "markets",
			Name:  "Markets",
			Color: "green",
			Channels: []Channel{
				{ID: "market-talk", Name: "Market Talk", Icon: "📈", Type: ChannelTypeText},
				{ID: "stock-ideas", Name: "Stock Ideas", Icon: "💡", Type: ChannelTypeText},
				{ID: "crypto", Name: "Crypto", Icon: "🪙", Type: ChannelTypeText},
			},
		},
		{
			ID:    "ai-lab",
			Name:  "AI Lab",
			Color: "purple",
			Channels: []Channel{
				{ID: "assistant-tips", Name: "Assistant Tips", Icon: "🤖", Type: ChannelTypeText},
				{ID: "prompt-share", Name: "Prompt Share", Icon: "✨", Type: ChannelTypeText},
			},
		},
		{
			ID:   "voice",
			Name: "Voice",
			Channels: []Channel{
				{ID: "lounge", Name: "Lounge", Icon: "🔊", Type: ChannelTypeVoice},
				{ID: "trading-floor", Name: "Trading Floor", Icon: "🔊", Type: ChannelTypeVoice},
			},
		},
	}
}

// FindCategory returns a pointer into the registry for the category with the
// given id, or nil when absent.
func (r Registry) FindCategory(id string) *Category {
	for i := range r {
		if r[i].ID == id {
			return &r[i]
		}
	}
	return nil
}

// HasChannel reports whether any category contains a channel with the given id.
func (r Registry) HasChannel(channelID string) bool {
	for i := range r {
		for j := range r[i].Channels {
			if r[i].Channels[j].ID == channelID {
				return true
			}
		}
	}
	return false
}

// RemoveCategory deletes the category with the given id from the registry,
// reporting whether anything was removed. The caller is responsible for
// persisting the result with an explicit Save.
func (r *Registry) RemoveCategory(id string) bool {
	for i := range *r {
		if (*r)[i].ID == id {
			*r = append((*r)[:i], (*r)[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveChannel deletes the channel with the given id from the named category,
// reporting whether anything was removed. The caller persists with Save.
func (r Registry) RemoveChannel(categoryID, channelID string) bool {
	cat := r.FindCategory(categoryID)
	if cat == nil {
		return false
	}
	for i := range cat.Channels {
		if cat.Channels[i].ID == channelID {
			cat.Channels = append(cat.Channels[:i], cat.Channels[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateChannel replaces the channel with updated.ID in the named category,
// reporting whether a channel was found. Uniqueness of the id is deliberately
// NOT enforced on this path, matching the settings-editor behavior.
func (r Registry) UpdateChannel(categoryID string, updated Channel) bool {
	cat := r.FindCategory(categoryID)
	if cat == nil {
		return false
	}
	for i := range cat.Channels {
		if cat.Channels[i].ID == updated.ID {
			cat.Channels[i] = updated
			return true
		}
	}
	return false
}

// normalize repairs structural damage in a decoded registry: nil channel
// slices become empty and unknown channel types degrade to text. Values are
// otherwise preserved as stored.
func normalize(r Registry) Registry {
	for i := range r {
		if r[i].Channels == nil {
			r[i].Channels = []Channel{}
		}
		for j := range r[i].Channels {
			if !IsValidChannelType(r[i].Channels[j].Type) {
				r[i].Channels[j].Type = ChannelTypeText
			}
		}
	}
	return r
}
