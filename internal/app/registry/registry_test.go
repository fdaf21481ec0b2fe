package registry

import (
	"encoding/json"
	"testing"
)

func TestDefaultRegistryShape(t *testing.T) {
	reg := DefaultRegistry()

	if len(reg) != 5 {
		t.Fatalf("default registry has %d categories; want 5", len(reg))
	}

	wantOrder := []string{"general", "announcements", "markets", "ai-lab", "voice"}
	for i, id := range wantOrder {
		if reg[i].ID != id {
			t.Errorf("category[%d].ID = %q; want %q", i, reg[i].ID, id)
		}
	}

	for _, cat := range reg {
		if len(cat.Channels) == 0 {
			t.Errorf("category %q has no channels", cat.ID)
		}
		for _, ch := range cat.Channels {
			if ch.Type != ChannelTypeText && ch.Type != ChannelTypeVoice {
				t.Errorf("channel %q has type %q", ch.ID, ch.Type)
			}
		}
	}

	voice := reg.FindCategory("voice")
	if voice == nil {
		t.Fatalf("voice category missing")
	}
	for _, ch := range voice.Channels {
		if ch.Type != ChannelTypeVoice {
			t.Errorf("voice channel %q has type %q", ch.ID, ch.Type)
		}
	}
}

func TestDefaultRegistryIsFresh(t *testing.T) {
	first := DefaultRegistry()
	first[0].Name = "mutated"
	first[0].Channels = append(first[0].Channels, Channel{ID: "extra"})

	second := DefaultRegistry()
	if second[0].Name == "mutated" {
		t.Errorf("DefaultRegistry shares category headers between calls")
	}
	for _, ch := range second[0].Channels {
		if ch.ID == "extra" {
			t.Errorf("DefaultRegistry shares channel slices between calls")
		}
	}
}

func TestFindCategoryAndHasChannel(t *testing.T) {
	reg := DefaultRegistry()

	if cat := reg.FindCategory("markets"); cat == nil || cat.ID != "markets" {
		t.Errorf("FindCategory(markets) = %v", cat)
	}
	if cat := reg.FindCategory("nope"); cat != nil {
		t.Errorf("FindCategory(nope) = %v; want nil", cat)
	}

	if !reg.HasChannel("general-chat") {
		t.Errorf("HasChannel(general-chat) = false")
	}
	if reg.HasChannel("no-such-channel") {
		t.Errorf("HasChannel(no-such-channel) = true")
	}
}

func TestRemoveCategoryAndChannel(t *testing.T) {
	reg := DefaultRegistry()

	if !reg.RemoveCategory("voice") {
		t.Fatalf("RemoveCategory(voice) = false")
	}
	if reg := reg.FindCategory("voice"); reg != nil {
		t.Errorf("voice category still present after removal")
	}
	if reg.RemoveCategory("voice") {
		t.Errorf("RemoveCategory of absent category = true")
	}

	if !reg.RemoveChannel("general", "off-topic") {
		t.Fatalf("RemoveChannel(general, off-topic) = false")
	}
	if reg.HasChannel("off-topic") {
		t.Errorf("off-topic still present after removal")
	}
	if reg.RemoveChannel("general", "off-topic") {
		t.Errorf("RemoveChannel of absent channel = true")
	}
}

func TestUpdateChannelAllowsDuplicateIDs(t *testing.T) {
	reg := DefaultRegistry()

	// Direct edits can rename a channel id onto an existing sibling; the
	// registry does not police uniqueness on this path.
	updated := Channel{ID: "general-chat", Name: "Renamed", Type: ChannelTypeText}
	if !reg.UpdateChannel("general", Channel{ID: "off-topic", Name: "x"}) {
		t.Fatalf("UpdateChannel on existing channel = false")
	}

	cat := reg.FindCategory("general")
	cat.Channels[2].ID = updated.ID

	count := 0
	for _, ch := range cat.Channels {
		if ch.ID == "general-chat" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected duplicate ids to survive a direct edit, found %d", count)
	}
}

func TestRegistryJSONShape(t *testing.T) {
	reg := Registry{
		{
			ID:   "ops",
			Name: "Ops",
			Channels: []Channel{
				{ID: "team-chat", Name: "Team Chat!", Icon: "💬", Type: ChannelTypeText},
			},
		},
	}

	data, err := json.Marshal(reg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Registry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded[0].Channels[0].Icon != "💬" {
		t.Errorf("icon lost in round trip: %+v", decoded[0].Channels[0])
	}
}
