package roles

import (
	"encoding/json"
	"testing"

	"commhub/internal/app/store"
)

func TestLoadFailOpen(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"absent", nil},
		{"garbage", []byte("{{{")},
		{"wrong shape", []byte(`{"roles": []}`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			if tc.blob != nil {
				s.Set(StorageKey, tc.blob)
			}

			if got := Load(s); got != nil {
				t.Errorf("Load = %+v; want nil", got)
			}
		})
	}
}

func TestCurrentDefault(t *testing.T) {
	mustStore := func(t *testing.T, list []Role) store.Store {
		t.Helper()
		s := store.NewMemoryStore()
		data, err := json.Marshal(list)
		if err != nil {
			t.Fatalf("marshal roles: %v", err)
		}
		s.Set(StorageKey, data)
		return s
	}

	t.Run("no data yields the member role", func(t *testing.T) {
		s := store.NewMemoryStore()
		got := CurrentDefault(s)
		if got.ID != "member" || got.CanPin || got.CanDelete {
			t.Errorf("CurrentDefault = %+v; want plain member", got)
		}
	})

	t.Run("first flagged default wins", func(t *testing.T) {
		s := mustStore(t, []Role{
			{ID: "admin", Name: "Admin", CanPin: true, CanDelete: true},
			{ID: "mod", Name: "Moderator", IsDefault: true, CanPin: true},
			{ID: "vip", Name: "VIP", IsDefault: true},
		})
		got := CurrentDefault(s)
		if got.ID != "mod" {
			t.Errorf("CurrentDefault = %+v; want mod", got)
		}
	})

	t.Run("no default flag falls back to first role", func(t *testing.T) {
		s := mustStore(t, []Role{
			{ID: "admin", Name: "Admin", CanPin: true, CanDelete: true},
			{ID: "member", Name: "Member"},
		})
		got := CurrentDefault(s)
		if got.ID != "admin" {
			t.Errorf("CurrentDefault = %+v; want admin", got)
		}
	})

	t.Run("empty stored list falls back to member", func(t *testing.T) {
		s := mustStore(t, []Role{})
		got := CurrentDefault(s)
		if got.ID != "member" {
			t.Errorf("CurrentDefault = %+v; want member", got)
		}
	})
}

func TestCapabilitiesComeFromRole(t *testing.T) {
	s := store.NewMemoryStore()
	data, _ := json.Marshal([]Role{
		{ID: "mod", Name: "Moderator", IsDefault: true, CanPin: true, CanDelete: false},
	})
	s.Set(StorageKey, data)

	got := CurrentDefault(s)
	if !got.CanPin || got.CanDelete {
		t.Errorf("capabilities = pin:%v delete:%v; want pin only", got.CanPin, got.CanDelete)
	}
}
