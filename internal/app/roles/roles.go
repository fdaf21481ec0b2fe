/*
Package roles is a read-only consumer of the community role list.

The role blob is written by the UI's role editor, never by this server. The chat
surfaces only ask one question of it: does the current default role allow pinning
and deleting messages. Absent or malformed data degrades to a plain member role
with neither capability.
*/
package roles

import (
	"encoding/json"

	"commhub/internal/app/store"
	"commhub/internal/pkg/logx"
)

// StorageKey is the blob store key holding the serialized role list.
const StorageKey = "community:roles:v1"

// Role describes a named role and its moderation capabilities.
type Role struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	CanPin    bool   `json:"canPin"`
	CanDelete bool   `json:"canDelete"`
}

// DefaultRole is the role assumed when no usable role list is stored: an
// ordinary member with no moderation capabilities.
var DefaultRole = Role{
	ID:        "member",
	Name:      "Member",
	IsDefault: true,
}

// Load returns the stored role list, or nil when nothing usable is stored.
func Load(s store.Store) []Role {
	data, ok := s.Get(StorageKey)
	if !ok {
		return nil
	}

	var list []Role
	if err := json.Unmarshal(data, &list); err != nil {
		logx.Warn("Stored role list is malformed. Falling back to the default role.", "error", err)
		return nil
	}

	return list
}

// CurrentDefault returns the default role from the stored list: the first role
// flagged as default, else the first role, else DefaultRole.
func CurrentDefault(s store.Store) Role {
	list := Load(s)
	if len(list) == 0 {
		return DefaultRole
	}

	for _, role := range list {
		if role.IsDefault {
			return role
		}
	}
	return list[0]
}
