package handler

import (
	"net/http"

	"commhub/internal/app/roles"
	"commhub/internal/pkg/resp"
)

// HandleGetRoles returns the stored role definitions along with the role whose
// capabilities currently apply to message actions.
func HandleGetRoles(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stored := roles.Load(deps.Store)
		if stored == nil {
			stored = []roles.Role{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"roles":   stored,
			"current": roles.CurrentDefault(deps.Store),
		})
	}
}
