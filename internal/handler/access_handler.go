/*
Package handler provides HTTP handler functions for the paid engagement policy
and the room gate: policy read/write, gate checks, and simulated unlocks.
*/
package handler

import (
	"net/http"

	"commhub/internal/app/access"
	"commhub/internal/pkg/errs"
	"commhub/internal/pkg/req"
	"commhub/internal/pkg/resp"
)

// HandleGetPolicy returns the current engagement policy, falling back to the
// disabled default when nothing usable is stored.
func HandleGetPolicy(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Access.LoadPolicy())
	}
}

// HandleSavePolicy overwrites the entire engagement policy with the submitted
// settings and notifies listeners.
func HandleSavePolicy(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input access.Policy
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Access.SavePolicy(input)

		resp.RespondSuccess(w, r, deps.Access.LoadPolicy())
	}
}

// HandleGateCheck reports whether the given room is currently behind the
// engagement gate for this profile.
func HandleGateCheck(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("roomId")
		if roomID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"roomId": roomID,
			"gated":  deps.Access.Gated(roomID),
		})
	}
}

type UnlockInput struct {
	RoomID string `json:"roomId"`
}

// HandleUnlock records a completed (simulated) purchase for the given room.
// Unlocks are permanent for the profile; there is no revoke.
func HandleUnlock(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input UnlockInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.RoomID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		deps.Access.Unlock(input.RoomID)

		resp.RespondSuccess(w, r, map[string]any{
			"roomId":   input.RoomID,
			"unlocked": true,
		})
	}
}

// HandleDefaultPass returns the pass the checkout surface should preselect,
// or null when the policy names none (including a dangling defaultPassId).
func HandleDefaultPass(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"pass": deps.Access.DefaultPass(),
		})
	}
}
