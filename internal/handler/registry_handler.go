/*
Package handler provides HTTP handler functions for the room registry: reading,
wholesale saving, resetting, and the create-room flow.
*/
package handler

import (
	"net/http"

	"commhub/internal/app/events"
	"commhub/internal/app/registry"
	"commhub/internal/pkg/errs"
	"commhub/internal/pkg/req"
	"commhub/internal/pkg/resp"
)

// HandleGetRooms returns the current registry, falling back to the built-in
// defaults when nothing usable is stored.
func HandleGetRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"categories": deps.Registry.Load(),
		})
	}
}

type SaveRoomsInput struct {
	Categories registry.Registry `json:"categories"`
}

// HandleSaveRooms overwrites the entire persisted registry with the submitted
// category tree. There is no merge; the last writer wins.
func HandleSaveRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SaveRoomsInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Registry.Save(input.Categories)

		resp.RespondSuccess(w, r, map[string]any{
			"categories": deps.Registry.Load(),
		})
	}
}

// HandleResetRooms discards all edits and restores the default registry.
func HandleResetRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Registry.Reset()

		resp.RespondSuccess(w, r, map[string]any{
			"categories": deps.Registry.Load(),
		})
	}
}

type CreateChannelInput struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	Type       string `json:"type,omitempty"`
}

// HandleCreateChannel processes the create-room flow: it validates the input,
// delegates slugging, category synthesis and id de-duplication to the registry
// service, and returns the channel as created.
func HandleCreateChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateChannelInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.CategoryID == "" || input.Name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if input.Type != "" && !registry.IsValidChannelType(input.Type) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomTypeInvalid))
			return
		}

		channel := deps.Registry.CreateChannel(input.CategoryID, input.Name, input.Icon, input.Type)

		resp.RespondSuccess(w, r, map[string]any{
			"categoryId": input.CategoryID,
			"channel":    channel,
		})
	}
}

type OpenCreateInput struct {
	CategoryID string `json:"categoryId,omitempty"`
}

// HandleOpenCreateRoom broadcasts an open-create-room event so mounted UI
// surfaces open their create dialog, optionally pre-selecting a category.
// Delivery is best effort.
func HandleOpenCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input OpenCreateInput
		// A bare POST with no body is a plain "open the dialog" request.
		if r.ContentLength != 0 {
			if customErr := req.BindJSON(r, &input); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		}

		var detail map[string]any
		if input.CategoryID != "" {
			detail = map[string]any{"categoryId": input.CategoryID}
		}

		deps.Bus.Publish(events.Event{Name: events.OpenCreateRoom, Detail: detail})

		resp.RespondSuccess(w, r, nil)
	}
}
