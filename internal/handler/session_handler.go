/*
Package handler provides HTTP handler functions for guest session issuance.

Sessions exist for observability and rate limiting only; no route requires one.
A client first fetches a Proof-of-Work challenge, solves it, and exchanges the
proof for a signed guest token.
*/
package handler

import (
	"net/http"

	"commhub/internal/pkg/auth/jwt"
	"commhub/internal/pkg/errs"
	"commhub/internal/pkg/logx"
	"commhub/internal/pkg/randx"
	"commhub/internal/pkg/req"
	"commhub/internal/pkg/resp"
)

// HandleSessionChallenge issues a fresh PoW challenge nonce.
func HandleSessionChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"nonce":      deps.Pow.GenerateNonce(),
			"difficulty": deps.Pow.Difficulty(),
		})
	}
}

type GuestSessionInput struct {
	Nonce   string `json:"nonce"`
	Counter string `json:"counter"`
}

// HandleGuestSession validates the submitted PoW proof and, on success, issues
// a guest id and a signed session token.
func HandleGuestSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input GuestSessionInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Nonce == "" || input.Counter == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeRequired))
			return
		}

		if _, err := deps.Pow.ValidateProof(input.Nonce, input.Counter); err != nil {
			logx.Warn("Guest session rejected: PoW proof invalid.", "reason", err.Error())
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeInvalid))
			return
		}

		guestID, err := randx.GuestID()
		if err != nil {
			logx.Error(err, "Failed to generate guest id.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		payload := &jwt.Payload{
			ID:       guestID,
			UserType: "guest",
		}

		tokenString, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "Failed to sign guest session token.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token":   tokenString,
			"guestId": guestID,
		})
	}
}
