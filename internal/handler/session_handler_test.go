package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"commhub/internal/pkg/auth/jwt"
	"commhub/internal/pkg/errs"
	"commhub/internal/pkg/randx"
)

// solveChallenge brute-forces a counter satisfying the difficulty. Tests run
// with difficulty 1, so this finishes in a handful of iterations.
func solveChallenge(t *testing.T, nonce string, difficulty int) string {
	t.Helper()

	prefix := strings.Repeat("0", difficulty)
	for i := 0; i < 1_000_000; i++ {
		counter := strconv.Itoa(i)
		hash := sha256.Sum256([]byte(nonce + counter))
		if strings.HasPrefix(hex.EncodeToString(hash[:]), prefix) {
			return counter
		}
	}
	t.Fatalf("no counter found for nonce %q at difficulty %d", nonce, difficulty)
	return ""
}

func TestGuestSessionFlow(t *testing.T) {
	deps, _, _ := testDeps(t)
	router := Router(deps)

	rec := doJSON(t, router, http.MethodGet, "/api/session/challenge", nil)
	env := decodeEnvelope(t, rec)
	if env.Code != 0 {
		t.Fatalf("challenge failed: %+v", env)
	}

	var challenge struct {
		Nonce      string `json:"nonce"`
		Difficulty int    `json:"difficulty"`
	}
	if err := json.Unmarshal(env.Data, &challenge); err != nil {
		t.Fatalf("decode challenge: %v", err)
	}
	if challenge.Nonce == "" || challenge.Difficulty != 1 {
		t.Fatalf("challenge = %+v", challenge)
	}

	counter := solveChallenge(t, challenge.Nonce, challenge.Difficulty)

	rec = doJSON(t, router, http.MethodPost, "/api/session/guest", map[string]any{
		"nonce":   challenge.Nonce,
		"counter": counter,
	})
	env = decodeEnvelope(t, rec)
	if env.Code != 0 {
		t.Fatalf("guest session failed: %+v", env)
	}

	var session struct {
		Token   string `json:"token"`
		GuestID string `json:"guestId"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if !randx.IsValidGuestID(session.GuestID) {
		t.Errorf("guest id %q has wrong shape", session.GuestID)
	}

	payload, err := jwt.ParseToken(session.Token, deps.Config.JWTSecret)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if payload.ID != session.GuestID || payload.UserType != "guest" {
		t.Errorf("token payload = %+v", payload)
	}
}

func TestGuestSessionRejectsBadProof(t *testing.T) {
	deps, _, _ := testDeps(t)
	router := Router(deps)

	rec := doJSON(t, router, http.MethodGet, "/api/session/challenge", nil)
	env := decodeEnvelope(t, rec)
	var challenge struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(env.Data, &challenge); err != nil {
		t.Fatalf("decode challenge: %v", err)
	}

	// Find a counter that definitely fails the difficulty check.
	counter := ""
	for i := 0; i < 1000; i++ {
		candidate := "bad-" + strconv.Itoa(i)
		h := sha256.Sum256([]byte(challenge.Nonce + candidate))
		if !strings.HasPrefix(hex.EncodeToString(h[:]), "0") {
			counter = candidate
			break
		}
	}
	if counter == "" {
		t.Fatalf("could not find a failing counter")
	}

	rec = doJSON(t, router, http.MethodPost, "/api/session/guest", map[string]any{
		"nonce":   challenge.Nonce,
		"counter": counter,
	})
	env = decodeEnvelope(t, rec)
	if env.Code != errs.ErrPowChallengeInvalid {
		t.Errorf("envelope code = %d; want %d", env.Code, errs.ErrPowChallengeInvalid)
	}
}

func TestGuestSessionRejectsUnknownNonce(t *testing.T) {
	deps, _, _ := testDeps(t)
	router := Router(deps)

	rec := doJSON(t, router, http.MethodPost, "/api/session/guest", map[string]any{
		"nonce":   "never-issued",
		"counter": "0",
	})
	env := decodeEnvelope(t, rec)
	if env.Code != errs.ErrPowChallengeInvalid {
		t.Errorf("envelope code = %d; want %d", env.Code, errs.ErrPowChallengeInvalid)
	}
}

func TestGuestSessionRequiresFields(t *testing.T) {
	deps, _, _ := testDeps(t)
	router := Router(deps)

	rec := doJSON(t, router, http.MethodPost, "/api/session/guest", map[string]any{})
	env := decodeEnvelope(t, rec)
	if env.Code != errs.ErrPowChallengeRequired {
		t.Errorf("envelope code = %d; want %d", env.Code, errs.ErrPowChallengeRequired)
	}
}

func TestNonceIsSingleUse(t *testing.T) {
	deps, _, _ := testDeps(t)
	router := Router(deps)

	rec := doJSON(t, router, http.MethodGet, "/api/session/challenge", nil)
	env := decodeEnvelope(t, rec)
	var challenge struct {
		Nonce      string `json:"nonce"`
		Difficulty int    `json:"difficulty"`
	}
	if err := json.Unmarshal(env.Data, &challenge); err != nil {
		t.Fatalf("decode challenge: %v", err)
	}

	counter := solveChallenge(t, challenge.Nonce, challenge.Difficulty)
	body := map[string]any{"nonce": challenge.Nonce, "counter": counter}

	rec = doJSON(t, router, http.MethodPost, "/api/session/guest", body)
	if env := decodeEnvelope(t, rec); env.Code != 0 {
		t.Fatalf("first redemption failed: %+v", env)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/session/guest", body)
	if env := decodeEnvelope(t, rec); env.Code != errs.ErrPowChallengeInvalid {
		t.Errorf("replayed nonce accepted: %+v", env)
	}
}
