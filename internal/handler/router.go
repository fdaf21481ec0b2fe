/*
Package handler provides the HTTP handlers and routing setup for the Community Hub server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"commhub/internal/pkg/auth/jwt"
	"commhub/internal/pkg/limiter"
	"commhub/internal/pkg/logx"
	"commhub/internal/pkg/resp"
)

const (
	AssistantRate  = 0.5
	AssistantBurst = 5
	SessionRate    = 0.2
	SessionBurst   = 5
	FeedRate       = 0.2
	FeedBurst      = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and
// per-route middleware before mounting the registry, access, roles, assistant,
// session, file and event-feed handlers.
func Router(deps *AppDeps) http.Handler {
	assistantLimiter := limiter.NewIPRateLimiter(rate.Limit(AssistantRate), AssistantBurst)
	sessionLimiter := limiter.NewIPRateLimiter(rate.Limit(SessionRate), SessionBurst)
	feedLimiter := limiter.NewIPRateLimiter(rate.Limit(FeedRate), FeedBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Community Hub Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/rooms", func(rooms chi.Router) {
			rooms.Get("/", HandleGetRooms(deps))
			rooms.Put("/", HandleSaveRooms(deps))
			rooms.Post("/reset", HandleResetRooms(deps))
			rooms.Post("/channels", HandleCreateChannel(deps))
			rooms.Post("/open-create", HandleOpenCreateRoom(deps))
		})

		api.Route("/access", func(ac chi.Router) {
			ac.Get("/policy", HandleGetPolicy(deps))
			ac.Put("/policy", HandleSavePolicy(deps))
			ac.Get("/gate", HandleGateCheck(deps))
			ac.Post("/unlock", HandleUnlock(deps))
			ac.Get("/default-pass", HandleDefaultPass(deps))
		})

		api.Get("/roles", HandleGetRoles(deps))

		api.Route("/ai", func(ai chi.Router) {
			ai.Post("/chat", http.HandlerFunc(assistantLimiter.Middleware(HandleAssistantChat(deps)).ServeHTTP))
			ai.Post("/new-chat", HandleAssistantNewChat(deps))
			ai.Get("/history/{chatId}", HandleAssistantHistory(deps))
			ai.Get("/chats", HandleAssistantChats(deps))
			ai.Delete("/chat/{chatId}", HandleAssistantDeleteChat(deps))
		})

		api.Route("/session", func(session chi.Router) {
			session.Get("/challenge", HandleSessionChallenge(deps))
			session.Post("/guest", http.HandlerFunc(sessionLimiter.Middleware(HandleGuestSession(deps)).ServeHTTP))
		})

		api.Post("/file/presign-upload", HandlePresignUploadURL(deps))
		api.Get("/file/presign-download", HandlePresignDownloadURL(deps))
	})

	r.Get("/ws/events", HandleEventsFeed(wsUpgrader, feedLimiter, deps))

	return r
}
