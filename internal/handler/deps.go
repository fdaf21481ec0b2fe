package handler

import (
	"commhub/internal/app/access"
	"commhub/internal/app/assistant"
	"commhub/internal/app/events"
	"commhub/internal/app/registry"
	"commhub/internal/app/storage"
	"commhub/internal/app/store"
	"commhub/internal/configs"
	"commhub/internal/pkg/pow"
)

// AppDeps bundles the services handlers depend on. StorageService is nil when
// attachment storage is not configured.
type AppDeps struct {
	Config         *configs.AppConfig
	Store          store.Store
	Bus            *events.Bus
	Registry       *registry.Service
	Access         *access.Service
	Assistant      *assistant.Service
	StorageService storage.StorageService
	Pow            *pow.PoWManager
}
