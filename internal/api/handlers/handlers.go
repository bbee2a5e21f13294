package handlers

import (
	"trustguard/internal/domain/services"
	"trustguard/internal/infrastructure/cache"
	"trustguard/internal/infrastructure/database"
	"trustguard/internal/infrastructure/database/repository"
	"trustguard/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Messages *MessagesHandler
	Entities *EntitiesHandler
	Reports  *ReportsHandler
	Stats    *StatsHandler
	Admin    *AdminHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Pipeline  *services.Pipeline
	Ledger    *services.Ledger
	Directory *services.Directory
	Messages  *repository.MessageRepository
	Entities  *repository.EntityRepository
	Reports   *repository.ReportRepository
	Cache     *cache.RedisCache
	DB        *database.PostgresDB
	Logger    *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Cache, deps.DB, deps.Logger),
		Messages: NewMessagesHandler(deps.Pipeline, deps.Messages, deps.Logger),
		Entities: NewEntitiesHandler(deps.Directory, deps.Ledger, deps.Logger),
		Reports:  NewReportsHandler(deps.Ledger, deps.Cache, deps.Logger),
		Stats:    NewStatsHandler(deps.Entities, deps.Reports, deps.Cache, deps.Logger),
		Admin:    NewAdminHandler(deps.Ledger, deps.Reports, deps.Entities, deps.Cache, deps.Logger),
	}
}
