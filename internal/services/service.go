package services

import (
	"mygamelist/config"
	"mygamelist/internal/database"
	"mygamelist/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Token       *TokenService
	Facet       *FacetService
	Dedupe      *DedupeService
}

func New(db database.DB, config config.Config, repos repositories.Repository) Service {
	transactionService := NewTransactionService(db)

	return Service{
		Transaction: transactionService,
		Scheduler:   NewSchedulerService(),
		Token:       NewTokenService(config, db.Cache.Session),
		Facet:       NewFacetService(repos.Game, db.Cache.General, config.StoreTimeout()),
		Dedupe:      NewDedupeService(repos.Game, transactionService),
	}
}
