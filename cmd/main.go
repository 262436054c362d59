// Package main provides the API to manage customers, accounts and money transfers.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/sara115al/banking-transaction-system/cmd/httpserver"
	"github.com/sara115al/banking-transaction-system/internal/middleware"
	"github.com/sara115al/banking-transaction-system/pkg/configpkg"
	"github.com/sara115al/banking-transaction-system/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("BANK API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
