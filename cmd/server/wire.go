// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"leadgen_backend/internal/app"
	"leadgen_backend/internal/config"
	"leadgen_backend/internal/flow"
	"leadgen_backend/internal/identity"
	"leadgen_backend/internal/jobs"
	"leadgen_backend/internal/platform/logger"
	"leadgen_backend/internal/profile"
	"leadgen_backend/internal/session"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,

		// Session Manager
		session.NewMemoryStore,
		session.NewManager,

		// Required-Field Schema
		profile.NewSchema,

		// Lead Repository (memory or database, per config)
		provideLeadRepository,

		// Identity Provider Adapter
		identity.NewLinkedIn,
		wire.Bind(new(identity.Provider), new(*identity.LinkedIn)),

		// Workflow Controller
		flow.NewService,
		flow.NewHandler,

		// Background jobs
		jobs.NewSessionSweepJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
