package config

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/health"
	"github.com/Aleph-Alpha/fxinstrument/v1/interception"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
	"github.com/Aleph-Alpha/fxinstrument/v1/schedule"
	"github.com/Aleph-Alpha/fxinstrument/v1/tracer"
)

// FXModule splits a supplied *Config into the per-package configurations
// the other modules consume.
//
// Usage:
//
//	cfg, err := config.LoadFile("instrumentd.yaml")
//	app := fx.New(
//	    fx.Supply(cfg),
//	    config.FXModule,
//	    logger.FXModule,
//	    metrics.FXModule,
//	)
var FXModule = fx.Module("config",
	fx.Provide(Split),
)

// Sections are the per-package configurations of a Config.
type Sections struct {
	fx.Out

	Logger       logger.Config
	Metrics      metrics.Config
	Tracer       tracer.Config
	Naming       naming.Config
	Interception interception.Config
	Health       health.Config
	Schedule     schedule.Config
	HTTP         HTTPConfig
}

// Split provides each section of cfg.
func Split(cfg *Config) Sections {
	return Sections{
		Logger:       cfg.Logger,
		Metrics:      cfg.Metrics,
		Tracer:       cfg.Tracer,
		Naming:       cfg.Naming,
		Interception: cfg.Interception,
		Health:       cfg.Health,
		Schedule:     cfg.Schedule,
		HTTP:         cfg.HTTP,
	}
}
