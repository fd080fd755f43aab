package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
	"github.com/Aleph-Alpha/fxinstrument/v1/config"
	"github.com/Aleph-Alpha/fxinstrument/v1/health"
	"github.com/Aleph-Alpha/fxinstrument/v1/instrument"
	"github.com/Aleph-Alpha/fxinstrument/v1/interception"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
	"github.com/Aleph-Alpha/fxinstrument/v1/schedule"
	"github.com/Aleph-Alpha/fxinstrument/v1/tracer"
)

// modules are the fxinstrument modules in dependency order.
var modules = fx.Options(
	config.FXModule,
	logger.FXModule,
	capability.FXModule,
	interception.FXModule,
	naming.FXModule,
	metrics.FXModule,
	tracer.FXModule,
	activation.FXModule,
	instrument.FXModule,
	health.FXModule,
	schedule.FXModule,
)

// withZapEvents routes fx events to the service logger.
var withZapEvents = fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: l.Zap}
})

func options(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		modules,
		fx.Provide(NewHeartbeat, NewRouter),
		activation.Observe[*Heartbeat](callsite.ScopeSingleton, heartbeatType),
		fx.Invoke(RegisterServerLifecycle),
	)
}
