package schedule

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// FXModule provides the *Scheduler, subscribes its Activator to the
// activation bus and ties the scheduler to the application lifecycle.
//
// Usage:
//
//	app := fx.New(
//	    activation.FXModule,
//	    schedule.FXModule,
//	    fx.Provide(NewReports),
//	    activation.Observe[*Reports](callsite.ScopeSingleton, reportsType),
//	)
var FXModule = fx.Module("schedule",
	fx.Provide(
		NewSchedulerWithDI,
		NewActivator,
		activation.AsListener(func(a *Activator) *Activator { return a }),
	),
	fx.Invoke(RegisterSchedulerLifecycle),
)

// SchedulerParams groups the dependencies of the scheduler.
type SchedulerParams struct {
	fx.In

	Config Config        `optional:"true"`
	Logger logger.Logger `optional:"true"`
}

// NewSchedulerWithDI creates the scheduler from injected dependencies.
func NewSchedulerWithDI(params SchedulerParams) (*Scheduler, error) {
	return NewScheduler(params.Config, params.Logger)
}

// LifecycleParams groups the dependencies for the scheduler lifecycle.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Scheduler *Scheduler
}

// RegisterSchedulerLifecycle starts the scheduler with the application and
// stops it, waiting for running jobs, on shutdown.
func RegisterSchedulerLifecycle(params LifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			params.Scheduler.Start()
			return nil
		},
		OnStop: params.Scheduler.Stop,
	})
}
