package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
)

func healthy(context.Context) error { return nil }

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry(Config{}, nil)

	require.NoError(t, r.Register("db", CheckerFunc(healthy)))
	err := r.Register("db", CheckerFunc(healthy))
	assert.True(t, IsDuplicateCheck(err))

	assert.True(t, r.Unregister("db"))
	assert.False(t, r.Unregister("db"))
	assert.NoError(t, r.Register("db", CheckerFunc(healthy)))
}

func TestRunAllReportsEveryCheck(t *testing.T) {
	r := NewRegistry(Config{Timeout: 50 * time.Millisecond, Concurrency: 2}, nil)
	require.NoError(t, r.Register("cache", CheckerFunc(healthy)))
	require.NoError(t, r.Register("db", CheckerFunc(func(context.Context) error { return errors.New("connection refused") })))
	require.NoError(t, r.Register("queue", CheckerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})))
	require.NoError(t, r.Register("search", CheckerFunc(func(context.Context) error { panic("bad check") })))

	report := r.RunAll(context.Background())

	assert.False(t, report.Healthy)
	require.Len(t, report.Checks, 4)
	assert.Equal(t, "cache", report.Checks[0].Name)
	assert.True(t, report.Checks[0].Healthy)
	assert.Equal(t, "connection refused", report.Checks[1].Error)
	assert.Equal(t, context.DeadlineExceeded.Error(), report.Checks[2].Error)
	assert.Contains(t, report.Checks[3].Error, "bad check")
}

func TestHandler(t *testing.T) {
	r := NewRegistry(Config{}, nil)
	require.NoError(t, r.Register("cache", CheckerFunc(healthy)))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.True(t, report.Healthy)

	require.NoError(t, r.Register("db", CheckerFunc(func(context.Context) error { return errors.New("down") })))
	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type database struct{ up bool }

func (d *database) Check(context.Context) error {
	if !d.up {
		return errors.New("down")
	}
	return nil
}

type notAChecker struct{ id int }

func TestActivatorRegistersAnnotatedSingletons(t *testing.T) {
	r := NewRegistry(Config{}, nil)
	a, err := NewActivator(r)
	require.NoError(t, err)

	named := &callsite.Type{Namespace: "store", Name: "Database", Annotations: callsite.Annotations{Check{Name: "database"}}}
	unnamed := &callsite.Type{Namespace: "store", Name: "Replica", Annotations: callsite.Annotations{Check{}}}
	db, replica := &database{up: true}, &database{}

	require.NoError(t, a.OnEvent(activation.Event{Type: activation.PostConstruction, Scope: callsite.ScopeSingleton, Instance: db, Descriptor: named}))
	require.NoError(t, a.OnEvent(activation.Event{Type: activation.PostConstruction, Scope: callsite.ScopeSingleton, Instance: replica, Descriptor: unnamed}))
	assert.Equal(t, []string{"database", "store.Replica"}, r.Names())

	require.NoError(t, a.OnEvent(activation.Event{Type: activation.PreDestruction, Scope: callsite.ScopeSingleton, Instance: db, Descriptor: named}))
	assert.Equal(t, []string{"store.Replica"}, r.Names())

	err = a.OnEvent(activation.Event{Type: activation.PostConstruction, Scope: callsite.ScopeSingleton, Instance: &notAChecker{}, Descriptor: named})
	assert.ErrorIs(t, err, ErrNotChecker)
}

func TestFXModule(t *testing.T) {
	desc := &callsite.Type{Namespace: "store", Name: "Database", Scope: callsite.ScopeSingleton, Annotations: callsite.Annotations{Check{Name: "database"}}}

	var r *Registry
	app := fxtest.New(t,
		activation.FXModule,
		FXModule,
		fx.Provide(func() *database { return &database{up: true} }),
		activation.Observe[*database](callsite.ScopeSingleton, desc),
		fx.Invoke(func(*database) {}),
		fx.Populate(&r),
	)
	app.RequireStart()
	assert.Equal(t, []string{"database"}, r.Names())
	assert.True(t, r.RunAll(context.Background()).Healthy)

	app.RequireStop()
	assert.Empty(t, r.Names())
}
