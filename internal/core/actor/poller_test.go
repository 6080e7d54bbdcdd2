package actor

import (
	"sync"
	"testing"
	"time"

	adactor "github.com/berfenger/aseko2mqtt/internal/adapter/actor"
	"github.com/berfenger/aseko2mqtt/internal/config"
	"github.com/berfenger/aseko2mqtt/internal/core/domain"
	"github.com/berfenger/aseko2mqtt/internal/util"
	"github.com/berfenger/aseko2mqtt/pkg/asekoapi"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// collects every sensor update the poller pushes towards MQTT
type sensorUpdateCollector struct {
	mu     sync.Mutex
	events []domain.SensorUpdateEvent
}

func (c *sensorUpdateCollector) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.PublishSensorUpdateRequest:
		c.mu.Lock()
		c.events = append(c.events, msg.Event)
		c.mu.Unlock()
	}
}

func (c *sensorUpdateCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// spawns the poller as a child so parent-directed messages can be observed
type pollerHarness struct {
	cfg        *config.Config
	client     asekoapi.UnitReader
	mqttPID    *actor.PID
	logger     *zap.Logger
	discovered chan *domain.Snapshot
	authFailed chan error
}

func (h *pollerHarness) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		asekoPID := ctx.Spawn(actor.PropsFromProducer(func() actor.Actor {
			return adactor.NewAsekoActor(h.client, 5*time.Second, h.logger)
		}))
		ctx.Spawn(actor.PropsFromProducer(func() actor.Actor {
			return NewPollerActor(h.cfg, asekoPID, h.mqttPID, h.logger)
		}))
	case domain.UnitDiscovered:
		h.discovered <- msg.Snapshot
	case domain.AuthFailed:
		h.authFailed <- msg.Err
	}
}

func spawnPollerHarness(t *testing.T, as *actor.ActorSystem, client asekoapi.UnitReader) (*pollerHarness, *sensorUpdateCollector) {
	t.Helper()

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	collector := &sensorUpdateCollector{}
	mqttPID := as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return collector }))

	harness := &pollerHarness{
		cfg:        &cfg,
		client:     client,
		mqttPID:    mqttPID,
		logger:     logger,
		discovered: make(chan *domain.Snapshot, 4),
		authFailed: make(chan error, 4),
	}
	as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return harness }))
	return harness, collector
}

func TestPollerInitialCycle(t *testing.T) {

	require := require.New(t)

	as := actor.NewActorSystem()

	client := &asekoapi.TestUnitReader{
		Units: []*asekoapi.RawUnit{asekoapi.TestUnit("AA111")},
	}
	harness, collector := spawnPollerHarness(t, as, client)

	select {
	case snapshot := <-harness.discovered:
		require.Equal("AA111", snapshot.SerialNumber)
		assert.True(t, snapshot.Online)
	case <-time.After(10 * time.Second):
		t.Fatal("unit was never discovered")
	}

	// initial burst: every populated field reaches MQTT
	time.Sleep(1 * time.Second)
	assert.Greater(t, collector.count(), 8, "initial state burst")

	as.Shutdown()
}

func TestPollerSkipsUndecodableUnit(t *testing.T) {

	require := require.New(t)

	as := actor.NewActorSystem()

	client := &asekoapi.TestUnitReader{
		Units: []*asekoapi.RawUnit{nil, asekoapi.TestUnit("CC333")},
	}
	harness, collector := spawnPollerHarness(t, as, client)

	select {
	case snapshot := <-harness.discovered:
		require.Equal("CC333", snapshot.SerialNumber, "the good unit must survive a bad sibling")
	case <-time.After(10 * time.Second):
		t.Fatal("unit was never discovered")
	}

	time.Sleep(1 * time.Second)
	assert.Greater(t, collector.count(), 0, "good unit updates still published")

	as.Shutdown()
}

func TestPollerAuthFailureHalts(t *testing.T) {

	require := require.New(t)

	as := actor.NewActorSystem()

	client := &asekoapi.TestUnitReader{
		Err: &asekoapi.AuthError{Status: 401},
	}
	harness, collector := spawnPollerHarness(t, as, client)

	select {
	case err := <-harness.authFailed:
		require.Error(err)
	case <-time.After(10 * time.Second):
		t.Fatal("auth failure was never reported")
	}

	time.Sleep(1 * time.Second)
	assert.Equal(t, 0, collector.count(), "nothing published after auth failure")

	as.Shutdown()
}
