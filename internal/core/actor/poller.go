package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/aseko2mqtt/internal/config"
	"github.com/berfenger/aseko2mqtt/internal/core/domain"
	"github.com/berfenger/aseko2mqtt/internal/core/events"
	"github.com/berfenger/aseko2mqtt/internal/core/service"
	. "github.com/berfenger/aseko2mqtt/internal/util/actorutil"
	"github.com/berfenger/aseko2mqtt/pkg/asekoapi"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// PollerActor owns the poll cycle: ask the API actor for units, decode them,
// swap snapshots in the store, diff, and push the resulting sensor updates to
// MQTT. At most one cycle is in flight; ticks that land during a cycle are
// dropped, not queued.
type PollerActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	asekoActor *actor.PID
	mqttActor  *actor.PID
	config     *config.Config

	decoder  *service.Decoder
	store    *service.SnapshotStore
	detector *service.ChangeDetector

	logger *zap.Logger
}

type pollTick struct {
}

func NewPollerActor(config *config.Config, asekoActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *PollerActor {
	act := &PollerActor{
		config:     config,
		asekoActor: asekoActor,
		mqttActor:  mqttActor,
		behavior:   actor.NewBehavior(),
		stash:      &Stash{},
		decoder:    service.NewDecoder(logger),
		store:      service.NewSnapshotStore(),
		detector:   service.NewChangeDetector(config.MonitorConfig.Thresholds),
		logger:     ActorLogger("poller", logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *PollerActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PollerActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("poller@starting started")

		state.scheduler = scheduler.NewTimerScheduler(ctx)

		// validate the API key before the first poll
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.asekoActor, domain.CheckAuthRequest{}, state.requestTimeout()), func(err error) any {
			return domain.CheckAuthResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.Become(state.WaitingAuthReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("poller@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingAuthReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.CheckAuthResponse:
		if msg.HasResponseError() {
			var authErr *asekoapi.AuthError
			if errors.As(msg.GetResponseError(), &authErr) {
				state.haltOnAuthFailure(ctx, msg.GetResponseError())
				return
			}
			// transient failure, retry auth on the poll schedule
			state.logger.Error("poller@waitingAuth auth check failed, will retry", zap.Error(msg.GetResponseError()))
			state.scheduler.RequestOnce(state.pollInterval(), ctx.Self(), pollTick{})
			state.behavior.Become(state.StartingRetryReceive)
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Info("poller@waitingAuth auth ok, polling starts")
		ctx.Send(ctx.Self(), pollTick{})
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   "starting",
		})
	default:
		state.logger.Debug("poller@waitingAuth: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// StartingRetryReceive waits for the next tick to retry the auth check.
func (state *PollerActor) StartingRetryReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case pollTick:
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.asekoActor, domain.CheckAuthRequest{}, state.requestTimeout()), func(err error) any {
			return domain.CheckAuthResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.Become(state.WaitingAuthReceive)
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   "starting",
		})
	default:
		state.logger.Debug("poller@startingRetry: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("poller@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   "idle",
		})
	case pollTick:
		state.logger.Debug("poller@default tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.asekoActor, domain.GetUnitsRequest{}, state.requestTimeout()), func(err error) any {
			return domain.GetUnitsResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		// schedule next tick
		state.scheduler.RequestOnce(state.pollInterval(), ctx.Self(), pollTick{})
		state.behavior.BecomeStacked(state.WaitingUnitsReceive)
	case domain.GetUnitSnapshotRequest:
		state.respondSnapshot(ctx, msg)
	case domain.GetKnownUnitsRequest:
		state.respondKnownUnits(ctx, msg)
	default:
		state.logger.Debug("poller@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingUnitsReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetUnitsResponse:
		if msg.HasResponseError() {
			state.handlePollFailure(ctx, msg.GetResponseError())
			return
		}
		state.logger.Debug("poller@waitingUnits GetUnitsResponse", zap.Int("units", len(msg.Units)))
		for _, raw := range msg.Units {
			state.processUnit(ctx, raw)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case pollTick:
		// previous cycle still running, drop this tick
		state.logger.Warn("poller@waitingUnits tick while poll in flight, skipping")
		state.scheduler.RequestOnce(state.pollInterval(), ctx.Self(), pollTick{})
	case domain.GetUnitSnapshotRequest:
		state.respondSnapshot(ctx, msg)
	case domain.GetKnownUnitsRequest:
		state.respondKnownUnits(ctx, msg)
	default:
		state.logger.Debug("poller@waitingUnits: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// HaltedReceive is entered when the cloud rejects the API key. Snapshots stay
// readable, polling never resumes without a restart.
func (state *PollerActor) HaltedReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: false,
			State:   "auth_failed",
		})
	case domain.GetUnitSnapshotRequest:
		state.respondSnapshot(ctx, msg)
	case domain.GetKnownUnitsRequest:
		state.respondKnownUnits(ctx, msg)
	case pollTick:
		state.logger.Debug("poller@halted tick ignored")
	default:
		state.logger.Debug("poller@halted: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *PollerActor) processUnit(ctx actor.Context, raw *asekoapi.RawUnit) {
	snapshot, err := state.decoder.Decode(raw, time.Now())
	if err != nil {
		serial := ""
		if raw != nil {
			serial = raw.SerialNumber
		}
		state.logger.Error("poller could not decode unit payload",
			zap.String("serial", serial), zap.Error(err))
		return
	}
	prev := state.store.Update(snapshot)
	if prev == nil {
		state.logger.Info("poller discovered unit",
			zap.String("serial", snapshot.SerialNumber), zap.String("brand", snapshot.Brand))
		ctx.Send(ctx.Parent(), domain.UnitDiscovered{Snapshot: snapshot})
	}
	changes := state.detector.Diff(prev, snapshot)
	state.publishChanges(ctx, snapshot, changes)
}

// handlePollFailure distinguishes a revoked key from a transient failure. On
// auth failure polling halts; otherwise every known unit is republished as
// offline with its last-known readings intact.
func (state *PollerActor) handlePollFailure(ctx actor.Context, err error) {
	var authErr *asekoapi.AuthError
	if errors.As(err, &authErr) {
		state.behavior.UnbecomeStacked()
		state.haltOnAuthFailure(ctx, err)
		return
	}
	state.logger.Error("poller@waitingUnits poll failed", zap.Error(err))
	now := time.Now()
	for _, serial := range state.store.Serials() {
		current, ok := state.store.Current(serial)
		if !ok || !current.Online {
			continue
		}
		offline := current.MarkOffline(now)
		prev := state.store.Update(offline)
		changes := state.detector.Diff(prev, offline)
		state.publishChanges(ctx, offline, changes)
	}
	state.behavior.UnbecomeStacked()
	state.stash.UnstashAll(ctx)
}

func (state *PollerActor) haltOnAuthFailure(ctx actor.Context, err error) {
	state.logger.Error("poller API key rejected, polling halted until restart", zap.Error(err))
	ctx.Send(ctx.Parent(), domain.AuthFailed{Err: err})
	state.behavior.Become(state.HaltedReceive)
	state.stash.UnstashAll(ctx)
}

func (state *PollerActor) publishChanges(ctx actor.Context, snapshot *domain.Snapshot, changes []domain.ChangeEvent) {
	updates := events.ChangeEventsToUpdateEvents(snapshot, changes)
	for _, update := range updates {
		if ev, ok := update.(domain.SensorUpdateEvent); ok {
			ctx.Send(state.mqttActor, domain.PublishSensorUpdateRequest{
				Event: ev,
			})
		}
	}
}

func (state *PollerActor) respondSnapshot(ctx actor.Context, msg domain.GetUnitSnapshotRequest) {
	snapshot, _ := state.store.Current(msg.SerialNumber)
	ForRequest(msg).Respond(ctx, domain.GetUnitSnapshotResponse{
		Snapshot: snapshot,
	})
}

func (state *PollerActor) respondKnownUnits(ctx actor.Context, msg domain.GetKnownUnitsRequest) {
	snapshots := make([]*domain.Snapshot, 0)
	for _, serial := range state.store.Serials() {
		if snapshot, ok := state.store.Current(serial); ok {
			snapshots = append(snapshots, snapshot)
		}
	}
	ForRequest(msg).Respond(ctx, domain.GetKnownUnitsResponse{
		Snapshots: snapshots,
	})
}

func (state *PollerActor) pollInterval() time.Duration {
	return time.Duration(state.config.Aseko.PollIntervalMillis) * time.Millisecond
}

func (state *PollerActor) requestTimeout() time.Duration {
	timeout := time.Duration(state.config.Aseko.RequestTimeoutMillis) * time.Millisecond
	// the aseko actor may fan out several unit requests per cycle
	return timeout*2 + 5*time.Second
}
