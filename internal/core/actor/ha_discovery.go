package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/aseko2mqtt/internal/config"
	"github.com/berfenger/aseko2mqtt/internal/core/domain"
	"github.com/berfenger/aseko2mqtt/internal/core/events"
	"github.com/berfenger/aseko2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const (
	HADISCOVERY_ACTOR_ID = "hadiscovery"
)

// HADiscoveryActor publishes Home Assistant discovery configs: the bridge
// entity once at boot, then one entity set per unit as units are discovered.
type HADiscoveryActor struct {
	config       *config.Config
	behavior     actor.Behavior
	stash        *actorutil.Stash
	mqttActor    *actor.PID
	bridgeDevice domain.Device

	logger *zap.Logger
}

func NewHADiscoveryActor(config *config.Config, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:    config,
		mqttActor: mqttActor,
		behavior:  actor.NewBehavior(),
		stash:     &actorutil.Stash{},
		logger:    actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// wait for the MQTT actor to be up before the first publish
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 10*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		if !msg.Healthy {
			panic(errors.New("MQTT actor is not healthy"))
		}

		state.bridgeDevice = events.BridgeDevice(state.config.MQTT.BaseTopic)
		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			Sensors: events.BridgeSensors(state.bridgeDevice),
		})

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_HA_DISCOVERY,
			Healthy: true,
			State:   "idle",
		})
	case domain.UnitDiscovered:
		state.logger.Debug("hadiscovery@default UnitDiscovered", zap.String("serial", msg.Snapshot.SerialNumber))

		unitDevice := events.UnitDevice(msg.Snapshot)
		unitDevice.ViaDevice = state.bridgeDevice.Id
		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			Sensors: events.UnitSensors(unitDevice, msg.Snapshot),
		})
	default:
		state.logger.Debug("hadiscovery@default: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}
