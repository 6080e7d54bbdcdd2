package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"
	"github.com/berfenger/aseko2mqtt/internal/util/actorutil"
	"github.com/berfenger/aseko2mqtt/pkg/asekoapi"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

const (
	ASEKO_ACTOR_ID = "aseko"
)

// AsekoActor serializes access to the cloud API. Requests run as background
// tasks; while one is in flight new requests are stashed, so the API never
// sees concurrent poll cycles from this bridge.
type AsekoActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	client   asekoapi.UnitReader
	timeout  time.Duration
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewAsekoActor(client asekoapi.UnitReader, timeout time.Duration, logger *zap.Logger) *AsekoActor {
	act := &AsekoActor{
		client:   client,
		timeout:  timeout,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger("aseko", logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *AsekoActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *AsekoActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("aseko@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      ASEKO_ACTOR_ID,
			Healthy: true,
			State:   "idle",
		})
	case domain.CheckAuthRequest:
		state.logger.Debug("aseko@default: CheckAuthRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.checkAuth),
			mapTaskResult[domain.CheckAuthResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.CheckAuthResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingAPI)
	case domain.GetUnitsRequest:
		state.logger.Debug("aseko@default: GetUnitsRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getUnits),
			mapTaskResult[domain.GetUnitsResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetUnitsResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingAPI)
	default:
		state.logger.Debug("aseko@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *AsekoActor) WaitingAPI(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("aseko@WaitingAPI backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("aseko@WaitingAPI stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *AsekoActor) checkAuth() (*domain.CheckAuthResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	err := a.client.CheckAuth(ctx)
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.CheckAuthResponse{}, nil
}

func (a *AsekoActor) getUnits() (*domain.GetUnitsResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	units, err := a.client.GetUnits(ctx)
	if err != nil {
		return &domain.GetUnitsResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}, nil
	}
	return &domain.GetUnitsResponse{
		Units: units,
	}, nil
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
