package actor

import (
	"testing"
	"time"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"
	"github.com/berfenger/aseko2mqtt/internal/util/actorutil"
	"github.com/berfenger/aseko2mqtt/pkg/asekoapi"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetUnitsAsekoActor(t *testing.T) {

	assert := assert.New(t)

	client := &asekoapi.TestUnitReader{
		Units: []*asekoapi.RawUnit{
			asekoapi.TestUnit("AA111"),
			asekoapi.TestUnit("BB222"),
		},
	}

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewAsekoActor(client, 10*time.Second, logger) })
	pid := context.Spawn(props)

	msg := domain.GetUnitsRequest{}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetUnitsResponse)

	assert.NoError(resp.GetResponseError())
	assert.Len(resp.Units, 2)
	assert.Equal(resp.Units[0].SerialNumber, "AA111", "unit serial")
	assert.Equal(resp.Units[0].BrandLabel(), "ASIN AQUA Home", "unit brand")

	context.Stop(pid)

	as.Shutdown()
}

func TestCheckAuthAsekoActor(t *testing.T) {

	assert := assert.New(t)

	client := &asekoapi.TestUnitReader{
		Units: []*asekoapi.RawUnit{asekoapi.TestUnit("AA111")},
	}

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewAsekoActor(client, 10*time.Second, logger) })
	pid := context.Spawn(props)

	result, err := context.RequestFuture(pid, domain.CheckAuthRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.CheckAuthResponse)

	assert.NoError(resp.GetResponseError())

	context.Stop(pid)

	as.Shutdown()
}

func TestGetUnitsErrorAsekoActor(t *testing.T) {

	assert := assert.New(t)

	client := &asekoapi.TestUnitReader{
		Err: &asekoapi.AuthError{Status: 401},
	}

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewAsekoActor(client, 10*time.Second, logger) })
	pid := context.Spawn(props)

	result, err := context.RequestFuture(pid, domain.GetUnitsRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetUnitsResponse)

	assert.Error(resp.GetResponseError())

	context.Stop(pid)

	as.Shutdown()
}
