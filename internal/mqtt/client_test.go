package mqtt

import (
	"testing"

	"github.com/berfenger/aseko2mqtt/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestSensorTopics(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	cfg.MQTT.BaseTopic = "loremTopic"
	client := CreateMQTTClient(&cfg, OptsFromConfig(&cfg), nil, nil)

	assert.Equal("loremTopic/bridge/state", client.BridgeStateTopic(), "bridge state topic")
	assert.Equal("loremTopic/sensor/abc123_ph/state", client.SensorStateTopic("abc123_ph"), "sensor state topic")
	assert.Equal("loremTopic/binary_sensor/abc123_online/state", client.BinarySensorStateTopic("abc123_online"), "binary sensor state topic")
	assert.Equal("loremTopic/binary_sensor/abc123_warning_active/attributes", client.BinarySensorAttributesTopic("abc123_warning_active"), "binary sensor attributes topic")
}

func TestOptsFromConfigLWT(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	cfg.MQTT.BaseTopic = "loremTopic"
	opts := OptsFromConfig(&cfg)

	assert.True(opts.WillEnabled, "LWT enabled")
	assert.True(opts.WillRetained, "LWT retained")
	assert.Equal(bridgeStateTopic(cfg.MQTT.BaseTopic), opts.WillTopic, "LWT topic")
	assert.Equal(MQTT_PAYLOAD_OFFLINE, string(opts.WillPayload), "LWT payload")
}
