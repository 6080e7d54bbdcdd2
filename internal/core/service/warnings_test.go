package service

import (
	"testing"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestResolveCatalogCode(t *testing.T) {

	w := ResolveWarning("NO_FLOW_TO_PROBES", "", "probe chamber empty")

	assert.Equal(t, "NO_FLOW_TO_PROBES", w.Type)
	assert.Equal(t, domain.SeverityCritical, w.Severity)
	assert.NotEmpty(t, w.Message)
	assert.Equal(t, "probe chamber empty", w.Detail)
}

func TestResolveUnknownCode(t *testing.T) {

	w := ResolveWarning("FW9_NEW_ERROR", "", "")

	assert.Equal(t, WarningTypeUnrecognized, w.Type)
	assert.Equal(t, domain.SeverityWarning, w.Severity)
	assert.Contains(t, w.Message, "FW9_NEW_ERROR", "raw code must stay visible")
}

func TestResolveUnknownCodeKeepsDeviceMessage(t *testing.T) {

	w := ResolveWarning("FW9_NEW_ERROR", "pump chamber sensor fault", "")

	assert.Equal(t, WarningTypeUnrecognized, w.Type)
	assert.Equal(t, "pump chamber sensor fault", w.Message)
}

func TestSeverityOrdering(t *testing.T) {

	assert.Less(t, domain.SeverityInfo, domain.SeverityWarning)
	assert.Less(t, domain.SeverityWarning, domain.SeverityCritical)
	assert.Equal(t, "CRITICAL", domain.SeverityCritical.String())
}
