package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_DisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "skyhub-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan_EndToleratesErrorsAndNil(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "DroneService", "Get")
	require.NotNil(t, ctx)
	assert.NotPanics(t, func() { span.End(errors.New("boom")) })

	var nilSpan *Span
	assert.NotPanics(t, func() { nilSpan.End(nil) })
	assert.Equal(t, "", nilSpan.TraceID())
}
