package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseSpec = `
swagger: "2.0"
paths:
  /drones:
    get:
      responses:
        "200": {description: OK}
    post:
      security:
        - BearerAuth: []
      responses:
        "201": {description: Created}
        "400": {description: Bad Request}
  /drones/{id}:
    get:
      responses:
        "200": {description: OK}
        "404": {description: Not Found}
    parameters: []
`

func TestBreakingChanges(t *testing.T) {
	base, err := parse([]byte(baseSpec))
	require.NoError(t, err)
	require.Len(t, base, 3)

	t.Run("identical", func(t *testing.T) {
		assert.Empty(t, breakingChanges(base, base))
	})

	t.Run("additions are compatible", func(t *testing.T) {
		rev, err := parse([]byte(baseSpec + `
  /forum:
    get:
      responses:
        "200": {description: OK}
`))
		require.NoError(t, err)
		assert.Empty(t, breakingChanges(base, rev))
	})

	t.Run("removals and new auth", func(t *testing.T) {
		rev, err := parse([]byte(`
paths:
  /drones:
    get:
      security:
        - BearerAuth: []
      responses:
        "200": {description: OK}
    post:
      responses:
        "201": {description: Created}
`))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"now requires authentication: GET /drones",
			"removed operation: GET /drones/{id}",
			"removed response code: POST /drones -> 400",
		}, breakingChanges(base, rev))
	})
}

func TestParseRequiresPaths(t *testing.T) {
	_, err := parse([]byte("swagger: \"2.0\"\n"))
	assert.Error(t, err)
}

func TestCommittedSpecIsSelfCompatible(t *testing.T) {
	doc, err := load("../../docs/swagger.yaml")
	require.NoError(t, err)
	assert.Contains(t, doc, "POST /auth/signup")
	assert.True(t, doc["PUT /drones/{id}"].secured)
	assert.False(t, doc["GET /drones"].secured)
	assert.Empty(t, breakingChanges(doc, doc))
}
