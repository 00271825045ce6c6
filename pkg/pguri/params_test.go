package pguri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsSetKeepsInsertionOrder(t *testing.T) {
	params := newParams()
	params.Set("hostname", "localhost")
	params.Set("port", 5432)
	params.Set("database", "db")

	// Overwriting must not move the key.
	params.Set("hostname", "db.internal")

	assert.Equal(t, []string{"hostname", "port", "database"}, params.Keys())
	assert.Equal(t, 3, params.Len())

	v, ok := params.Get("hostname")
	require.True(t, ok)
	assert.Equal(t, "db.internal", v)
}

func TestParamsTypedAccessors(t *testing.T) {
	params := newParams()
	params.Set("hostname", "localhost")
	params.Set("port", 5432)
	params.Set("ssl", false)

	s, ok := params.String("hostname")
	require.True(t, ok)
	assert.Equal(t, "localhost", s)

	n, ok := params.Int("port")
	require.True(t, ok)
	assert.Equal(t, 5432, n)

	b, ok := params.Bool("ssl")
	require.True(t, ok)
	assert.False(t, b)

	// Wrong type and missing key both report absence.
	_, ok = params.Int("hostname")
	assert.False(t, ok)
	_, ok = params.String("nope")
	assert.False(t, ok)
	assert.False(t, params.Has("nope"))
}
