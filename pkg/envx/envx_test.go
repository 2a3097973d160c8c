package envx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Setenv("ENVX_STRING", "value")
	require.Equal(t, "value", String("ENVX_STRING", "default"))
	require.Equal(t, "default", String("ENVX_STRING_UNSET", "default"))
}

func TestInt(t *testing.T) {
	t.Setenv("ENVX_INT", "42")
	t.Setenv("ENVX_INT_BAD", "forty-two")
	require.Equal(t, 42, Int("ENVX_INT", 7))
	require.Equal(t, 7, Int("ENVX_INT_BAD", 7))
	require.Equal(t, 7, Int("ENVX_INT_UNSET", 7))
}

func TestBool(t *testing.T) {
	t.Setenv("ENVX_BOOL", "true")
	t.Setenv("ENVX_BOOL_BAD", "yes please")
	require.True(t, Bool("ENVX_BOOL", false))
	require.True(t, Bool("ENVX_BOOL_BAD", true))
	require.False(t, Bool("ENVX_BOOL_UNSET", false))
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVX_DUR", "90s")
	t.Setenv("ENVX_DUR_MIN", "15")
	t.Setenv("ENVX_DUR_BAD", "soon")
	require.Equal(t, 90*time.Second, Duration("ENVX_DUR", time.Minute))
	require.Equal(t, 15*time.Minute, Duration("ENVX_DUR_MIN", time.Minute))
	require.Equal(t, time.Minute, Duration("ENVX_DUR_BAD", time.Minute))
	require.Equal(t, time.Minute, Duration("ENVX_DUR_UNSET", time.Minute))
}
