package statepub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_MemPublisher(t *testing.T) {
	p := NewMemPublisher()

	require.NoError(t, p.Publish(t.Context(), "introspect.state.Person", []byte(`{"a":1}`)))
	require.NoError(t, p.Publish(t.Context(), "introspect.state.Person", []byte(`{"a":2}`)))

	frames := p.Frames()
	require.Len(t, frames, 2)
	require.Equal(t, "introspect.state.Person", frames[0].Subject)
	require.JSONEq(t, `{"a":1}`, string(frames[0].Data))
	require.JSONEq(t, `{"a":2}`, string(frames[1].Data))
}

func Test_MemPublisher_CopiesData(t *testing.T) {
	p := NewMemPublisher()

	buf := []byte("abc")
	require.NoError(t, p.Publish(t.Context(), "s", buf))
	buf[0] = 'x'

	require.Equal(t, "abc", string(p.Frames()[0].Data))
}

func Test_Nop(t *testing.T) {
	require.NoError(t, Nop().Publish(t.Context(), "s", nil))
}
