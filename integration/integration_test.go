package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	promadapter "github.com/xaliphostes/introspection/adapters/prometheus"
	"github.com/xaliphostes/introspection/adapters/ws"
	"github.com/xaliphostes/introspection/core/introspect"
	"github.com/xaliphostes/introspection/ports/statepub"
)

type Person struct {
	Name   string
	Age    int
	Height float64
}

func (p *Person) SetNameAndAge(name string, age int) {
	p.Name = name
	p.Age = age
}

func (p *Person) CelebrateBirthday() { p.Age++ }

// TestIntegration drives the full stack: a registry instrumented with
// Prometheus, the live-sync WebSocket server and a recording publisher, all
// mutating one shared Person through the reflective facade.
func TestIntegration(t *testing.T) {
	promReg := prometheus.NewRegistry()
	engineMetrics := promadapter.NewIntrospectMetrics(promReg)

	reg := introspect.NewRegistry(introspect.RegistryOptions{Metrics: engineMetrics})
	introspect.MustRegisterIn(reg, "Person", func(r *introspect.Registrar[Person]) {
		introspect.Member(r, "name", func(p *Person) *string { return &p.Name })
		introspect.Member(r, "age", func(p *Person) *int { return &p.Age })
		introspect.Member(r, "height", func(p *Person) *float64 { return &p.Height })
		introspect.Method(r, "setNameAndAge", (*Person).SetNameAndAge)
		introspect.Method(r, "celebrateBirthday", (*Person).CelebrateBirthday)
	})

	person := &Person{Name: "Alice", Age: 30, Height: 1.65}
	obj, err := reg.Of(person)
	require.NoError(t, err)

	pub := statepub.NewMemPublisher()
	server := ws.NewServer(obj, ws.Options{Publisher: pub})

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() map[string]any {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var frame map[string]any
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	}

	// Initial state frame reflects the live instance.
	state := read()
	require.Equal(t, "state", state["type"])
	require.Equal(t, "Person", state["className"])

	// A member update travels client -> server -> facade -> instance.
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "update", "field": "name", "value": "Bob",
	}))
	state = read()
	require.Equal(t, "state", state["type"])
	require.Equal(t, "Bob", person.Name)

	// A method call mutates the instance and acks before rebroadcasting.
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "method", "name": "setNameAndAge", "args": []string{"Toto", "22"},
	}))
	require.Equal(t, "method_success", read()["type"])
	read() // state rebroadcast
	require.Equal(t, "Toto", person.Name)
	require.Equal(t, 22, person.Age)

	// The publisher saw every broadcast state frame.
	require.Eventually(t, func() bool {
		return len(pub.Frames()) >= 2
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, ws.SubjectPrefix+".Person", pub.Frames()[0].Subject)

	// Engine metrics advanced: one descriptor build, one write through the
	// update frame, reads from every state snapshot, one timed call.
	require.Equal(t, 1.0, counterValue(t, promReg, "introspect_descriptor_builds_total"))
	require.Equal(t, 1.0, counterValue(t, promReg, "introspect_member_writes_total"))
	require.Positive(t, counterValue(t, promReg, "introspect_member_reads_total"))

	series, err := testutil.GatherAndCount(promReg, "introspect_method_call_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, series)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
		return sum
	}
	return 0
}
