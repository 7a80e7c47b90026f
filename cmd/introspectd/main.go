// introspectd exposes one demo Person over the live-sync WebSocket server.
// Open http://localhost:8080/ in a browser, or point a generated Python or
// JavaScript client at ws://localhost:8080/ws.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	natsadapter "github.com/xaliphostes/introspection/adapters/nats"
	promadapter "github.com/xaliphostes/introspection/adapters/prometheus"
	"github.com/xaliphostes/introspection/adapters/ws"
	"github.com/xaliphostes/introspection/core/introspect"
	"github.com/xaliphostes/introspection/ports/statepub"
)

// === Config ===

var (
	logLevel    = slog.LevelInfo
	addr        = getEnv("ADDR", ":8080")
	refreshMs   = getEnvInt("REFRESH_MS", 1000)
	metricsAddr = getEnv("METRICS_ADDR", "")
	natsEnabled = getEnvBool("NATS", false)
	natsPrefix  = getEnv("NATS_SUBJECT_PREFIX", "")
)

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, fmt.Sprintf("%d", fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	return v == "1" || strings.ToLower(v) == "true"
}

// === Domain ===

type Person struct {
	Name   string
	Age    int
	Height float64
}

func (p *Person) Introduce() string {
	return fmt.Sprintf("Hi, I'm %s, %d years old, %.2fm tall", p.Name, p.Age, p.Height)
}

func (p *Person) SetNameAndAge(name string, age int) {
	p.Name = name
	p.Age = age
}

func (p *Person) CelebrateBirthday() { p.Age++ }

func (p *Person) Grow(meters float64) { p.Height += meters }

func registerPerson(reg *introspect.Registry) {
	introspect.MustRegisterIn(reg, "Person", func(r *introspect.Registrar[Person]) {
		introspect.Member(r, "name", func(p *Person) *string { return &p.Name })
		introspect.Member(r, "age", func(p *Person) *int { return &p.Age })
		introspect.Member(r, "height", func(p *Person) *float64 { return &p.Height })
		introspect.Method(r, "introduce", (*Person).Introduce)
		introspect.Method(r, "setNameAndAge", (*Person).SetNameAndAge)
		introspect.Method(r, "celebrateBirthday", (*Person).CelebrateBirthday)
		introspect.Method(r, "grow", (*Person).Grow)
	})
}

// === Main ===

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === metrics ===

	promReg := prometheus.NewRegistry()
	engineMetrics := promadapter.NewIntrospectMetrics(promReg)
	connections := promadapter.NewGauge(promReg, "ws_connected_clients", "Number of connected WebSocket clients")

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		go func() {
			log.Info("metrics listening", slog.String("addr", metricsAddr))
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Error("metrics server failed", slog.String("err", err.Error()))
			}
		}()
	}

	// === registry + object ===

	reg := introspect.NewRegistry(introspect.RegistryOptions{Metrics: engineMetrics})
	registerPerson(reg)

	person := &Person{Name: "Toto", Age: 22, Height: 1.75}
	obj, err := reg.Of(person)
	checkErr(err)

	// === state fan-out ===

	var pub statepub.Publisher = statepub.Nop()
	if natsEnabled {
		np, err := natsadapter.NewPublisher(natsadapter.PublisherConfig{
			Connect:       natsadapter.ConnectDefault(),
			SubjectPrefix: natsPrefix,
		})
		checkErr(err)
		defer np.Close()
		pub = np
		log.Info("publishing state frames to NATS", slog.String("prefix", natsPrefix))
	}

	// === serve ===

	server := ws.NewServer(obj, ws.Options{
		Addr:        addr,
		Refresh:     time.Duration(refreshMs) * time.Millisecond,
		Publisher:   pub,
		Connections: connections,
		Log:         log,
	})

	if err := server.Run(ctx); err != nil {
		log.Error("server failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("shut down")
}

// === Helpers ===

func checkErr(err error) {
	if err != nil {
		panic(err)
	}
}
