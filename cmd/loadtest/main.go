package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/xaliphostes/introspection/core/box"
	"github.com/xaliphostes/introspection/core/introspect"
)

// === Config ===

var (
	logLevel  = slog.LevelInfo
	N         = getEnvInt("N", 1_000_000)
	batchSize = getEnvInt("B", 100_000)
	mode      = getEnv("MODE", "call") // call | read | write
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

//

type Account struct {
	Owner   string
	Balance float64
	Ops     int
}

func (a *Account) Deposit(amount float64) {
	a.Balance += amount
	a.Ops++
}

func (a *Account) Describe() string {
	return fmt.Sprintf("%s: %.2f after %d ops", a.Owner, a.Balance, a.Ops)
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	fmt.Printf("Mode: %s\n", mode)
	fmt.Printf("   N: %d\n", N)

	reg := introspect.NewRegistry(introspect.RegistryOptions{})
	introspect.MustRegisterIn(reg, "Account", func(r *introspect.Registrar[Account]) {
		introspect.Member(r, "owner", func(a *Account) *string { return &a.Owner })
		introspect.Member(r, "balance", func(a *Account) *float64 { return &a.Balance })
		introspect.Member(r, "ops", func(a *Account) *int { return &a.Ops })
		introspect.Method(r, "deposit", (*Account).Deposit)
		introspect.Method(r, "describe", (*Account).Describe)
	})

	account := &Account{Owner: "bench"}
	obj, err := reg.Of(account)
	checkErr(err)

	// === START ===

	log.Info("==================================")
	log.Info("Starting ...")

	startAt := time.Now()
	lastTime := startAt

	for i := 0; i < N; i++ {
		switch mode {
		case "read":
			_, err = obj.GetMemberValue("balance")
		case "write":
			err = obj.SetMemberValue("balance", box.Of(float64(i)))
		default:
			_, err = obj.CallMethod("deposit", box.Of(1.0))
		}
		checkErr(err)

		if i == 0 {
			continue
		}
		if i%batchSize == 0 {
			mu := getMemUsage()

			n := time.Now()
			took := n.Sub(lastTime)
			fmt.Printf(" | %7d ops | %6d ms | %8d ops/s | (%d / %d) MiB mem (sys) |\n", batchSize, took.Milliseconds(), int(float64(batchSize)/took.Seconds()), mu.Alloc/1024/1024, mu.Sys/1024/1024)
			lastTime = n
		}
	}

	// === stats ===
	println("")
	println("==========================================")

	doneAt := time.Now()
	took := doneAt.Sub(startAt)
	runtime.GC()

	fmt.Printf("total runtime: %.3f seconds\n", took.Seconds())
	fmt.Printf("  avg. ops/s: %d\n", int(float64(N)/took.Seconds()))
	if mode == "call" {
		desc, err := obj.CallMethod("describe")
		checkErr(err)
		s, err := box.As[string](desc)
		checkErr(err)
		fmt.Printf("       final: %s\n", s)
	}
}

// === stats helpers ===

type MemUsage struct {
	Alloc      uint64 // bytes allocated and not yet freed (heap)
	TotalAlloc uint64 // cumulative bytes allocated
	Sys        uint64 // total bytes obtained from OS
	NumGC      uint32 // gc cycles
}

func getMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemUsage{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
	}
}

// === Helpers ===

func checkErr(err error) {
	if err != nil {
		panic(err)
	}
}
