// Command riftcached runs the cache as a standalone server, speaking
// both the JSON HTTP API and the resp line protocol over the same
// CommandExecutor, with an external goroutine driving expiration on a
// fixed cadence (the cache core never schedules its own background
// work).
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riftcache/riftcache/cache"
	"github.com/riftcache/riftcache/executor"
	"github.com/riftcache/riftcache/internal/httpapi"
	"github.com/riftcache/riftcache/internal/respwire"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pmet "github.com/riftcache/riftcache/metrics/prom"
)

func main() {
	var (
		httpAddr        = flag.String("http_addr", ":8080", "HTTP API listen address")
		respAddr        = flag.String("resp_addr", ":6380", "resp protocol listen address")
		shardMultiplier = flag.Int("shard_multiplier", 4, "shard count multiplier over GOMAXPROCS")
		maxKeys         = flag.Int("max_keys", 0, "admission cap on resident keys (0=unbounded)")
		maxMemory       = flag.Int("max_memory", 0, "admission cap on tracked memory bytes (0=unbounded)")
		cleanupInterval = flag.Duration("cleanup_interval", 0, "expirer cadence (0=use cache default)")
		enableProm      = flag.Bool("prometheus", true, "register a Prometheus metrics adapter and mount /metrics/prom")
	)
	flag.Parse()

	config := cache.DefaultConfig()
	config.ShardMultiplier = *shardMultiplier
	if *maxKeys > 0 {
		config.MaxKeys = maxKeys
	}
	if *maxMemory > 0 {
		config.MaxMemory = maxMemory
	}
	if *cleanupInterval > 0 {
		config.TTLCleanupInterval = *cleanupInterval
	}

	var promHandler http.Handler
	if *enableProm {
		reg := prometheus.NewRegistry()
		adapter := pmet.New(reg, "riftcache", "server", nil)
		config.Metrics = adapter
		promHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	c := cache.New(config)
	defer func() { _ = c.Close() }()

	exec := executor.New(c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCleanupLoop(ctx, c, config.TTLCleanupInterval)

	httpSrv := httpapi.New(exec, promHandler)
	go func() {
		log.Printf("riftcached: http api listening on %s", *httpAddr)
		if err := httpSrv.ListenAndServe(*httpAddr); err != nil {
			log.Printf("riftcached: http server stopped: %v", err)
		}
	}()

	respLn, err := net.Listen("tcp", *respAddr)
	if err != nil {
		log.Fatalf("riftcached: resp listen: %v", err)
	}
	respSrv := respwire.New(exec)
	go func() {
		log.Printf("riftcached: resp protocol listening on %s", *respAddr)
		if err := respSrv.Serve(ctx, respLn); err != nil {
			log.Printf("riftcached: resp server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("riftcached: shutting down")
}

func runCleanupLoop(ctx context.Context, c *cache.Cache, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.CleanupExpired()
			}
		}
	}()
}
