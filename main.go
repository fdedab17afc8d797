package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/krisalay/hashring/config"
	"github.com/krisalay/hashring/hashring"
	"github.com/krisalay/hashring/metrics"
)

// referenceLookups pins the numeric scenario: replicas 3, nodes 2/4/6,
// identity hash. Positions are 2,4,6,12,14,16,22,24,26.
var referenceLookups = []struct {
	key  string
	want hashring.Node
}{
	{"1", "2"},
	{"2", "2"},
	{"3", "4"},
	{"11", "2"},
	{"23", "4"},
	{"25", "6"},
	{"35", "2"},
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	initLogger(&cfg)

	if err := runReference(); err != nil {
		slog.Error("reference scenario failed", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	if err := runSample(&cfg, hashring.NewMetrics(reg)); err != nil {
		slog.Error("sample ring failed", "error", err)
		os.Exit(1)
	}

	if cfg.Metrics.Addr == "" {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := metrics.NewServer(cfg.Metrics.Addr, reg).Run(ctx); err != nil {
		slog.Error("metrics server error", "error", err)
		os.Exit(1)
	}
}

// initLogger installs the process-wide slog logger (JSON or text).
func initLogger(cfg *config.Config) {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Logger.JSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("logger initialized", "level", level, "json", cfg.Logger.JSON)
}

func runReference() error {
	r := hashring.New(3, hashring.WithHasher(hashring.Decimal))
	r.AddNodes("2", "4", "6")

	for _, tc := range referenceLookups {
		got, err := r.SelectNode(tc.key)
		if err != nil {
			return err
		}
		if got != tc.want {
			return fmt.Errorf("key %s: got node %s, want %s", tc.key, got, tc.want)
		}
		slog.Info("reference lookup", "key", tc.key, "node", got)
	}
	return nil
}

func runSample(cfg *config.Config, m *hashring.Metrics) error {
	hasher, err := hashring.HasherByName(cfg.Ring.Hasher)
	if err != nil {
		return err
	}

	r := hashring.New(cfg.Ring.Replicas, hashring.WithHasher(hasher), hashring.WithMetrics(m))
	r.AddNodes(cfg.RingNodes()...)
	slog.Info("ring built",
		"nodes", len(r.Nodes()), "positions", r.Len(), "replicas", r.Replicas(), "hasher", cfg.Ring.Hasher)

	dist := make(map[hashring.Node]int)
	for i := 0; i < cfg.Demo.Keys; i++ {
		key := fmt.Sprintf("%s-%d", cfg.Demo.SamplePrefix, i)

		n, err := r.SelectNode(key)
		if err != nil {
			return err
		}
		replicas, err := r.SelectNodes(key, cfg.Demo.Replicas)
		if err != nil {
			return err
		}
		dist[n]++
		slog.Info("lookup", "key", key, "node", n, "replicas", replicas)
	}

	for _, n := range r.Nodes() {
		slog.Info("distribution", "node", n, "keys", dist[n])
	}
	return nil
}
