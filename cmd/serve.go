package cmd

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sonwamoh/perfomance-attribution/metrics"
	"github.com/sonwamoh/perfomance-attribution/refresh"
	"github.com/sonwamoh/perfomance-attribution/server"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the attribution HTTP API" }
func (*serveCmd) Usage() string {
	return `attr serve [-addr <host:port>]

  Serves the HTTP API:
    POST /build-portfolio        value a portfolio
    POST /portfolio-returns      group returns of a valuation
    POST /portfolio-attribution  attribution of two valuations (?monthly=true)
    POST /link                   attribution of linked per-period returns
    GET  /healthz
    GET  /metrics                prometheus metrics

  When refresh.enabled is set, stored prices are fetched again on the
  refresh.schedule cron (with seconds).
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides server.http_addr")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	a, err := newApp(m)
	if err != nil {
		return fail("initializing", err)
	}
	defer a.Close()

	cfg := a.cfg.Server
	if c.addr != "" {
		cfg.HTTPAddr = c.addr
	}
	gin.SetMode(cfg.Mode)

	if a.cfg.Refresh.Enabled && a.cache != nil {
		runner := refresh.New(ctx, a.store, a.cache, a.logger)
		if err := runner.Schedule(a.cfg.Refresh.Schedule); err != nil {
			return fail("scheduling refresh", err)
		}
		runner.Start()
		defer runner.Stop()
	}

	srv := server.New(cfg, a.src, m, reg, a.logger)
	if err := srv.Run(ctx); err != nil {
		a.logger.Error("server stopped", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
