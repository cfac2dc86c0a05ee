package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-oms/internal/bus"
	"github.com/rxtech-lab/argo-oms/internal/config"
	"github.com/rxtech-lab/argo-oms/internal/contract"
	"github.com/rxtech-lab/argo-oms/internal/engine"
	"github.com/rxtech-lab/argo-oms/internal/gateway"
	"github.com/rxtech-lab/argo-oms/internal/gateway/binance"
	"github.com/rxtech-lab/argo-oms/internal/gateway/paper"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/position"
	"github.com/rxtech-lab/argo-oms/internal/risk"
	"github.com/rxtech-lab/argo-oms/internal/store"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// service is everything the run command builds from the configuration.
type service struct {
	config    config.Config
	log       *logger.Logger
	contracts *contract.Table
	store     store.Store
	bus       bus.Bus
	positions *position.Manager
	engine    *engine.TradingEngine

	statsMu sync.Mutex
	stats   types.SessionStats
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Log in to the configured gateway and process commands from the bus",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "cancel-on-exit",
				Usage: "Cancel every open order before logging out",
			},
			&cli.StringFlag{
				Name:  "stats",
				Usage: "Write a YAML session report to `FILE` on exit",
			},
		}, configFlags()...),
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"), cmd.String("env-file"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}

	err = rt.serve(ctx, cmd.Bool("cancel-on-exit"))

	if path := cmd.String("stats"); path != "" {
		err = multierr.Append(err, types.WriteSessionStats(path, rt.sessionStats()))
	}

	return multierr.Append(err, rt.Close())
}

func newRegistry(cfg config.Config) (*gateway.Registry, error) {
	registry := gateway.NewRegistry()

	err := multierr.Combine(
		registry.Register(paper.Name, paper.NewFactory(cfg.Gateways.Paper)),
		registry.Register(binance.Name, binance.NewFactory(cfg.Gateways.Binance)),
	)
	if err != nil {
		return nil, err
	}

	return registry, nil
}

// bootstrap builds the runtime. Resources opened before a failure are closed.
func bootstrap(ctx context.Context, cfg config.Config) (rt *service, err error) {
	log, err := logger.NewLoggerWithOptions(cfg.Logging)
	if err != nil {
		return nil, err
	}

	rt = &service{config: cfg, log: log}

	defer func() {
		if err != nil {
			err = multierr.Append(err, rt.Close())
			rt = nil
		}
	}()

	registry, err := newRegistry(cfg)
	if err != nil {
		return rt, err
	}

	rt.contracts, err = contract.Load(cfg.Contracts.Path, cfg.Contracts.Exchange, log)
	if err != nil {
		return rt, err
	}

	rt.store, err = store.New(cfg.Store, log)
	if err != nil {
		return rt, err
	}

	rt.bus, err = bus.New(cfg.Bus, log)
	if err != nil {
		return rt, err
	}

	rt.positions = position.NewManager(rt.contracts, rt.store, log)
	if err = rt.positions.Restore(ctx, rt.contracts.All()); err != nil {
		return rt, err
	}

	rt.stats = types.NewSessionStats(uuid.NewString(), cfg.Login.Gateway, cfg.Login.Tickers)

	onCompleted := engine.OnOrderCompletedCallback(func(order types.Order) {
		rt.statsMu.Lock()
		defer rt.statsMu.Unlock()

		rt.stats.RecordCompleted(order)
	})

	rt.engine = engine.NewTradingEngine(cfg.Engine, engine.Dependencies{
		Registry:  registry,
		Contracts: rt.contracts,
		Positions: rt.positions,
		Risk:      risk.NewChainFromConfig(cfg.Risk, log),
		Bus:       rt.bus,
		Logger:    log,
		Callbacks: engine.Callbacks{OnOrderCompleted: &onCompleted},
	})

	log.Info("OMS ready",
		zap.Int("contracts", rt.contracts.Len()),
		zap.String("bus", string(cfg.Bus.Type)),
		zap.String("store", string(cfg.Store.Type)),
		zap.Strings("gateways", registry.Names()),
	)

	return rt, nil
}

// serve logs in and runs the command loop until ctx is canceled.
func (rt *service) serve(ctx context.Context, cancelOnExit bool) error {
	if err := rt.engine.Login(ctx, rt.config.Login); err != nil {
		return err
	}

	runErr := rt.engine.Run(ctx)

	timeout := rt.config.Engine.GatewayTimeout
	if timeout <= 0 {
		timeout = engine.DefaultConfig().GatewayTimeout
	}

	// ctx is already canceled here
	logoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if cancelOnExit {
		rt.log.Info("Canceled open orders on exit", zap.Int("count", rt.engine.CancelAll(logoutCtx)))
	}

	return multierr.Append(runErr, rt.engine.Logout(logoutCtx))
}

// sessionStats closes the session report with the final ledger.
func (rt *service) sessionStats() types.SessionStats {
	rt.statsMu.Lock()
	defer rt.statsMu.Unlock()

	rt.stats.Close(rt.engine.Account().AccountID, rt.positions.RealizedPnL(), rt.positions.Positions())

	return rt.stats
}

func (rt *service) Close() error {
	var err error

	if rt.bus != nil {
		err = multierr.Append(err, rt.bus.Close())
	}

	if rt.store != nil {
		err = multierr.Append(err, rt.store.Close())
	}

	_ = rt.log.Sync()

	return err
}
