package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/command"
	"github.com/PeqNP/CommandAndControl/config"
	"github.com/PeqNP/CommandAndControl/logging"
	"github.com/PeqNP/CommandAndControl/runloop"
	"github.com/PeqNP/CommandAndControl/service"
	"github.com/PeqNP/CommandAndControl/viewstate"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	product, err := cat.Product(catalog.ProductID(productID))
	if err != nil {
		return err
	}
	steps, err := parseScript(args, product)
	if err != nil {
		return err
	}

	loop := runloop.NewLoop()
	defer loop.Close()
	sched := runloop.NewTimerScheduler(loop)
	defer sched.Stop()

	bag := service.NewMemoryBag(cat,
		service.WithLatency(sched, cfg.GetBagLatency()),
		service.WithLogger(logger.Named("bag")))
	bag.SetFailing(cfg.Services.FailBag)

	shipping := service.NewCatalogShipping(cat,
		service.WithLatency(sched, cfg.GetShippingLatency()),
		service.WithLogger(logger.Named("shipping")))
	shipping.SetFailing(cfg.Services.FailShipping)

	cc, err := command.New(
		command.Dependencies{
			Bag:        bag,
			Shipping:   shipping,
			ViewStates: viewstate.NewFactory(cfg.Catalog.CurrencySymbol),
		},
		command.WithLogger(logger.Named("pdp")),
		command.WithResetDelay(cfg.GetResetDelay()),
		command.WithExecutor(loop),
		command.WithScheduler(sched),
	)
	if err != nil {
		return err
	}
	defer cc.Close()

	out := cmd.OutOrStdout()
	cc.Subscribe(command.DelegateFunc(func(c command.Command) {
		fmt.Fprintln(out, describe(c))
	}))

	logger.Info("starting session",
		zap.String("session_id", cc.SessionID().String()),
		zap.Int64("product_id", productID),
		zap.Int("events", len(steps)))

	cc.Receive(command.Configure{Product: product})
	for _, s := range steps {
		if s.wait > 0 {
			loop.Sync()
			time.Sleep(s.wait)
			continue
		}
		cc.Receive(s.event)
	}

	wait := settle
	if wait == 0 {
		wait = cfg.GetResetDelay() + cfg.GetBagLatency() + cfg.GetShippingLatency() + 100*time.Millisecond
	}
	time.Sleep(wait)
	loop.Sync()

	lines := bag.Lines()
	fmt.Fprintf(out, "bag: %d line(s), total %s%s\n", len(lines), cfg.Catalog.CurrencySymbol, bag.Total().StringFixed(2))
	return nil
}

func listCatalog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	printCatalog(cmd.OutOrStdout(), cat, &viewstate.DefaultFactory{CurrencySymbol: cfg.Catalog.CurrencySymbol})
	return nil
}
