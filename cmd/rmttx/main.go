// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"go.starlark.net/starlark"

	"github.com/ezrec/rmttx/peripheral"
	"github.com/ezrec/rmttx/rmt"
	"github.com/ezrec/rmttx/script"
	"github.com/ezrec/rmttx/translate"
)

var ErrBusy = errors.New(translate.From("channels still transmitting"))

func main() {
	var configFile string
	var verbose bool
	var tick time.Duration
	var drain time.Duration
	var printConfig bool

	flag.StringVar(&configFile, "config", CONFIG_FILE_NAME, "YAML configuration file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.DurationVar(&tick, "tick", 0, "Real time per simulated pulse item, overrides the configuration")
	flag.DurationVar(&drain, "drain", 0, "Longest wait for idle channels, overrides the configuration")
	flag.BoolVar(&printConfig, "print-config", false, "Print the effective configuration and exit")

	flag.Parse()

	overrides := map[string]any{}
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "v":
			overrides["verbose"] = verbose
		case "tick":
			overrides["tick"] = tick
		case "drain":
			overrides["drain"] = drain
		}
	})

	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		log.Fatalf("%v: %v", configFile, err)
	}

	if len(cfg.Locale) != 0 {
		translate.Use(cfg.Locale)
	}

	if printConfig {
		err = writeConfig(os.Stdout, cfg)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if flag.NArg() != 1 {
		log.Fatal(translate.Error("%v: expected one script, got %v", os.Args[0], flag.Args()))
	}

	err = run(cfg, flag.Arg(0))
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			log.Fatal(evalErr.Backtrace())
		}
		log.Fatal(err)
	}
}

// run executes a script against a simulated transmitter, then clocks the
// transmitter until it goes idle and prints what each channel sent.
func run(cfg config, filename string) (err error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return
	}

	sim := peripheral.NewSim()
	sim.Verbose = cfg.Verbose

	ctl := rmt.NewController(sim, cfg.ControllerConfig())
	defer ctl.Close()

	s := script.NewScript(ctl, sim)
	s.Verbose = cfg.Verbose

	_, err = s.Exec(filename, src)
	if err != nil {
		return
	}

	err = drainChannels(cfg, sim, ctl)
	if errors.Is(err, ErrBusy) {
		// Looping channels never finish.
		log.Printf("%v: %v", filename, err)
		err = nil
	}
	if err != nil {
		return
	}

	printWaveforms(sim)

	if cfg.Verbose {
		log.Printf("events: %d posted, %d dropped, %d ignored, %d faults",
			ctl.Dispatcher.Posted(), ctl.Dispatcher.Dropped(), ctl.Dispatcher.Ignored(), ctl.Dispatcher.Faults())
		log.Printf("callbacks: %d delivered, %d stale, %d failed",
			ctl.Worker.Delivered(), ctl.Worker.Stale(), ctl.Worker.Failed())
	}

	return
}

// drainChannels runs the clock and the event worker until every channel
// is idle and every event is delivered, or cfg.Drain has passed.
func drainChannels(cfg config, sim *peripheral.Sim, ctl *rmt.Controller) (err error) {
	if cfg.Tick <= 0 {
		err = translate.Error("tick must be > 0, was %v", cfg.Tick)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sim.Run(ctx, cfg.Tick)
	}()
	go func() {
		defer wg.Done()
		ctl.Run(ctx)
	}()

	op := func() error {
		if !sim.Idle() || ctl.Pending() != 0 {
			return ErrBusy
		}
		return nil
	}

	err = backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     cfg.Tick,
		RandomizationFactor: 0.,
		Multiplier:          2.,
		MaxInterval:         100 * cfg.Tick,
		MaxElapsedTime:      cfg.Drain,
		Clock:               backoff.SystemClock})

	cancel()
	wg.Wait()

	return
}

func printWaveforms(sim *peripheral.Sim) {
	for n := range peripheral.CHANNEL_COUNT {
		wave := sim.Waveform(n)
		if wave.Items == 0 {
			continue
		}

		var tickNs float64
		if hw, ok := sim.Config(n); ok {
			tickNs = rmt.TickDuration(hw.ClockDivider)
		}

		fmt.Printf("channel %d: %d items, %d ticks, %.3f us\n", n, wave.Items, wave.Ticks(), float64(wave.Ticks())*tickNs/1e3)
		fmt.Printf("  %v\n", wave)
	}
}
