package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ledstrip/internal/config"
	"github.com/coreman2200/ledstrip/internal/driver/fake"
	"github.com/coreman2200/ledstrip/internal/effect"
	"github.com/coreman2200/ledstrip/internal/led"
	"github.com/coreman2200/ledstrip/internal/runner"
	"github.com/coreman2200/ledstrip/strip"
)

func main() {
	// ---- Flags (override config.yaml when given) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "", "driver: nrz | spidev | console | preview | sim")
		pixels     = flag.Int("pixels", 0, "number of LEDs on the strip")
		model      = flag.String("model", "", "color model: rgb | rgbw")
		order      = flag.String("order", "", "wire color order for spidev (e.g. GRB)")
		fps        = flag.Int("fps", 0, "target frames per second")
		effectName = flag.String("effect", "", "effect: comet | scroll | rainbow | solid | breathe")
		colorHex   = flag.String("color", "", "effect color, #RRGGBB or #RRGGBBWW")
		addr       = flag.String("addr", "", "preview HTTP listen address")
		logLevel   = flag.String("log-level", "", "log level: trace | debug | info | warn | error")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults and flags")
		cfg = config.Default()
	}
	overrideStr(&cfg.Driver, *driver)
	overrideStr(&cfg.Model, *model)
	overrideStr(&cfg.ColorOrder, *order)
	overrideStr(&cfg.Effect, *effectName)
	overrideStr(&cfg.Color, *colorHex)
	overrideStr(&cfg.Preview.Addr, *addr)
	overrideStr(&cfg.LogLevel, *logLevel)
	if *pixels > 0 {
		cfg.Pixels = *pixels
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level; using info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	m, _ := cfg.StripModel()
	col, _ := strip.ParseColor(cfg.Color)

	// ---- Engine ----
	eng, srv := openEngine(cfg, m)
	s, err := strip.New(cfg.Pixels, m, led.WithLogger(eng, cfg.Driver, log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("strip init failed")
	}

	e, err := effect.New(cfg.Effect, col)
	if err != nil {
		log.Fatal().Err(err).Msg("effect init failed")
	}

	// ---- Run until SIGINT / SIGTERM ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if srv != nil {
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("preview server crashed")
				stop()
			}
		}()
	}

	r := runner.New(s, e, cfg.FPS, log.Logger)
	if err := r.Run(ctx); err != nil {
		log.Error().Err(err).Msg("runner failed")
	}

	// ---- Shutdown: blank the strip, then release it ----
	if err := s.Clear(); err != nil {
		log.Warn().Err(err).Str("result", strip.ResultOf(err).String()).Msg("clear failed")
	}
	if err := s.Delete(); err != nil {
		log.Error().Err(err).Msg("delete failed")
	}
	if srv != nil {
		_ = srv.Close()
	}
}

// openEngine builds the configured transmit engine. Hardware engines fall back
// to the console emulator when the device cannot be opened.
func openEngine(cfg *config.Config, m strip.Model) (strip.Engine, *http.Server) {
	n := cfg.Pixels
	switch cfg.Driver {
	case "nrz":
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("periph host init failed; falling back to console")
			break
		}
		freq := led.DefaultNRZFreq
		if cfg.SPI.SpeedHz == 2400000 {
			freq = 2400 * physic.KiloHertz
		}
		drv, err := led.OpenNRZ(cfg.SPI.Port, n, m, freq)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "nrz").
				Str("port", cfg.SPI.Port).
				Msg("nrzled init failed; falling back to console")
			break
		}
		return drv, nil

	case "spidev":
		o, _ := led.ParseOrder(cfg.ColorOrder)
		drv, err := led.OpenSPIDev(cfg.SPI.Dev, n, m, o, cfg.SPI.SpeedHz, cfg.SPI.ResetUs)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spidev").
				Str("dev", cfg.SPI.Dev).
				Int("speed_hz", cfg.SPI.SpeedHz).
				Msg("spidev init failed; falling back to console")
			break
		}
		return drv, nil

	case "preview":
		p := led.NewPreview(n, m, log.Logger)
		return p, &http.Server{
			Addr:         cfg.Preview.Addr,
			Handler:      withCORS(p),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

	case "sim":
		return &fake.Driver{Keep: 1}, nil
	}

	c, err := led.NewConsole(n, m)
	if err != nil {
		log.Fatal().Err(err).Msg("console init failed")
	}
	return c, nil
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func overrideStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
