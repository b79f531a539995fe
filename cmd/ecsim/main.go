package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/ecsim/internal/config"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/core/event"
	coresys "github.com/l1jgo/ecsim/internal/core/system"
	"github.com/l1jgo/ecsim/internal/data"
	"github.com/l1jgo/ecsim/internal/scripting"
	"github.com/l1jgo/ecsim/internal/system"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m               ecsim  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        archetype ECS simulation host      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/ecsim.toml"
	if p := os.Getenv("ECSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	runID := uuid.New().String()
	log = log.With(zap.String("run", runID))

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	printBanner()

	// 3. World and event bus
	printSection("World")
	ecsWorld := ecs.NewWorld(cfg.World.InitialCapacity)
	bus := event.NewBus()
	spawner := system.NewSpawner(ecsWorld, bus, cfg.Sim.Seed, log)
	sprites := system.NewSpriteIndex(bus)
	printOK(fmt.Sprintf("capacity %d, seed %d", cfg.World.InitialCapacity, cfg.Sim.Seed))
	fmt.Println()

	// 4. Scenario templates
	printSection("Scenario")
	if cfg.Sim.Scenario != "" {
		sc, err := data.LoadScenario(cfg.Sim.Scenario)
		if err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
		n, err := spawner.SpawnScenario(sc)
		if err != nil {
			return fmt.Errorf("spawn scenario: %w", err)
		}
		printStat("templates", len(sc.Templates()))
		printStat("entities", n)
	} else {
		printOK("no scenario configured")
	}
	fmt.Println()

	// 5. Lua scripts
	printSection("Scripts")
	luaEngine, err := scripting.NewEngine(cfg.Sim.ScriptsDir, spawner, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer luaEngine.Close()
	printStat("lua files", luaEngine.Loaded())
	printStat("live entities", ecsWorld.Len())
	fmt.Println()

	// 6. Create systems and register with runner
	runner := coresys.NewRunner()
	movement := system.NewMovementSystem(ecsWorld, sprites)
	cleanup := system.NewCleanupSystem(ecsWorld, bus, log)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewScriptSystem(luaEngine, log))
	runner.Register(movement)
	runner.Register(system.NewLifetimeSystem(ecsWorld))
	runner.Register(system.NewBoundsSystem(ecsWorld, cfg.Sim.Bounds))
	runner.Register(cleanup)

	// 7. Start tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Sim.TickRate))
	if cfg.Sim.MaxTicks > 0 {
		printReady(fmt.Sprintf("stopping after %d ticks", cfg.Sim.MaxTicks))
	}
	fmt.Println()

	const reportInterval = 600

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
			ticks := runner.Ticks()
			if ticks%reportInterval == 0 {
				log.Info("tick",
					zap.Uint64("tick", ticks),
					zap.Int("live", ecsWorld.Len()),
					zap.Int("archetypes", ecsWorld.ArchetypeCount()),
					zap.Int("moved", movement.Moved()),
					zap.Int("sprites", sprites.Len()),
				)
			}
			if cfg.Sim.MaxTicks > 0 && ticks >= uint64(cfg.Sim.MaxTicks) {
				return shutdown(log, cfg, runID, runner, ecsWorld, cleanup)
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return shutdown(log, cfg, runID, runner, ecsWorld, cleanup)
		}
	}
}

// shutdown logs the run summary and writes the configured world dump.
func shutdown(log *zap.Logger, cfg *config.Config, runID string, runner *coresys.Runner, w *ecs.World, cleanup *system.CleanupSystem) error {
	log.Info("simulation stopped",
		zap.Uint64("ticks", runner.Ticks()),
		zap.Int("live", w.Len()),
		zap.Int("despawned", cleanup.Despawned()),
		zap.Int("archetypes", w.ArchetypeCount()),
		zap.Duration("uptime", time.Since(time.Unix(cfg.Sim.StartTime, 0))),
	)
	if cfg.Sim.Snapshot == "" {
		return nil
	}
	if err := system.WriteDump(cfg.Sim.Snapshot, system.DumpWorld(w, runID, runner.Ticks())); err != nil {
		return err
	}
	log.Info("world dump written", zap.String("path", cfg.Sim.Snapshot))
	return nil
}

// startProfile starts the configured pkg/profile mode. Returns nil when
// profiling is off.
func startProfile(cfg config.ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "alloc":
		mode = profile.MemProfileAllocs
	case "block":
		mode = profile.BlockProfile
	case "mutex":
		mode = profile.MutexProfile
	default:
		return nil
	}
	p := profile.Start(mode, profile.ProfilePath(cfg.Path), profile.NoShutdownHook, profile.Quiet)
	return p.Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
