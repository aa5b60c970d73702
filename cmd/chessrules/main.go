package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/shell"
	"github.com/hailam/chessrules/internal/storage"
)

// Cache backends for the checkable-range index.
const (
	cacheBadger = "badger"
	cacheText   = "text"
	cacheMemory = "memory"
)

type config struct {
	cache      string
	dataDir    string
	cpuprofile string
	workers    int
	verbose    bool
}

// parseConfig reads flags, falling back to environment variables for the
// options that have one.
func parseConfig(args []string, getenv func(string) string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("chessrules", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.cache, "cache", "", "checkable-range cache: badger, text or memory (env CHESSRULES_CACHE, default badger)")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "directory for cached data (env CHESSRULES_DATA_DIR)")
	fs.StringVar(&cfg.cpuprofile, "cpuprofile", "", "write cpu profile to file (env CPUPROFILE)")
	fs.IntVar(&cfg.workers, "workers", 0, "goroutines used by perft, 0 for one per CPU")
	fs.BoolVar(&cfg.verbose, "verbose", false, "log storage activity")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.cache == "" {
		cfg.cache = getenv("CHESSRULES_CACHE")
	}
	if cfg.cache == "" {
		cfg.cache = cacheBadger
	}
	if cfg.dataDir == "" {
		cfg.dataDir = getenv("CHESSRULES_DATA_DIR")
	}
	if cfg.cpuprofile == "" {
		cfg.cpuprofile = getenv("CPUPROFILE")
	}

	switch cfg.cache {
	case cacheBadger, cacheText, cacheMemory:
	default:
		return cfg, fmt.Errorf("unknown cache %q (want %s, %s or %s)", cfg.cache, cacheBadger, cacheText, cacheMemory)
	}
	return cfg, nil
}

// warmRanges loads the checkable-range index from the configured cache,
// building and saving it on first use. logger may be nil.
func warmRanges(cfg config, logger *log.Logger) error {
	if cfg.cache == cacheMemory {
		return nil
	}

	dataDir, err := storage.ResolveDataDir(cfg.dataDir)
	if err != nil {
		return fmt.Errorf("data directory: %w", err)
	}

	if cfg.cache == cacheText {
		return board.WarmCheckableRanges(storage.RangeFile{Path: storage.RangeFilePath(dataDir)})
	}

	dbDir, err := storage.GetDatabaseDir(dataDir)
	if err != nil {
		return fmt.Errorf("database directory: %w", err)
	}
	store, err := storage.NewStorage(dbDir, storage.NewLogger(logger))
	if err != nil {
		return err
	}
	defer store.Close()
	return board.WarmCheckableRanges(store)
}

// shutdownSignals cancel the shell.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuprofile != "" {
		f, err := os.Create(cfg.cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", cfg.cpuprofile)
	}

	var storeLog *log.Logger
	if cfg.verbose {
		storeLog = log.New(os.Stderr, "", log.LstdFlags)
	}
	if err := warmRanges(cfg, storeLog); err != nil {
		log.Printf("Warning: range cache unavailable: %v (building in memory)", err)
	} else if cfg.verbose {
		log.Printf("checkable ranges ready (cache %s)", cfg.cache)
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	sh := shell.New(os.Stdout, cfg.workers)
	if err := sh.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Printf("input: %v", err)
	}
}
