package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/skinweights/internal/config"
	"github.com/banshee-data/skinweights/internal/meshdb"
	"github.com/banshee-data/skinweights/internal/monitoring"
	"github.com/banshee-data/skinweights/internal/progress"
	"github.com/banshee-data/skinweights/internal/timeutil"
)

var (
	dbPath      = flag.String("db", "scene.db", "Scene database path")
	configPath  = flag.String("config", "", "Operation config JSON (optional)")
	rangeMult   = flag.Float64("range", 2, "Precision transfer range multiplier")
	target      = flag.String("target", "active", "Groups to blur or multiply: active, above, below or all")
	radius      = flag.Float64("radius", 3, "Blur radius as a multiple of the average edge length")
	iterations  = flag.Int("iterations", 1, "Blur passes")
	effect      = flag.String("effect", "both", "Blur effect: both, increase or decrease")
	value       = flag.Float64("value", 1.1, "Multiply factor")
	keepTarget  = flag.Bool("keep-target", false, "Keep the target's existing groups when transferring")
	keepEmpty   = flag.Bool("keep-empty", false, "Keep transferred groups that end up empty")
	noNormalize = flag.Bool("no-normalize", false, "Do not rescale other groups after blur or multiply")
	quiet       = flag.Bool("quiet", false, "Suppress progress and diagnostic logging")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: skinweights [flags] <command> [args]

Commands:
  import <scene.json>...                  load objects into the database
  export <object> <scene.json>            write an object to a scene file
  list                                    list stored objects and their groups
  transfer <source> <target>              copy groups from the nearest source vertex
  precision-transfer <source> <target>    copy groups blended over a search range
  blur <object>                           smooth the selected groups
  multiply <object>                       scale the selected groups
  plot <object> <outdir>                  write a weight histogram per group
  runs                                    show the operation log
  migrate [up|down|status]                manage the database schema
  version                                 print build information

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	cfg := config.EmptyOperationConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadOperationConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := applyFlagOverrides(cfg, set); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	database, err := meshdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if flag.Arg(0) != "migrate" {
		if err := database.MigrateUp(); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	a := &app{
		db:    database,
		cfg:   cfg,
		clock: timeutil.RealClock{},
		out:   os.Stdout,
	}
	if !*quiet {
		a.progress = &progress.LogSink{Label: flag.Arg(0)}
	}
	if err := a.run(flag.Args()); err != nil {
		database.Close()
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

// applyFlagOverrides copies explicitly set flags over the loaded config and
// validates the result.
func applyFlagOverrides(cfg *config.OperationConfig, set map[string]bool) error {
	if set["range"] {
		cfg.RangeMultiplier = rangeMult
	}
	if set["target"] {
		cfg.Target = target
	}
	if set["radius"] {
		cfg.RadiusMultiplier = radius
	}
	if set["iterations"] {
		cfg.Iterations = iterations
	}
	if set["effect"] {
		cfg.Effect = effect
	}
	if set["value"] {
		cfg.MultiplyValue = value
	}
	if set["keep-target"] {
		v := !*keepTarget
		cfg.ClearTargetFirst = &v
	}
	if set["keep-empty"] {
		v := !*keepEmpty
		cfg.RemoveEmptyGroups = &v
	}
	if set["no-normalize"] {
		v := !*noNormalize
		cfg.NormalizeOthers = &v
	}
	return cfg.Validate()
}
