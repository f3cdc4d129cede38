package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/skinweights/internal/config"
	"github.com/banshee-data/skinweights/internal/mesh"
	"github.com/banshee-data/skinweights/internal/meshdb"
	"github.com/banshee-data/skinweights/internal/progress"
	"github.com/banshee-data/skinweights/internal/timeutil"
	"github.com/banshee-data/skinweights/internal/version"
	"github.com/banshee-data/skinweights/internal/weightops"
	"github.com/banshee-data/skinweights/internal/weightplot"
)

// app runs one command against a scene database.
type app struct {
	db       *meshdb.DB
	cfg      *config.OperationConfig
	clock    timeutil.Clock
	progress progress.Sink
	out      io.Writer
}

func (a *app) engine() *weightops.Engine {
	return weightops.NewEngine(weightops.Config{
		Progress: a.progress,
		Clock:    a.clock,
		Reporter: weightops.ReporterFunc(func(msg string) { fmt.Fprintln(a.out, msg) }),
	})
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given")
	}
	cmd, rest := args[0], args[1:]

	need := func(n int, usage string) error {
		if len(rest) != n {
			return fmt.Errorf("usage: skinweights %s %s", cmd, usage)
		}
		return nil
	}

	switch cmd {
	case "import":
		if len(rest) == 0 {
			return fmt.Errorf("usage: skinweights import <scene.json>...")
		}
		return a.importScenes(rest)
	case "export":
		if err := need(2, "<object> <scene.json>"); err != nil {
			return err
		}
		return a.export(rest[0], rest[1])
	case "list":
		return a.list()
	case "transfer", "precision-transfer":
		if err := need(2, "<source> <target>"); err != nil {
			return err
		}
		return a.transfer(cmd, rest[0], rest[1])
	case "blur", "multiply":
		if err := need(1, "<object>"); err != nil {
			return err
		}
		return a.modify(cmd, rest[0])
	case "plot":
		if err := need(2, "<object> <outdir>"); err != nil {
			return err
		}
		return a.plot(rest[0], rest[1])
	case "runs":
		return a.runs()
	case "migrate":
		return a.migrate(rest)
	case "version":
		fmt.Fprintln(a.out, version.String())
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) transfer(cmd, srcName, dstName string) error {
	if srcName == dstName {
		return fmt.Errorf("%q: %w", srcName, weightops.ErrSameObject)
	}
	src, err := a.db.LoadObject(srcName)
	if err != nil {
		return err
	}
	dst, err := a.db.LoadObject(dstName)
	if err != nil {
		return err
	}

	start := a.clock.Now()
	e := a.engine()
	if cmd == "transfer" {
		err = e.QuickTransfer(src, dst, a.cfg.ToTransferParams())
	} else {
		err = e.PrecisionTransfer(src, dst, a.cfg.ToPrecisionParams())
	}
	if err != nil {
		return err
	}
	if err := a.db.SaveGroups(dst); err != nil {
		return err
	}
	return a.record(cmd, srcName, dstName, start)
}

func (a *app) modify(cmd, name string) error {
	obj, err := a.db.LoadObject(name)
	if err != nil {
		return err
	}

	start := a.clock.Now()
	e := a.engine()
	if cmd == "blur" {
		err = e.Blur(obj, a.cfg.ToBlurParams())
	} else {
		err = e.Multiply(obj, a.cfg.ToMultiplyParams())
	}
	if err != nil {
		return err
	}
	if err := a.db.SaveGroups(obj); err != nil {
		return err
	}
	return a.record(cmd, name, "", start)
}

// record appends a run to the operation log. The logged parameters are the
// resolved config so every run is reproducible from its row.
func (a *app) record(op, src, dst string, start time.Time) error {
	params, err := json.Marshal(a.cfg.Resolved())
	if err != nil {
		return err
	}
	return a.db.RecordRun(meshdb.Run{
		ID:        uuid.NewString(),
		Operation: op,
		Source:    src,
		Target:    dst,
		Params:    string(params),
		Elapsed:   a.clock.Since(start),
		StartedAt: start,
	})
}

func (a *app) list() error {
	names, err := a.db.ObjectNames()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OBJECT\tVERTICES\tGROUPS\tACTIVE")
	for _, n := range names {
		obj, err := a.db.LoadObject(n)
		if err != nil {
			return err
		}
		active := "-"
		if id, ok := obj.Groups.ActiveGroup(); ok {
			g, _ := obj.Groups.Group(id)
			active = g.Name
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", n, len(obj.Vertices), len(obj.Groups.Groups()), active)
	}
	return w.Flush()
}

func (a *app) plot(name, outDir string) error {
	obj, err := a.db.LoadObject(name)
	if err != nil {
		return err
	}
	printSummaries(a.out, obj)
	files, err := weightplot.SaveHistograms(obj, outDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(a.out, f)
	}
	return nil
}

func printSummaries(out io.Writer, obj *mesh.Object) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tASSIGNED\tMEAN\tMIN\tMAX")
	for _, s := range weightplot.Summarize(obj) {
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%.3f\n", s.Group, s.Assigned, s.Mean, s.Min, s.Max)
	}
	w.Flush()
}

func (a *app) runs() error {
	runs, err := a.db.Runs()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tOPERATION\tSOURCE\tTARGET\tELAPSED\tRUN")
	for _, r := range runs {
		target := r.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Format(time.RFC3339), r.Operation, r.Source, target, r.Elapsed, r.ID)
	}
	return w.Flush()
}

func (a *app) migrate(args []string) error {
	action := "up"
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "up":
		if err := a.db.MigrateUp(); err != nil {
			return err
		}
	case "down":
		if err := a.db.MigrateDown(); err != nil {
			return err
		}
	case "status":
	default:
		return fmt.Errorf("unknown migrate action %q (want up, down or status)", action)
	}
	v, dirty, err := a.db.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "schema version %d (dirty=%v)\n", v, dirty)
	return nil
}
