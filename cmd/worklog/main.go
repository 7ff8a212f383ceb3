package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/internal/config"
	"github.com/cadwork/worklog/internal/export"
	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
	"github.com/cadwork/worklog/internal/services/lifecycle"
	"github.com/cadwork/worklog/pkg/logger"
	"github.com/cadwork/worklog/repository"
	boltRepo "github.com/cadwork/worklog/repository/bolt"
	dashboardUC "github.com/cadwork/worklog/usecase/dashboard"
	trackerUC "github.com/cadwork/worklog/usecase/tracker"
)

const usage = `worklog - internship work tracking

Usage: worklog <command> [flags]

Commands:
  init      open the store and seed sample data when empty
  stats     task counters for the current user
  summary   tracked-time summary (-days N, default 30)
  start     start tracking (-task ID, -desc TEXT)
  stop      stop the running entry
  status    show the running entry, if any
  export    write time entries to a file (-format csv|json, -out PATH)
  reset     wipe the store and reseed (-yes required)
`

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *recordstore.Store
	users   repository.UserRepository
	tasks   repository.TaskRepository
	entries repository.TimeEntryRepository
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	ctx, cancel := manager.WatchSignals(context.Background())
	defer cancel()

	store, err := recordstore.Open(cfg.Store.Path)
	if err != nil {
		zapLogger.Fatal("failed to open store", zap.String("path", cfg.Store.Path), zap.Error(err))
	}
	manager.Register("store", func(ctx context.Context) error {
		return store.Close()
	})

	if cfg.Store.SeedOnInit {
		if _, err := boltRepo.Seed(ctx, store, zapLogger); err != nil {
			zapLogger.Fatal("seeding failed", zap.Error(err))
		}
	}

	a := &app{
		cfg:     cfg,
		logger:  zapLogger,
		store:   store,
		users:   boltRepo.NewUserRepository(store, cfg.User.CurrentID, zapLogger),
		entries: boltRepo.NewTimeEntryRepository(store, zapLogger),
	}
	a.tasks = boltRepo.NewTaskRepository(store, cfg.User.CurrentID, zapLogger)

	err = a.run(ctx, os.Args[1], os.Args[2:])

	if shutdownErr := manager.Shutdown(context.Background()); shutdownErr != nil {
		zapLogger.Error("shutdown incomplete", zap.Error(shutdownErr))
	}
	if err != nil {
		zapLogger.Sync()
		fmt.Fprintf(os.Stderr, "worklog: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "init":
		return a.cmdInit(ctx)
	case "stats":
		return a.cmdStats(ctx)
	case "summary":
		return a.cmdSummary(ctx, args)
	case "start":
		return a.cmdStart(ctx, args)
	case "stop":
		return a.cmdStop(ctx)
	case "status":
		return a.cmdStatus(ctx)
	case "export":
		return a.cmdExport(ctx, args)
	case "reset":
		return a.cmdReset(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdInit(ctx context.Context) error {
	// Opening already provisioned the buckets; seed explicitly in case
	// SEED_ON_INIT was disabled.
	seeded, err := boltRepo.Seed(ctx, a.store, a.logger)
	if err != nil {
		return err
	}
	if seeded {
		fmt.Printf("store initialized at %s (sample data seeded)\n", a.store.Path())
	} else {
		fmt.Printf("store ready at %s\n", a.store.Path())
	}
	return nil
}

func (a *app) cmdStats(ctx context.Context) error {
	uc := dashboardUC.New(a.users, a.tasks, a.entries, a.logger)
	report, err := uc.Build(ctx, 30)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func (a *app) cmdSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	days := fs.Int("days", 30, "trailing window in days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.users.CurrentUser(ctx)
	if err != nil {
		return err
	}
	summary, err := a.entries.Summary(ctx, user.ID, *days)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func (a *app) cmdStart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	taskID := fs.String("task", "", "task id to track against")
	desc := fs.String("desc", "", "entry description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	uc := trackerUC.New(a.users, a.entries, a.logger)
	entry, err := uc.Start(ctx, *taskID, *desc)
	if err != nil {
		return err
	}
	fmt.Printf("tracking %s since %s\n", entry.ID, entry.StartTime.Local().Format(time.Kitchen))
	return nil
}

func (a *app) cmdStop(ctx context.Context) error {
	uc := trackerUC.New(a.users, a.entries, a.logger)
	entry, err := uc.Stop(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("stopped %s after %s\n", entry.ID, (time.Duration(entry.Seconds()) * time.Second))
	return nil
}

func (a *app) cmdStatus(ctx context.Context) error {
	uc := trackerUC.New(a.users, a.entries, a.logger)
	entry, err := uc.Status(ctx)
	if err != nil {
		return err
	}
	if entry == nil {
		fmt.Println("idle")
		return nil
	}
	elapsed := time.Since(entry.StartTime).Truncate(time.Second)
	fmt.Printf("tracking %s for %s\n", entry.ID, elapsed)
	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "csv", "output format: csv or json")
	out := fs.String("out", "", "output file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		*out = "worklog-export." + *format
	}

	user, err := a.users.CurrentUser(ctx)
	if err != nil {
		return err
	}
	entries, err := a.entries.List(ctx, user.ID)
	if err != nil {
		return err
	}
	taskList, err := a.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return err
	}
	tasks := make(map[string]domain.Task, len(taskList))
	for _, t := range taskList {
		tasks[t.ID] = t
	}

	switch *format {
	case "csv":
		err = export.ToCSV(entries, tasks, *out)
	case "json":
		err = export.ToJSON(entries, tasks, *out)
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", *format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("exported %d entries to %s\n", len(entries), *out)
	return nil
}

func (a *app) cmdReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "confirm wiping all data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("reset wipes all data; re-run with -yes to confirm")
	}

	if err := a.store.Reset(ctx); err != nil {
		return err
	}
	if _, err := boltRepo.Seed(ctx, a.store, a.logger); err != nil {
		return err
	}
	fmt.Println("store reset and reseeded")
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
