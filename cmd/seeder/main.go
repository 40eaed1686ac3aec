// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ammerola/stockledger/internal/adapters/db"
	"github.com/ammerola/stockledger/internal/adapters/spreadsheet"
	"github.com/ammerola/stockledger/internal/app"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/pkg/config"
	"github.com/ammerola/stockledger/internal/pkg/logger"
)

const usage = `usage: seeder [flags] <command> [args]

commands:
  migrate up|down|status|force <version>   manage the database schema
  import <file.xlsx|file.json>             import legacy stock directly, bypassing the queue
  reset                                    delete all stock data (requires -confirm)

flags:
`

func main() {
	var (
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		actor    = flag.String("actor", "", "Actor recorded on imported entries (defaults to IMPORT_DEFAULT_ACTOR)")
		confirm  = flag.String("confirm", "", "Confirmation phrase for reset")
		dryRun   = flag.Bool("dry-run", false, "Parse the import file and report without writing")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	slogger := logger.SetupLogger(*logLevel, "text")
	log := slogger.Logger

	cfg, err := config.Load(log)
	if err != nil {
		log.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	args := flag.Args()

	switch args[0] {
	case "migrate":
		err = runMigrate(ctx, cfg, args[1:], log)
	case "import":
		if len(args) < 2 {
			err = fmt.Errorf("import needs a file")
			break
		}
		who := *actor
		if who == "" {
			who = cfg.Import.DefaultActor
		}
		err = runImport(ctx, cfg, args[1], who, *dryRun, log)
	case "reset":
		err = runReset(ctx, cfg, *confirm, log)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error("command failed",
			slog.String("command", args[0]),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runMigrate(ctx context.Context, cfg *config.Config, args []string, log *slog.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("migrate needs up, down, status or force")
	}

	migrator, err := db.NewMigrator(app.MigrationConfig(cfg), log)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch args[0] {
	case "up":
		return migrator.Up(ctx)
	case "down":
		return migrator.Down(ctx)
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force needs a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return migrator.Force(ctx, version)
	case "status":
		status, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		return printJSON(status)
	}
	return fmt.Errorf("unknown migrate command %q", args[0])
}

func runImport(ctx context.Context, cfg *config.Config, path, actor string, dryRun bool, log *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	records, issues, err := spreadsheet.ReadLegacy(filepath.Base(path), data)
	if err != nil {
		return err
	}
	log.Info("legacy file parsed",
		slog.String("file", path),
		slog.Int("records", len(records)),
		slog.Int("rejected_rows", len(issues)))

	report := &ports.ImportReport{}
	if !dryRun {
		ledger, err := app.NewLedger(ctx, cfg, nil, log)
		if err != nil {
			return err
		}
		defer ledger.Close()

		if report, err = ledger.Migration.ImportLegacy(ctx, records, actor); err != nil {
			return err
		}
	} else {
		report.Total = len(records)
	}

	report.Total += len(issues)
	report.Failed += len(issues)
	report.Errors = append(issues, report.Errors...)

	if err := printJSON(report); err != nil {
		return err
	}
	if dryRun {
		fmt.Println("\n[DRY RUN] No changes were made")
	}
	return nil
}

func runReset(ctx context.Context, cfg *config.Config, confirmation string, log *slog.Logger) error {
	if cfg.IsProduction() {
		return fmt.Errorf("reset is not available in production")
	}
	// the seeder is an operator tool; the phrase check still applies
	cfg.Ledger.ResetEnabled = true

	ledger, err := app.NewLedger(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer ledger.Close()

	counts, err := ledger.Migration.ResetAll(ctx, strings.TrimSpace(confirmation))
	if err != nil {
		return err
	}
	return printJSON(counts)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
