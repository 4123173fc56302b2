package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jask/roadcards/internal/config"
	"github.com/jask/roadcards/internal/database"
	"github.com/jask/roadcards/internal/database/repository"
	"github.com/jask/roadcards/internal/logger"
	"github.com/jask/roadcards/internal/prefs"
	"github.com/jask/roadcards/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command and returns the process exit code. Deferred
// cleanup happens before main exits.
func run(args []string) int {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return 1
	}
	switch args[0] {
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	a, err := newApp(cfg)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("close db")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	if err := a.run(ctx, args[0], args[1:]); err != nil {
		if errors.Is(err, errUnknownCommand) {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
			printUsage(os.Stderr)
			return 1
		}
		log.Error().Err(err).Str("command", args[0]).Msg("command failed")
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Fuel card ledger")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  roadcards <command> [options]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  import-expense  Import an expense report workbook")
	fmt.Fprintln(w, "  import-payment  Import a payment report workbook")
	fmt.Fprintln(w, "  balance         Show what an identity owes")
	fmt.Fprintln(w, "  history         Page through an identity's records")
	fmt.Fprintln(w, "  show            Show one record by id")
	fmt.Fprintln(w, "  batches         List imported batches")
	fmt.Fprintln(w, "  revoke          Delete every record of a batch")
	fmt.Fprintln(w, "  export          Write records in a date range to a workbook")
	fmt.Fprintln(w, "  bind            Bind a whitelisted card to an identity")
	fmt.Fprintln(w, "  unbind          Release cards from an identity")
	fmt.Fprintln(w, "  whitelist       List or check whitelisted cards")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w, "\nRun 'roadcards <command> -h' for more information on a command.")
}

// app holds the wired services for one CLI invocation. Services log through
// the logger carried by the command context.
type app struct {
	db  *sql.DB
	in  io.Reader
	out io.Writer

	whitelist    *repository.WhitelistRepo
	lastUpdate   *prefs.LastUpdate
	ingest       *service.IngestService
	balance      *service.BalanceService
	history      *service.HistoryService
	maintenance  *service.MaintenanceService
	export       *service.ExportService
	registration *service.RegistrationService
}

func newApp(cfg config.Config) (*app, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.Migrations); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// repositories
	records := repository.NewRecordRepo(db)
	whitelist := repository.NewWhitelistRepo(db)
	bindings := repository.NewBindingRepo(db)
	batches := repository.NewBatchRepo(db)

	registrar := &service.WhitelistRegistrar{Whitelist: whitelist}
	lastUpdate := prefs.NewLastUpdate(cfg.State.LastUpdatePath, prefs.SystemClock)

	return &app{
		db:         db,
		in:         os.Stdin,
		out:        os.Stdout,
		whitelist:  whitelist,
		lastUpdate: lastUpdate,
		ingest: &service.IngestService{
			Reconciler: &service.Reconciler{DB: db, Records: records, Registrar: registrar},
			Batches:    batches,
			LastUpdate: lastUpdate,
			Clock:      prefs.SystemClock,
			HeaderRows: cfg.Import.HeaderRows,
		},
		balance:      &service.BalanceService{Cards: bindings, Records: records},
		history:      &service.HistoryService{Cards: bindings, Records: records, PageSize: cfg.History.PageSize},
		maintenance:  &service.MaintenanceService{DB: db, Records: records, Batches: batches},
		export:       &service.ExportService{Records: records},
		registration: &service.RegistrationService{DB: db, Registrar: registrar, Bindings: bindings},
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
