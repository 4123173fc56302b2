package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jask/roadcards/internal/database/repository"
	"github.com/jask/roadcards/internal/logger"
	"github.com/jask/roadcards/internal/prefs"
	"github.com/jask/roadcards/internal/service"
	"github.com/jask/roadcards/internal/tui"
	"github.com/jask/roadcards/internal/workbook"
)

var errUnknownCommand = errors.New("unknown command")

const dayLayout = "02.01.2006"

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "import-expense":
		return a.runImport(ctx, cmd, repository.KindExpense, args)
	case "import-payment":
		return a.runImport(ctx, cmd, repository.KindPayment, args)
	case "balance":
		return a.runBalance(ctx, args)
	case "history":
		return a.runHistory(ctx, args)
	case "show":
		return a.runShow(ctx, args)
	case "batches":
		return a.runBatches(ctx, args)
	case "revoke":
		return a.runRevoke(ctx, args)
	case "export":
		return a.runExport(ctx, args)
	case "bind":
		return a.runBind(ctx, args)
	case "unbind":
		return a.runUnbind(ctx, args)
	case "whitelist":
		return a.runWhitelist(ctx, args)
	default:
		return errUnknownCommand
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *app) runImport(ctx context.Context, name string, kind repository.Kind, args []string) error {
	fs := a.flags(name)
	file := fs.String("file", "", "Path to the report workbook")
	yes := fs.Bool("yes", false, "Import even if the layout looks unusual")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%s: -file is required", name)
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	req := service.ImportRequest{Data: data, FileName: filepath.Base(*file), Kind: kind, Confirmed: *yes}
	report, err := a.ingest.Import(ctx, req)
	if errors.Is(err, service.ErrFormatSuspect) {
		ok, cerr := tui.Confirm("The workbook layout looks unusual. Import anyway?", a.in, a.out)
		if cerr != nil {
			return cerr
		}
		if !ok {
			fmt.Fprintln(a.out, "Import cancelled.")
			return nil
		}
		req.Confirmed = true
		report, err = a.ingest.Import(ctx, req)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, tui.RenderImport(report))
	return nil
}

func (a *app) runBalance(ctx context.Context, args []string) error {
	fs := a.flags("balance")
	identity := fs.String("identity", "", "Identity to compute the balance for")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *identity == "" {
		return errors.New("balance: -identity is required")
	}
	bal, err := a.balance.Balance(ctx, *identity)
	if err != nil {
		return err
	}
	at, ok, err := a.lastUpdate.Get()
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("last update marker unreadable")
	}
	fmt.Fprint(a.out, tui.RenderBalance(*identity, bal, prefs.FormatLastUpdate(at, ok)))
	return nil
}

func (a *app) runHistory(ctx context.Context, args []string) error {
	fs := a.flags("history")
	identity := fs.String("identity", "", "Identity whose records to show")
	page := fs.Int("page", 1, "Page number, starting at 1")
	size := fs.Int("size", 0, "Records per page (0 uses the configured size)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *identity == "" {
		return errors.New("history: -identity is required")
	}
	p, err := a.history.Page(ctx, *identity, *page-1, *size)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, tui.RenderHistory(*identity, p))
	return nil
}

func (a *app) runShow(ctx context.Context, args []string) error {
	fs := a.flags("show")
	id := fs.String("id", "", "Record id, as listed by history")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return errors.New("show: -id is required")
	}
	rec, err := a.history.Record(ctx, *id)
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Fprintf(a.out, "No record with id %s.\n", *id)
		return nil
	}
	fmt.Fprint(a.out, tui.RenderRecord(*rec))
	return nil
}

func (a *app) runBatches(ctx context.Context, args []string) error {
	if err := a.flags("batches").Parse(args); err != nil {
		return err
	}
	batches, err := a.maintenance.ListBatches(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, tui.RenderBatches(batches))
	return nil
}

func (a *app) runRevoke(ctx context.Context, args []string) error {
	fs := a.flags("revoke")
	label := fs.String("label", "", "Batch label to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*label) == "" {
		return errors.New("revoke: -label is required")
	}
	n, err := a.maintenance.Revoke(ctx, *label)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d records.\n", n)
	if n == 0 {
		s, ok, err := a.maintenance.SuggestLabel(ctx, *label)
		if err != nil {
			log := logger.FromContext(ctx)
			log.Warn().Err(err).Str("batch", *label).Msg("label suggestion failed")
		}
		if ok {
			fmt.Fprintf(a.out, "Did you mean %q?\n", s)
		}
	}
	return nil
}

func (a *app) runExport(ctx context.Context, args []string) error {
	fs := a.flags("export")
	from := fs.String("from", "", "First day, DD.MM.YYYY")
	to := fs.String("to", "", "Last day, DD.MM.YYYY")
	dir := fs.String("out", ".", "Directory for the workbook")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, end, err := exportRange(*from, *to)
	if err != nil {
		return err
	}
	rows, err := a.export.Export(ctx, start, end)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No records in range.")
		return nil
	}
	path := filepath.Join(*dir, workbook.ExportFileName(start, end))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := workbook.WriteExport(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(a.out, "Wrote %d records to %s\n", len(rows), path)
	return nil
}

// exportRange parses two DD.MM.YYYY days into an inclusive range that ends
// at the last second of the second day.
func exportRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(dayLayout, strings.TrimSpace(from))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("export: bad -from %q, want DD.MM.YYYY", from)
	}
	end, err := time.Parse(dayLayout, strings.TrimSpace(to))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("export: bad -to %q, want DD.MM.YYYY", to)
	}
	end = end.Add(24*time.Hour - time.Second)
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("export: -to is before -from")
	}
	return start, end, nil
}

func (a *app) runBind(ctx context.Context, args []string) error {
	fs := a.flags("bind")
	identity := fs.String("identity", "", "Identity to bind to")
	card := fs.String("card", "", "Card number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.registration.Register(ctx, *identity, *card); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Card %s bound to %s.\n", strings.TrimSpace(*card), strings.TrimSpace(*identity))
	return nil
}

func (a *app) runUnbind(ctx context.Context, args []string) error {
	fs := a.flags("unbind")
	identity := fs.String("identity", "", "Identity to release cards from")
	card := fs.String("card", "", "Card number to release")
	all := fs.Bool("all", false, "Release every card of the identity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *identity == "" {
		return errors.New("unbind: -identity is required")
	}
	if *all {
		cards, err := a.registration.UnbindAll(ctx, *identity)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Released %d cards: %s\n", len(cards), strings.Join(cards, ", "))
		return nil
	}
	if *card == "" {
		return errors.New("unbind: -card or -all is required")
	}
	ok, err := a.registration.Unbind(ctx, *identity, *card)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(a.out, "Card %s is not bound to %s.\n", *card, *identity)
		return nil
	}
	fmt.Fprintf(a.out, "Card %s released.\n", *card)
	return nil
}

func (a *app) runWhitelist(ctx context.Context, args []string) error {
	fs := a.flags("whitelist")
	card := fs.String("card", "", "Check a single card")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *card != "" {
		ok, err := a.whitelist.Exists(ctx, *card)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(a.out, "Card %s is whitelisted.\n", *card)
		} else {
			fmt.Fprintf(a.out, "Card %s is not whitelisted.\n", *card)
		}
		return nil
	}
	entries, err := a.whitelist.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, e.CardNumber)
	}
	return nil
}
