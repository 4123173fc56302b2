package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jask/roadcards/internal/database/repository"
	"github.com/jask/roadcards/internal/logger"
	"github.com/jask/roadcards/internal/prefs"
	"github.com/jask/roadcards/internal/workbook"
)

// ErrFormatSuspect is returned when the workbook layout looks wrong and the
// request was not confirmed. Nothing has been parsed or stored; ask the
// operator and retry with Confirmed set.
var ErrFormatSuspect = errors.New("workbook layout looks unusual, confirmation required")

const batchLabelLayout = "2006-01-02 15:04:05"

// ImportRequest is one uploaded workbook.
type ImportRequest struct {
	Data     []byte
	FileName string
	Kind     repository.Kind
	// Confirmed skips the layout check verdict.
	Confirmed bool
}

// ImportReport is the outcome of a completed import.
type ImportReport struct {
	Label      string
	Kind       repository.Kind
	Confidence workbook.Confidence
	Added      int
	Skipped    int
	// Dropped rows had no usable card or date. They are neither added nor
	// skipped.
	Dropped  int
	Warnings []Warning
}

// IngestService runs the import pipeline: layout check, normalization,
// reconciliation, then bookkeeping.
type IngestService struct {
	Reconciler *Reconciler
	Batches    *repository.BatchRepo
	LastUpdate *prefs.LastUpdate
	Clock      prefs.Clock
	HeaderRows int
}

// Import processes req as a whole. It returns either a complete report or a
// single error; on a storage error mid-batch the rows before it stay stored.
func (s *IngestService) Import(ctx context.Context, req ImportRequest) (ImportReport, error) {
	report := ImportReport{Kind: req.Kind}
	log := logger.FromContext(ctx)

	conf, err := workbook.Classify(req.Data)
	if err != nil {
		return report, err
	}
	report.Confidence = conf
	if conf == workbook.ConfidenceSuspect && !req.Confirmed {
		log.Warn().Str("file", req.FileName).Str("kind", string(req.Kind)).Msg("suspect workbook layout")
		return report, ErrFormatSuspect
	}

	normalizer, err := workbook.NormalizerFor(req.Kind, s.HeaderRows)
	if err != nil {
		return report, err
	}
	batch, err := normalizer.Parse(req.Data)
	if err != nil {
		return report, err
	}
	report.Dropped = batch.Dropped

	now := s.now()
	report.Label = BatchLabel(req.FileName, now)
	log = log.With().Str("batch", report.Label).Str("kind", string(req.Kind)).Logger()
	log.Info().Int("rows", batch.Len()).Int("dropped", batch.Dropped).Msg("import started")

	res, err := s.Reconciler.Reconcile(ctx, batch.All(), report.Label)
	if err != nil {
		log.Error().Err(err).Msg("import failed")
		return ImportReport{}, err
	}
	report.Added, report.Skipped, report.Warnings = res.Added, res.Skipped, res.Warnings

	if s.Batches != nil {
		if err := s.Batches.Add(ctx, repository.Batch{
			Label:      report.Label,
			FileName:   req.FileName,
			Kind:       req.Kind,
			Added:      res.Added,
			Skipped:    res.Skipped,
			Warnings:   len(res.Warnings),
			ImportedAt: now,
		}); err != nil {
			log.Warn().Err(err).Msg("import log not written")
		}
	}
	if s.LastUpdate != nil {
		if _, err := s.LastUpdate.Touch(); err != nil {
			log.Warn().Err(err).Msg("last update marker not written")
		}
	}
	log.Info().
		Int("added", res.Added).
		Int("skipped", res.Skipped).
		Int("warnings", len(res.Warnings)).
		Msg("import finished")
	return report, nil
}

func (s *IngestService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// BatchLabel derives the label for a workbook named fileName imported at
// now: the first ten characters of the name, an underscore, and the local
// import time.
func BatchLabel(fileName string, now time.Time) string {
	if fileName == "" {
		fileName = "report"
	}
	name := []rune(fileName)
	if len(name) > 10 {
		name = name[:10]
	}
	return fmt.Sprintf("%s_%s", string(name), now.Local().Format(batchLabelLayout))
}
