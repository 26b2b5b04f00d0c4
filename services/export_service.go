package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Dosada05/stacking-tournament/export"
	"github.com/Dosada05/stacking-tournament/metrics"
	"github.com/Dosada05/stacking-tournament/results"
	"github.com/Dosada05/stacking-tournament/storage"
)

type ExportService interface {
	Render(ctx context.Context, w io.Writer, tournamentID, eventID string, format export.Format, opts results.Options) error
	Publish(ctx context.Context, tournamentID, eventID string, format export.Format) (*storage.UploadResult, error)
}

type exportService struct {
	results  ResultsService
	uploader storage.FileUploader
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewExportService wires rendering to the results service. uploader may be
// nil, in which case Publish returns ErrPublishingDisabled.
func NewExportService(resultsService ResultsService, uploader storage.FileUploader, m *metrics.Metrics, logger *slog.Logger) ExportService {
	return &exportService{
		results:  resultsService,
		uploader: uploader,
		metrics:  m,
		logger:   logger,
	}
}

func (s *exportService) sheet(ctx context.Context, tournamentID, eventID string, opts results.Options) (export.Sheet, error) {
	snap, err := s.results.LoadSnapshot(ctx, tournamentID, eventID)
	if err != nil {
		return export.Sheet{}, err
	}
	event, err := lookupEvent(snap, eventID)
	if err != nil {
		return export.Sheet{}, err
	}
	boards := results.AggregateEvent(event, snap.Context(), opts)
	return export.NewSheet(snap.Tournament, event, boards), nil
}

func (s *exportService) Render(ctx context.Context, w io.Writer, tournamentID, eventID string, format export.Format, opts results.Options) error {
	sheet, err := s.sheet(ctx, tournamentID, eventID, opts)
	if err != nil {
		return err
	}
	if err := export.Render(w, format, sheet); err != nil {
		return fmt.Errorf("failed to render %s sheet: %w", format, err)
	}
	s.metrics.ExportGenerated(string(format))
	return nil
}

func (s *exportService) Publish(ctx context.Context, tournamentID, eventID string, format export.Format) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrPublishingDisabled
	}
	var buf bytes.Buffer
	if err := s.Render(ctx, &buf, tournamentID, eventID, format, results.Options{}); err != nil {
		return nil, err
	}

	key := storage.ResultsKey(tournamentID, eventID, format.Ext())
	res, err := s.uploader.Upload(ctx, key, format.ContentType(), &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to publish results sheet: %w", err)
	}
	s.logger.InfoContext(ctx, "results sheet published",
		slog.String("tournament_id", tournamentID), slog.String("event_id", eventID),
		slog.String("key", res.Key), slog.String("url", res.Location))
	return res, nil
}
