package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/alireza787b/drone-teleop/internal/flightlog"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := flightlog.New(config.DBPath)
	defer store.Close()

	return plotSession(ctx, store, config, logger)
}

func plotSession(ctx context.Context, store *flightlog.Store, config *Config, logger *slog.Logger) error {
	session, err := store.Session(ctx, config.SessionID)
	if err != nil {
		return fmt.Errorf("reading session %d: %w", config.SessionID, err)
	}
	if session == nil {
		return fmt.Errorf("session %d does not exist", config.SessionID)
	}

	var opts []func(*flightlog.CommandIterator)
	var filters []any
	switch {
	case config.From != nil && config.To != nil:
		opts = append(opts, flightlog.WithTimeRange(config.From.UTC(), config.To.UTC()))

		filters = append(filters,
			slog.String("from", config.From.UTC().Format(time.DateTime)),
			slog.String("to", config.To.UTC().Format(time.DateTime)))

	case config.From != nil:
		opts = append(opts, flightlog.WithStartTime(config.From.UTC()))
		filters = append(filters, slog.String("from", config.From.UTC().Format(time.DateTime)))

	case config.To != nil:
		opts = append(opts, flightlog.WithEndTime(config.To.UTC()))
		filters = append(filters, slog.String("to", config.To.UTC().Format(time.DateTime)))
	}

	logger.Info("iterator configuration", filters...)

	iter, err := store.Commands(ctx, config.SessionID, opts...)
	if err != nil {
		return err
	}
	defer iter.Close()

	data := NewTraceData(session)
	for iter.Next() {
		data.Update(iter.Current())
	}
	if err = iter.Err(); err != nil {
		return err
	}

	if data.Count == 0 {
		return fmt.Errorf("session %d has no commands in the selected range", config.SessionID)
	}

	logger.Info("finished reading commands",
		slog.Group("stats",
			slog.Int64("commands", data.Count),
			slog.Int64("skipped", data.Skipped),
			slog.String("mode", data.Mode.String()),
			slog.String("start", data.Start.Local().Format(time.DateTime)),
			slog.String("end", data.End.Local().Format(time.DateTime)),
		))

	renderer := NewTraceRenderer(RenderConfig{
		Width:  config.Width,
		Height: config.Height,
	})

	logger.Info("rendering trace",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("width", config.Width),
			slog.Int("height", config.Height),
		))

	img, err := renderer.Render(data)
	if err != nil {
		return fmt.Errorf("rendering trace: %w", err)
	}

	if !config.NoAnnotations {
		annotator, err := NewAnnotator(renderer)
		if err != nil {
			return fmt.Errorf("creating annotator: %w", err)
		}
		if err = annotator.Annotate(img, data); err != nil {
			return fmt.Errorf("annotating trace: %w", err)
		}
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}
