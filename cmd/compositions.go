package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/tracklab/internal/formatter"
	"github.com/desertthunder/tracklab/internal/models"
	"github.com/desertthunder/tracklab/internal/server"
	"github.com/desertthunder/tracklab/internal/shared"
	"github.com/urfave/cli/v3"
)

// CompositionSave saves a composition from flags and prints the resulting address as JSON.
func (r *Runner) CompositionSave(ctx context.Context, cmd *cli.Command) error {
	tracks, err := readTracks(cmd)
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	store, closeStore, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer closeStore()

	addr, err := store.Save(ctx, models.Draft{
		ID:     cmd.String("id"),
		Name:   cmd.String("name"),
		Tracks: tracks,
	})
	if err != nil {
		return fmt.Errorf("failed to save composition: %w", err)
	}

	r.logger.Info("composition saved", "id", addr.String(), "identity", store.Strategy().Kind())
	return r.writeJSON(server.SaveResponse{ID: addr}, false)
}

// CompositionGet prints a composition, or exports it to a JSON file with --output.
func (r *Runner) CompositionGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: composition id", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	store, closeStore, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer closeStore()

	comp, found, err := store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get composition: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}

	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteCompositionExport(comp, output)
		if err != nil {
			return err
		}
		r.logger.Info("composition exported", "id", comp.ID.String(), "path", path)
		return r.writePlain("✓ Exported %s to %s\n", comp.Name, path)
	}

	if cmd.Bool("json") {
		return r.writeJSON(comp, true)
	}
	return r.write(formatter.CompositionToText(comp))
}

// CompositionList prints every composition without tracks, newest first.
func (r *Runner) CompositionList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	store, closeStore, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer closeStore()

	summaries, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list compositions: %w", err)
	}

	output, err := formatter.Render(summaries, format)
	if err != nil {
		return err
	}
	return r.write(output)
}

// CompositionDelete deletes a composition and prints whether a row was removed.
func (r *Runner) CompositionDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: composition id", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	store, closeStore, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer closeStore()

	deleted, err := store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete composition: %w", err)
	}

	r.logger.Debug("composition delete", "id", id, "deleted", deleted)
	return r.writeJSON(server.DeleteResponse{Deleted: deleted}, false)
}

// readTracks takes the payload from exactly one of --tracks and --tracks-file.
func readTracks(cmd *cli.Command) (models.Tracks, error) {
	inline := cmd.String("tracks")
	file := cmd.String("tracks-file")

	switch {
	case inline != "" && file != "":
		return "", fmt.Errorf("%w: cannot specify both --tracks and --tracks-file", shared.ErrInvalidArgument)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read tracks file: %w", err)
		}
		return models.Tracks(data), nil
	case inline != "":
		return models.Tracks(inline), nil
	default:
		return "", fmt.Errorf("%w: either --tracks or --tracks-file must be provided", shared.ErrMissingArgument)
	}
}
