package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/jonathan/cv-generator/internal/config"
	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/form"
	"github.com/jonathan/cv-generator/internal/observability"
	"github.com/jonathan/cv-generator/internal/storage"
	"github.com/jonathan/cv-generator/internal/validation"
	"github.com/spf13/cobra"
)

// newEngine builds the configured PDF engine; tests swap it for a fake
var newEngine = export.NewEngine

// session is the state one command works on. Edits are made to the draft,
// which survives between invocations until it is saved or reset.
type session struct {
	cfg     *config.Config
	repo    *storage.Repository
	ctrl    *form.Controller
	printer *observability.Printer
	out     io.Writer
}

// consoleNotifier prints notifications to w
func consoleNotifier(w io.Writer) form.Notifier {
	return form.NotifierFunc(func(n form.Notification) {
		mark := "✓"
		if n.Kind == form.KindFailure {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s: %s\n", mark, n.Title, n.Message) //nolint:errcheck
	})
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if storageDir != "" {
		cfg.Storage.Dir = storageDir
	}
	if labelsCode != "" {
		cfg.Render.Labels = labelsCode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession loads the config and the working document: the draft when
// one exists, otherwise the saved document, otherwise the default one.
func openSession(cmd *cobra.Command, opts ...form.Option) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	repo := storage.NewRepository(store, cfg.Storage.Key)

	opts = append([]form.Option{
		form.WithFloors(cfg.Floors),
		form.WithMaxImageBytes(cfg.Media.MaxImageBytes),
		form.WithNotifier(consoleNotifier(cmd.ErrOrStderr())),
	}, opts...)
	ctrl := form.NewController(repo, opts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	draft, err := repo.LoadDraft(ctx)
	switch {
	case err == nil:
		ctrl.Replace(*draft)
	case errors.Is(err, storage.ErrNotFound):
		ctrl.Load(ctx)
	default:
		log.Printf("[cvgen] Ignoring unreadable draft: %v", err)
		ctrl.Load(ctx)
	}

	return &session{
		cfg:     cfg,
		repo:    repo,
		ctrl:    ctrl,
		printer: observability.NewPrinter(cmd.OutOrStdout()),
		out:     cmd.OutOrStdout(),
	}, nil
}

// commit stores the working document as the draft
func (s *session) commit(ctx context.Context) error {
	doc := s.ctrl.Snapshot()
	if err := s.repo.SaveDraft(ctx, &doc); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

// commitEdit stores the draft after an edit that keeps invalid values,
// reporting the violation as a warning
func (s *session) commitEdit(ctx context.Context, editErr error) error {
	var fe *validation.FieldError
	if editErr != nil && !errors.As(editErr, &fe) {
		return editErr
	}
	if err := s.commit(ctx); err != nil {
		return err
	}
	if fe != nil {
		fmt.Fprintf(s.out, "Warning: %s: %s\n", fe.Field, fe.Message) //nolint:errcheck
	}
	return nil
}

func (s *session) exporter() (*export.Exporter, error) {
	engine, err := newEngine(s.cfg.Export.Engine, s.cfg.EngineOptions())
	if err != nil {
		return nil, err
	}
	return export.NewExporter(engine, s.cfg.Labels()), nil
}

func parseIndex(name, raw string) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return i, nil
}

// reportRemoval stores the draft and explains a removal refused at the floor
func (s *session) reportRemoval(cmd *cobra.Command, what string, removed bool) error {
	if !removed {
		_, _ = fmt.Fprintf(s.out, "Kept %s: the list is at its minimum size\n", what)
		return nil
	}
	if err := s.commit(cmd.Context()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "Removed %s\n", what)
	return nil
}
