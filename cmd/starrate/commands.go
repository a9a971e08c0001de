package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/starrate/internal/config"
	"github.com/jask/starrate/internal/database/repository"
	"github.com/jask/starrate/internal/tui"
	"github.com/jask/starrate/internal/widgets"
	"github.com/jask/starrate/rating"
)

func tuiCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive picker (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), g)
		},
	}
}

func runTUI(ctx context.Context, g *globals) error {
	e, err := openEnv(ctx, g)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(ctx, e.ratings, e.ratings.Defaults, e.logger.Named("tui"))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	err = config.Watch(e.cfgPath, func(cfg config.Config, err error) {
		p.Send(tui.ConfigReloadedMsg{Config: cfg, Err: err})
	})
	if err != nil {
		// no file to watch yet; defaults stay in effect
		e.logger.Info("config watch disabled", zap.Error(err))
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func rateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <subject> <value>",
		Short: "Rate a subject; the value is clamped to the subject's range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("value %q: %w", args[1], err)
			}
			e, err := openEnv(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := e.ratings.Rate(cmd.Context(), args[0], value, repository.SourceCLI)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", res.Subject.Name, rating.FormatValue(res.Event.Value))
			if res.Clamped() {
				fmt.Fprintf(out, "(requested %s, clamped to 0..%d)\n", rating.FormatValue(res.Requested), res.Subject.MaxStars)
			}
			return nil
		},
	}
}

func showCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show [subject]",
		Short: "Print star rows for one or all subjects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			var rows []repository.SubjectRating
			if len(args) == 1 {
				subj, err := e.ratings.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				v, err := e.ratings.Current(ctx, subj.ID)
				if err != nil {
					return err
				}
				rows = append(rows, repository.SubjectRating{Subject: subj, Value: v})
			} else if rows, err = e.ratings.List(ctx); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, sr := range rows {
				fmt.Fprintf(tw, "%s\t%s\n", sr.Subject.Name, starLine(e.ratings.WidgetConfig(sr.Subject), sr.Value))
			}
			return tw.Flush()
		},
	}
}

// starLine renders a display-only widget at v followed by its label.
func starLine(cfg rating.Config, v float64) string {
	cfg.ReadOnly = true
	cfg.OnChange = nil
	w := rating.New(cfg.Controlled(v))
	return widgets.NewStarRow(w).Render() + "  " + w.Label()
}

func listCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subjects with their current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer e.Close()

			rows, err := e.ratings.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeList(cmd.OutOrStdout(), rows)
		},
	}
}

func writeList(w io.Writer, rows []repository.SubjectRating) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBJECT\tVALUE\tMAX\tHALF")
	for _, sr := range rows {
		v := "-"
		if sr.Rated {
			v = rating.FormatValue(sr.Value)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n", sr.Subject.Name, v, sr.Subject.MaxStars, sr.Subject.AllowHalf)
	}
	return tw.Flush()
}

func importCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import subject,value rows; unknown subjects are created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import: %w", err)
			}
			defer f.Close()

			e, err := openEnv(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := e.ingest.ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d (created %d subjects, clamped %d)\n", res.Imported, res.Created, res.Clamped)
			for _, rowErr := range res.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", rowErr)
			}
			return nil
		},
	}
}

func exportCmd(g *globals) *cobra.Command {
	var (
		outPath     string
		withHistory bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write subjects and ratings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer e.Close()

			w := cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create export: %w", err)
				}
				defer f.Close()
				w = f
			}
			return e.ratings.Export(cmd.Context(), w, withHistory)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&withHistory, "history", true, "Include every rating event")
	return cmd
}

func resetCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete all rating history, keeping subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.maintenance.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rating history cleared")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
