// Command paramdocs renders parameter documentation pages from the command
// line: a single page to stdout, or the whole site to a directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/paramdocs/internal/config"
	"github.com/dgallion1/paramdocs/internal/export"
	"github.com/dgallion1/paramdocs/internal/site"
	"github.com/spf13/cobra"
)

var (
	contentDir string
	verbose    bool

	outDir      string
	concurrency int
)

var rootCmd = &cobra.Command{
	Use:           "paramdocs",
	Short:         "Render parameter documentation pages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var renderCmd = &cobra.Command{
	Use:   "render <page-id>",
	Short: "Render one page to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every page and the index into a directory",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "content directory with fragments/ and pages/ (default: embedded content, or $CONTENT_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	exportCmd.Flags().StringVarP(&outDir, "out", "o", "site", "output directory")
	exportCmd.Flags().IntVar(&concurrency, "concurrency", 0, "pages rendered in parallel (default: $EXPORT_CONCURRENCY)")

	rootCmd.AddCommand(renderCmd, exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (config.Config, error) {
	cfg := config.Load()
	if contentDir != "" {
		cfg.ContentDir = contentDir
	}
	if concurrency > 0 {
		cfg.ExportConcurrency = concurrency
	}
	return cfg, cfg.Validate()
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := site.Open(cmd.Context(), cfg, newLogger())
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.Composer.Render(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(doc.Body)
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	s, err := site.Open(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := export.Run(cmd.Context(), s.Composer, s.Pages, outDir, cfg.ExportConcurrency, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d pages (%d bytes) to %s\n", res.Pages, res.Bytes, outDir)
	return nil
}
