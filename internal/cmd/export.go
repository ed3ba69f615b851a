package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/eijiro/internal/config"
	"github.com/runger/eijiro/internal/export"
)

var (
	exportWorkers     int
	exportPageSize    int
	exportSample      bool
	exportShowReading bool
)

var exportCmd = &cobra.Command{
	Use:     "export [output]",
	Short:   "Write the Dictionary XML document",
	GroupID: groupDictionary,
	Long: `Write every headword in the database as one <d:entry> of an Apple
Dictionary Development Kit source document.

Records sharing a headword are merged into one entry, grouped by word
class. The output file is replaced atomically. Without an output
argument, or with "-", the document is written to stdout.

Examples:
  eijiro export Dictionary.xml             # full dictionary
  eijiro export --sample sample.xml        # about 1/256 of all headwords
  eijiro export --workers 8 - | gzip > Dictionary.xml.gz`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().IntVar(&exportWorkers, "workers", 0, "Headwords rendered concurrently (default from export.workers)")
	exportCmd.Flags().IntVar(&exportPageSize, "page-size", 0, "Headword identities fetched per query (default from export.page_size)")
	exportCmd.Flags().BoolVar(&exportSample, "sample", false, "Export only headwords whose identity starts with "+export.SamplePrefix)
	exportCmd.Flags().BoolVar(&exportShowReading, "show-reading", false, "Include kana readings in entries")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if err := applyExportFlags(cmd, cfg); err != nil {
		return err
	}

	dest := export.StdoutPath
	if len(args) > 0 {
		dest = args[0]
	}

	logger := newLogger(cfg)
	// One connection per worker plus one for the page query.
	store, err := openExistingStore(cfg, logger, cfg.Export.Workers+1)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	exporter := export.New(store, exportOptions(cfg, logger))
	res, err := exporter.ToFile(ctx, dest, os.Stdout)
	if err != nil {
		return err
	}

	// Stdout carries the document itself.
	if dest != export.StdoutPath {
		fmt.Printf("%s%d%s entries written to %s\n", colorGreen, res.Entries, colorReset, dest)
		if res.Suppressed > 0 {
			fmt.Printf("  %s%d headword(s) without a renderable record%s\n", colorDim, res.Suppressed, colorReset)
		}
	}
	return nil
}

// applyExportFlags overrides the export section with flags given on the
// command line.
func applyExportFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		if exportWorkers <= 0 {
			return fmt.Errorf("invalid --workers: must be positive")
		}
		cfg.Export.Workers = exportWorkers
	}
	if flags.Changed("page-size") {
		if exportPageSize <= 0 {
			return fmt.Errorf("invalid --page-size: must be positive")
		}
		cfg.Export.PageSize = exportPageSize
	}
	if flags.Changed("sample") {
		cfg.Export.Sample = exportSample
	}
	if flags.Changed("show-reading") {
		cfg.Export.ShowReading = exportShowReading
	}
	return nil
}

func exportOptions(cfg *config.Config, logger *slog.Logger) export.Options {
	return export.Options{
		Workers:          cfg.Export.Workers,
		PageSize:         cfg.Export.PageSize,
		Sample:           cfg.Export.Sample,
		MaxHeadwordBytes: cfg.Export.MaxHeadwordBytes,
		ShowReading:      cfg.Export.ShowReading,
		Logger:           logger,
	}
}
