package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/eijiro/internal/config"
	"github.com/runger/eijiro/internal/load"
)

var (
	loadEncoding  string
	loadBatchSize int
	loadRyaku     bool
)

var loadCmd = &cobra.Command{
	Use:     "load [file]",
	Short:   "Load dictionary text into the database",
	GroupID: groupDictionary,
	Long: `Load Eijiro dictionary text into the local SQLite database.

Each record line ("■headword {class} : description") is stored once,
keyed by the hash of the raw line, so loading the same file again only
adds lines that are new. Lines that are not records are skipped.

Without a file argument, or with "-", the text is read from stdin.

Examples:
  eijiro load EIJI-144.TXT                 # Shift_JIS input (default)
  eijiro load --encoding utf-8 eiji.txt    # already UTF-8
  eijiro load --ryaku RYAKU-144.TXT        # link abbreviations to their expansion
  nkf -w EIJI-144.TXT | eijiro load --encoding utf-8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadEncoding, "encoding", "", "Input character set (default from load.encoding)")
	loadCmd.Flags().IntVar(&loadBatchSize, "batch-size", 0, "Rows per insert transaction (default from load.batch_size)")
	loadCmd.Flags().BoolVar(&loadRyaku, "ryaku", false, "Rewrite abbreviation definitions into cross-references")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if err := applyLoadFlags(cmd, cfg); err != nil {
		return err
	}

	source := "-"
	if len(args) > 0 {
		source = args[0]
	}

	var input io.Reader = os.Stdin
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		input = f
	}

	logger := newLogger(cfg)
	store, err := openStore(cfg, logger, 1)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	loader := load.New(store, load.Options{
		Source:    source,
		Encoding:  cfg.Load.Encoding,
		BatchSize: cfg.Load.BatchSize,
		Ryaku:     cfg.Load.Ryaku,
		Logger:    logger,
	})
	res, err := loader.Run(ctx, input)
	if err != nil {
		return err
	}

	printLoadResult(res, cfg.DatabasePath())
	return nil
}

// applyLoadFlags overrides the load section with flags given on the
// command line.
func applyLoadFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("encoding") {
		cfg.Load.Encoding = loadEncoding
	}
	if flags.Changed("batch-size") {
		if loadBatchSize <= 0 {
			return fmt.Errorf("invalid --batch-size: must be positive")
		}
		cfg.Load.BatchSize = loadBatchSize
	}
	if flags.Changed("ryaku") {
		cfg.Load.Ryaku = loadRyaku
	}
	if !load.ValidEncoding(cfg.Load.Encoding) {
		return fmt.Errorf("unknown encoding: %s", cfg.Load.Encoding)
	}
	return nil
}

func printLoadResult(res load.Result, dbPath string) {
	fmt.Printf("%s%d%s row(s) inserted.\n", colorGreen, res.Inserted, colorReset)
	fmt.Printf("  Lines:       %d\n", res.Lines)
	fmt.Printf("  Duplicates:  %d\n", res.Duplicates)
	if res.Skipped > 0 {
		fmt.Printf("  Skipped:     %s%d%s (not a record)\n", colorYellow, res.Skipped, colorReset)
	} else {
		fmt.Printf("  Skipped:     0\n")
	}
	fmt.Printf("  Total rows:  %d\n", res.Total)
	fmt.Printf("%sDatabase: %s  run %s%s\n", colorDim, dbPath, res.RunID, colorReset)
}
