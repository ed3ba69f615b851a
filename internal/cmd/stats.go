package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/eijiro/internal/export"
	"github.com/runger/eijiro/internal/storage"
	"github.com/runger/eijiro/internal/wordclass"
)

var (
	statsTop  int
	statsRuns int
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show database statistics",
	GroupID: groupDictionary,
	Long: `Show what the database holds:
- Stored rows and distinct headwords
- Headwords a sample export would include
- The most frequent word classes
- Recent load runs

Examples:
  eijiro stats
  eijiro stats --top 30 --runs 0`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsTop, "top", "n", 10, "Number of word classes to show")
	statsCmd.Flags().IntVar(&statsRuns, "runs", 5, "Number of recent load runs to show")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	store, err := openExistingStore(cfg, logger, 1)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	fmt.Printf("%sDictionary Statistics%s\n", colorBold, colorReset)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("  Database:   %s\n", cfg.DatabasePath())
	return printStats(ctx, store, statsTop, statsRuns)
}

func printStats(ctx context.Context, store storage.Store, top, runs int) error {
	rows, err := store.CountRows(ctx)
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	hashes, err := store.CountHashes(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to count headwords: %w", err)
	}
	sample, err := store.CountHashes(ctx, export.SamplePrefix)
	if err != nil {
		return fmt.Errorf("failed to count sample headwords: %w", err)
	}

	fmt.Printf("  Rows:       %d\n", rows)
	fmt.Printf("  Headwords:  %d\n", hashes)
	fmt.Printf("  Sample:     %d headword(s)\n", sample)

	if top > 0 {
		classes, err := store.ClassCounts(ctx, top)
		if err != nil {
			return fmt.Errorf("failed to count word classes: %w", err)
		}
		printClassCounts(classes)
	}

	if runs > 0 {
		loadRuns, err := store.LastLoadRuns(ctx, runs)
		if err != nil {
			return fmt.Errorf("failed to list load runs: %w", err)
		}
		printLoadRuns(loadRuns)
	}
	return nil
}

func printClassCounts(classes []storage.ClassCount) {
	fmt.Printf("\n%s\n", headingStyle.Render("Word classes"))
	if len(classes) == 0 {
		fmt.Printf("  %s(none)%s\n", colorDim, colorReset)
		return
	}

	raw := make([]string, len(classes))
	labels := make([]string, len(classes))
	for i, c := range classes {
		raw[i] = c.Klass
		if raw[i] == "" {
			raw[i] = "(none)"
		}
		labels[i] = wordclass.Classify(c.Klass).Label
	}

	// Leave room for the count column.
	maxCol := (terminalWidth() - 16) / 2
	rawWidth := columnWidth(raw, 6, maxCol)
	labelWidth := columnWidth(labels, 6, maxCol)

	for i, c := range classes {
		fmt.Printf("  %s  %s  %s\n",
			fitColumn(raw[i], rawWidth),
			fitColumn(labels[i], labelWidth),
			countStyle.Render(fmt.Sprintf("%10d", c.Count)))
	}
}

func printLoadRuns(runs []storage.LoadRun) {
	fmt.Printf("\n%s\n", headingStyle.Render("Recent loads"))
	if len(runs) == 0 {
		fmt.Printf("  %s(none)%s\n", colorDim, colorReset)
		return
	}

	sources := make([]string, len(runs))
	for i, r := range runs {
		sources[i] = r.Source
	}
	sourceWidth := columnWidth(sources, 6, 32)

	for _, r := range runs {
		started := time.UnixMilli(r.StartedAtUnixMs).Format("2006-01-02 15:04")
		fmt.Printf("  %s  %s  +%d  dup %d  skipped %d  %s\n",
			started,
			fitColumn(r.Source, sourceWidth),
			r.Inserted, r.Duplicates, r.Skipped,
			hashStyle.Render(shortRunID(r.RunID)))
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
