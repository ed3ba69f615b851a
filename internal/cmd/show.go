package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/eijiro/internal/export"
	"github.com/runger/eijiro/internal/wordutil"
)

var (
	showReading bool
	showPlain   bool
)

var showCmd = &cobra.Command{
	Use:     "show <headword>",
	Short:   "Print the entry of one headword",
	GroupID: groupDictionary,
	Long: `Print the <d:entry> block of one headword exactly as export writes it.

The headword is matched exactly, after trimming surrounding whitespace.

Examples:
  eijiro show abandon
  eijiro show --show-reading 'take off'
  eijiro show --plain cat > cat.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showReading, "show-reading", false, "Include kana readings in the entry")
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Print only the entry block, without the title line")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("show-reading") {
		cfg.Export.ShowReading = showReading
	}

	logger := newLogger(cfg)
	store, err := openExistingStore(cfg, logger, 1)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	exporter := export.New(store, exportOptions(cfg, logger))
	return showEntry(ctx, exporter, args[0])
}

// entryRenderer renders the entry of one headword identity.
type entryRenderer interface {
	RenderHash(ctx context.Context, hash string) (string, bool, error)
}

func showEntry(ctx context.Context, r entryRenderer, headword string) error {
	word := wordutil.NormalizeHeadword(headword)
	hash := wordutil.Identity(word)

	block, ok, err := r.RenderHash(ctx, hash)
	if err != nil {
		return fmt.Errorf("failed to render entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("no entry for %q", word)
	}

	if !showPlain {
		fmt.Println(titleStyle.Render(word) + "  " + hashStyle.Render(hash))
	}
	fmt.Print(block)
	return nil
}
