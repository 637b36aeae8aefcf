// Package main provides the CLI entrypoint for snaketype.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/snaketype/internal/config"
	"github.com/verte-zerg/snaketype/internal/generator"
	"github.com/verte-zerg/snaketype/internal/model"
	"github.com/verte-zerg/snaketype/internal/stats"
	"github.com/verte-zerg/snaketype/internal/statsui"
	"github.com/verte-zerg/snaketype/internal/store"
	"github.com/verte-zerg/snaketype/internal/tui"
)

const (
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultStatsFormat = "tui"
)

var (
	practiceLower      bool
	practiceUpper      bool
	practiceNumbers    bool
	practiceSymbols    bool
	practiceDifficulty string
	practiceDuration   string
	practiceLevels     int
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int

	statsSince   string
	statsToday   bool
	statsLast    int
	statsFormat  string
	statsSort    string
	statsReverse bool
)

var charSetFlags = []struct {
	name string
	set  model.CharSet
	dst  *bool
}{
	{"lower", model.Lowercase, &practiceLower},
	{"upper", model.Uppercase, &practiceUpper},
	{"numbers", model.Numbers, &practiceNumbers},
	{"symbols", model.Symbols, &practiceSymbols},
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "snaketype",
		Short:         "Typing game: destroy the snake before it reaches the wizard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().BoolVar(&practiceLower, "lower", true, "include lowercase letters")
	rootCmd.Flags().BoolVar(&practiceUpper, "upper", false, "include uppercase letters")
	rootCmd.Flags().BoolVar(&practiceNumbers, "numbers", false, "include digits")
	rootCmd.Flags().BoolVar(&practiceSymbols, "symbols", false, "include symbols")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", model.DefaultDifficulty, "speed tier (see: snaketype tiers)")
	rootCmd.Flags().StringVar(&practiceDuration, "duration", model.DefaultDuration, "duration tier (see: snaketype tiers)")
	rootCmd.Flags().IntVar(&practiceLevels, "levels", model.DefaultLevels, "number of zig-zag levels on the track")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias letters toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak chars")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTiersCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolvePractice(cmd, fileCfg.Practice)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	weakSet, weakNoticePrinted := loadWeakSet(context.Background(), st, cfg)
	m, err := tui.NewModel(cfg, st, generator.New(), weakSet, weakNoticePrinted)
	if err != nil {
		return err
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.SetSize(w, h)
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePractice merges defaults, the config file and flags. Flags the user
// set explicitly win over the file.
func resolvePractice(cmd *cobra.Command, file config.PracticeConfig) (model.PracticeConfig, error) {
	sets := model.DefaultCharSets
	if file.CharSets != nil {
		parsed, unknown := model.ParseCharSets(*file.CharSets)
		if len(unknown) > 0 {
			return model.PracticeConfig{}, fmt.Errorf("unknown char set %q in config (use lowercase, uppercase, numbers, symbols)", unknown[0])
		}
		sets = parsed
	}
	if cmd != nil {
		for _, f := range charSetFlags {
			if !cmd.Flags().Changed(f.name) {
				continue
			}
			if *f.dst {
				sets |= f.set
			} else {
				sets &^= f.set
			}
		}
	}

	applyStringConfig(cmd, "difficulty", &practiceDifficulty, file.Difficulty)
	applyStringConfig(cmd, "duration", &practiceDuration, file.Duration)
	applyIntConfig(cmd, "levels", &practiceLevels, file.Levels)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, file.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, file.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, file.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, file.WeakWindow)

	cfg := model.PracticeConfig{
		CharSets:   sets,
		Difficulty: practiceDifficulty,
		Duration:   practiceDuration,
		Levels:     practiceLevels,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return model.PracticeConfig{}, err
	}
	return cfg, nil
}

func loadWeakSet(ctx context.Context, st *store.Store, cfg model.PracticeConfig) (map[rune]struct{}, bool) {
	weakSet := map[rune]struct{}{}
	if !cfg.FocusWeak {
		return weakSet, false
	}
	aggs, err := st.GetWeakChars(ctx, cfg.WeakWindow)
	if err != nil {
		logErrf("failed to load weak chars: %v\n", err)
		return weakSet, false
	}
	weakSet = stats.SelectWeakChars(aggs, cfg.WeakTop)
	if len(weakSet) == 0 {
		logErrln("no stats available for weak-char focus yet; using normal generator")
		return weakSet, true
	}
	return weakSet, false
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newTiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List difficulty and duration tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTiers())
			return err
		},
	}
}

func renderTiers() string {
	header := lipgloss.NewStyle().Bold(true)
	speeds := lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers("Difficulty", "Target WPM", "Speed")
	for _, d := range model.Difficulties {
		speeds.Row(d.Key, fmt.Sprintf("%d", d.TargetWPM), fmt.Sprintf("x%.2f", d.Multiplier))
	}
	lengths := lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers("Duration", "Seconds")
	for _, d := range model.Durations {
		lengths.Row(d.Key, fmt.Sprintf("%d", d.Seconds))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header.Render("Difficulties"), speeds.Render(), "",
		header.Render("Durations"), lengths.Render())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&statsToday, "today", false, "only sessions played today")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().StringVar(&statsFormat, "format", defaultStatsFormat, "output format: tui, table, json or yaml")
	cmd.Flags().StringVar(&statsSort, "sort", "", "sort best scores by config, wpm, score, mistakes, accuracy or date (non-tui formats)")
	cmd.Flags().BoolVar(&statsReverse, "reverse", false, "reverse the --sort direction")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "format", &statsFormat, fileCfg.Stats.Format)

	cfg, err := statsConfig(time.Now())
	if err != nil {
		return err
	}
	format := strings.ToLower(strings.TrimSpace(statsFormat))
	if format == defaultStatsFormat && !term.IsTerminal(int(os.Stdout.Fd())) {
		format = "table"
	}
	sortBest, err := bestSorter()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	switch format {
	case defaultStatsFormat:
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	case "table", stats.FormatJSON, stats.FormatYAML:
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return err
		}
		sortBest(report.Best)
		if format == "table" {
			return stats.RenderReport(cmd.OutOrStdout(), report)
		}
		return stats.Export(cmd.OutOrStdout(), report, format)
	default:
		return fmt.Errorf("--format must be one of tui, table, json, yaml")
	}
}

func statsConfig(now time.Time) (model.StatsConfig, error) {
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	cfg := model.StatsConfig{Last: statsLast}
	switch {
	case statsToday && statsSince != "":
		return model.StatsConfig{}, fmt.Errorf("--today and --since are mutually exclusive")
	case statsToday:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		cfg.Since = &midnight
	case statsSince != "":
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

// bestSorter resolves --sort and --reverse. Without --sort rows keep the
// store's order.
func bestSorter() (func([]model.BestScore), error) {
	if strings.TrimSpace(statsSort) == "" {
		if statsReverse {
			return nil, fmt.Errorf("--reverse requires --sort")
		}
		return func([]model.BestScore) {}, nil
	}
	col, err := stats.ParseBestColumn(statsSort)
	if err != nil {
		return nil, fmt.Errorf("invalid --sort value: %w", err)
	}
	desc := stats.DefaultDescending(col) != statsReverse
	return func(rows []model.BestScore) {
		stats.SortBest(rows, col, desc)
	}, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd != nil && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd != nil && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd != nil && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd != nil && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# snaketype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# char-sets = ["lowercase"]  # Any of lowercase, uppercase, numbers, symbols
# difficulty = %q       # slowest, slower, slow, medium, fast, faster, fastest
# duration = %q         # shortest, shorter, short, medium, long, longer, extraLong
# levels = %d                # Zig-zag levels on the track
# focus-weak = false         # Bias letters toward weak characters
# weak-top = %d              # Number of weak characters to focus on
# weak-factor = %.1f         # Weight factor for weak characters
# weak-window = %d           # Number of recent sessions to compute weak chars

[stats]
# format = %q            # tui, table, json or yaml

[serve]
# host = %q
# port = %d
# host-key = %q
`,
		model.DefaultDifficulty,
		model.DefaultDuration,
		model.DefaultLevels,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultStatsFormat,
		defaultServeHost,
		defaultServePort,
		config.DefaultHostKeyPath(),
	)
}

func validateConfig(cfg model.PracticeConfig) error {
	if _, err := model.LookupDifficulty(cfg.Difficulty); err != nil {
		return fmt.Errorf("--difficulty: %w", err)
	}
	if _, err := model.LookupDuration(cfg.Duration); err != nil {
		return fmt.Errorf("--duration: %w", err)
	}
	if cfg.Levels < 1 {
		return fmt.Errorf("--levels must be >= 1")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
