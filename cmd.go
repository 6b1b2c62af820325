package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"trackdash/report"
	"trackdash/table"

	"github.com/cdfmlr/crud/log"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool

	// serve overrides
	flagAddr    string
	flagDataset string

	flagForce bool
)

var rootCmd = &cobra.Command{
	Use:   "trackdash",
	Short: "trackdash: explore a song dataset in the browser",
	Long: `trackdash serves a dashboard of charts and summaries over a tabular
song dataset (name, artists, popularity, audio features...), read from a
configured CSV file or uploaded through the browser.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./trackdash.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().StringVar(&flagDataset, "dataset", "", "CSV file served on / (overrides config)")

	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(serveCmd, configCmd, inspectCmd)
}

// loadConfig loads the config and applies the flags given to cmd.
func loadConfig(cmd *cobra.Command) (*TrackdashConfig, error) {
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.HttpListenAddr = flagAddr
	}
	if f.Changed("dataset") {
		cfg.Dataset.Path = flagDataset
	}
	if debug {
		cfg.Debug = true
	}

	if cfg.Debug {
		log.Logger.SetLevel(logrus.DebugLevel)
	}
	return cfg, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// a configured dataset must be readable before we start serving:
		// there is nothing to show on / otherwise.
		if cfg.Dataset.Path != "" {
			if _, err := table.Load(cfg.Dataset.Path); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
		}

		r, err := MakeRouter(cfg)
		if err != nil {
			return err
		}

		log.Logger.WithField("addr", cfg.HttpListenAddr).
			WithField("dataset", cfg.Dataset.Path).
			Info("trackdash: serving")

		return r.Run(cfg.HttpListenAddr)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the trackdash configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a file (default trackdash.yaml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dst := "trackdash.yaml"
		if len(args) > 0 {
			dst = args[0]
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
		if flagForce {
			flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		}
		f, err := os.OpenFile(dst, flags, 0o644)
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", dst)
		}
		if err != nil {
			return err
		}
		defer f.Close()

		if err := cfg.Write(f); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", dst)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <csv>",
	Short: "Print the shape, schema and report sections of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := table.Load(args[0])
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), t)
	},
}

// inspect writes a plain text summary of t: what the dashboard
// would show for it, without the charts.
func inspect(w io.Writer, t *table.Table) error {
	schema := t.Schema()

	fmt.Fprintf(w, "rows: %s\n", humanize.Comma(int64(t.Nrow())))
	fmt.Fprintf(w, "columns: %s\n", humanize.Comma(int64(t.Ncol())))

	missing := make(map[string]int, t.Ncol())
	for _, m := range t.MissingCounts() {
		missing[m.Column] = m.Missing
	}
	for _, col := range schema.Columns() {
		fmt.Fprintf(w, "  %-20s %-8s missing: %s\n",
			col, schema.Kind(col), humanize.Comma(int64(missing[col])))
	}

	var sections []string
	for _, s := range report.Sections {
		if s.Requires(schema) {
			sections = append(sections, s.ID)
		}
	}
	fmt.Fprintf(w, "sections: %s\n", strings.Join(sections, ", "))

	_, err := fmt.Fprintf(w, "songs: %s distinct\n", humanize.Comma(int64(len(t.SongChoices()))))
	return err
}
