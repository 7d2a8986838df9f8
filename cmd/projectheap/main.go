package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Pallavbh23/heapstack"
	"github.com/Pallavbh23/heapstack/internal/config"
	"github.com/Pallavbh23/heapstack/internal/logging"
	"github.com/Pallavbh23/heapstack/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	inputPath  string
	user       string
	verbose    bool
	strict     bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "projectheap",
		Short: "Browse projects through a max-heap and an undo stack",
		Long: `projectheap ranks a list of projects in a max-heap and lets you pop the
highest-priority ones onto a stack and return them again.

Ranking: projects with at least 1000 stars come first, then projects whose
name or description mentions an AI keyword, then everything else. Within a
tier more stars win, then the name in ascending order.

Projects come from a YAML/JSON file (--input) or a GitHub user (--user).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Name() == "browse")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultPath, "config file")
	flags.StringVarP(&a.inputPath, "input", "i", "", "YAML or JSON file of project records")
	flags.StringVarP(&a.user, "user", "u", "", "GitHub user to fetch projects for (overrides config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&a.strict, "strict", false, "verify heap and stack invariants after every operation")

	rootCmd.AddCommand(newBrowseCmd(a), newRankCmd(a), newRunCmd(a))
	return rootCmd
}

// setup loads config and builds the logger. The interactive browser owns the
// terminal, so it only logs when a log file is configured.
func (a *app) setup(interactive bool) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.user != "" {
		cfg.GitHub.Username = a.user
	}
	if a.strict {
		cfg.Session.Strict = true
	}
	a.cfg = cfg

	if interactive && cfg.Logging.File == "" {
		a.logger = zap.NewNop()
		return nil
	}
	a.logger, err = logging.New(cfg.Logging, a.verbose)
	return err
}

// source picks the file source when --input is set, GitHub otherwise.
func (a *app) source() (source.Source, func(), error) {
	if a.inputPath != "" {
		return source.File{Path: a.inputPath}, func() {}, nil
	}
	if a.cfg.GitHub.Username == "" {
		return nil, nil, fmt.Errorf("no projects to load: pass --input or set --user / github.username")
	}
	gh, err := source.NewGitHub(a.cfg.GitHub, a.cfg.GetGitHubTimeout(), a.logger)
	if err != nil {
		return nil, nil, err
	}
	return gh, gh.Close, nil
}

func (a *app) loadItems(ctx context.Context) ([]heapstack.Item, error) {
	src, closeFn, err := a.source()
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return src.Load(ctx)
}

func (a *app) newSession(items []heapstack.Item) (*heapstack.Session, error) {
	return heapstack.NewSession(items,
		heapstack.WithLogger(a.logger),
		heapstack.WithClassifier(heapstack.NewKeywordClassifier(a.cfg.Classifier.Phrases, a.cfg.Classifier.Tokens)),
		heapstack.WithStrict(a.cfg.Session.Strict),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
