package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qri-io/changelog"
	"github.com/qri-io/changelog/badgerstore"
	"github.com/qri-io/changelog/internal/config"
	"github.com/qri-io/changelog/internal/metrics"
)

type generateOptions struct {
	configPath  string
	previousDir string
	currentDir  string
	outputDir   string
	version     string
	workers     int
	store       string
	logLevel    string
}

func newGenerateCmd() *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compute (or load) the changelog for a version label",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runGenerate(ctx, cfg, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	f.StringVar(&o.previousDir, "previous", "", "previous snapshot directory")
	f.StringVar(&o.currentDir, "current", "", "current snapshot directory")
	f.StringVarP(&o.outputDir, "out", "o", "", "changelog output directory")
	f.StringVar(&o.version, "version", "", "version label, eg: 4.2")
	f.IntVarP(&o.workers, "workers", "w", 0, "tables diffed concurrently")
	f.StringVar(&o.store, "store", "", "store backend: file or badger")
	f.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return cmd
}

// config layers flags over the config file & environment, then validates
func (o *generateOptions) config(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("previous") {
		cfg.PreviousDir = o.previousDir
	}
	if f.Changed("current") {
		cfg.CurrentDir = o.currentDir
	}
	if f.Changed("out") {
		cfg.OutputDir = o.outputDir
	}
	if f.Changed("version") {
		cfg.Version = o.version
	}
	if f.Changed("workers") {
		cfg.Workers = o.workers
	}
	if f.Changed("store") {
		cfg.Store.Backend = o.store
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGenerate(ctx context.Context, cfg *config.Config, out io.Writer) (err error) {
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	version, err := changelog.ParseVersion(cfg.Version)
	if err != nil {
		return err
	}

	prev, err := changelog.NewDirSource(cfg.PreviousDir)
	if err != nil {
		logger.Error("previous snapshot unavailable", zap.Error(err))
		return err
	}
	curr, err := changelog.NewDirSource(cfg.CurrentDir)
	if err != nil {
		logger.Error("current snapshot unavailable", zap.Error(err))
		return err
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", zap.Error(err))
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	opts := []changelog.Option{
		changelog.OptionWorkers(cfg.Workers),
		changelog.OptionHashSuffixes(cfg.HashSuffixes...),
		changelog.OptionLogger(logger),
	}
	var m *metrics.Metrics
	if cfg.Metrics.Textfile != "" {
		m = metrics.New(version)
		opts = append(opts, changelog.OptionObserver(m))
	}

	logger.Info("generating changelog",
		zap.String("version", version),
		zap.String("previous", cfg.PreviousDir),
		zap.String("current", cfg.CurrentDir),
		zap.String("output", cfg.OutputDir),
		zap.Int("tables", len(cfg.Tables)))

	gen := changelog.New(cfg.Schema(), prev, curr, store, opts...)
	cl, err := gen.Generate(ctx, version)
	if err != nil {
		logger.Error("changelog generation failed", zap.Error(err))
		return err
	}

	st := cl.Stats()
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprint(out, changelog.FormatPrettyStatsColor(&st))
	} else {
		fmt.Fprint(out, changelog.FormatPrettyStats(&st))
	}

	if m != nil {
		m.MarkSuccess(time.Now())
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("failed to write metrics", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
		}
	}
	return nil
}

func openStore(cfg *config.Config, logger *zap.Logger) (changelog.Store, func() error, error) {
	switch cfg.Store.Backend {
	case "badger":
		s, err := badgerstore.Open(badgerstore.Config{
			Path:       filepath.Join(cfg.OutputDir, "badger"),
			SyncWrites: cfg.Store.SyncWrites,
			Logger:     logger.Named("badger"),
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "file":
		s, err := changelog.NewFileStore(cfg.OutputDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}
