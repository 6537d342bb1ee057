// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/dashboard-search/internal/config"
	"github.com/jdfalk/dashboard-search/internal/dataset"
	"github.com/jdfalk/dashboard-search/internal/logger"
	"github.com/jdfalk/dashboard-search/internal/matcher"
	"github.com/jdfalk/dashboard-search/internal/realtime"
	"github.com/jdfalk/dashboard-search/internal/server"
	"github.com/jdfalk/dashboard-search/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var cfgFile string

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dashboard-search",
		Short: "Approximate text search over record sets",
		Long: `Dashboard Search filters and ranks JSON-like records against a
free-text query, tolerating typos, partial words and case differences.

Run a one-off search over a dataset file, or serve datasets over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig(cmd)
			return config.AppConfig.Validate()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dashboard-search.yaml)")
	rootCmd.PersistentFlags().Float64("threshold", matcher.DefaultThreshold, "minimum score in [0,1] for a record to match")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-env", "local", "log format: prod (JSON) or local/dev (console)")

	viper.BindPFlag("match_threshold", rootCmd.PersistentFlags().Lookup("threshold"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_env", rootCmd.PersistentFlags().Lookup("log-env"))

	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDiagnosticsCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return NewRootCmd().Execute()
}

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP API. Datasets found in --dataset-dir are loaded at
startup and reloaded when their files change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srvCfg := server.GetDefaultServerConfig()
			for flag, target := range map[string]*time.Duration{
				"read-timeout":  &srvCfg.ReadTimeout,
				"write-timeout": &srvCfg.WriteTimeout,
				"idle-timeout":  &srvCfg.IdleTimeout,
			} {
				d, err := cmd.Flags().GetDuration(flag)
				if err != nil {
					return err
				}
				*target = d
			}
			return runServe(srvCfg)
		},
	}

	serveCmd.Flags().String("port", "8080", "port to run the web server on")
	serveCmd.Flags().String("host", "localhost", "host to bind the web server to")
	serveCmd.Flags().String("dataset-dir", "", "directory of dataset files to load and watch")
	serveCmd.Flags().Duration("read-timeout", 15*time.Second, "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().Duration("write-timeout", 0, "write timeout, 0 keeps event streams open")
	serveCmd.Flags().Duration("idle-timeout", 60*time.Second, "idle timeout (e.g. 60s, 2m)")

	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("dataset_dir", serveCmd.Flags().Lookup("dataset-dir"))
	return serveCmd
}

func runServe(srvCfg server.ServerConfig) error {
	cfg := config.AppConfig

	log, err := logger.NewLogger(cfg.LogEnv, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.LogEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := realtime.NewEventHub(log.Named("events"))
	store := dataset.NewStore(cfg.DatasetTTL,
		dataset.WithLogger(log.Named("datasets")),
		dataset.WithNotifier(hub),
		dataset.WithMaxRecords(cfg.MaxRecords),
	)

	if cfg.DatasetDir != "" {
		if info, err := os.Stat(cfg.DatasetDir); err != nil || !info.IsDir() {
			return fmt.Errorf("dataset directory %q is not a readable directory", cfg.DatasetDir)
		}
		loaded, err := store.LoadDir(cfg.DatasetDir)
		if err != nil {
			log.Warn("some datasets failed to load", zap.Error(err))
		}
		log.Info("datasets loaded", zap.String("dir", cfg.DatasetDir), zap.Int("count", loaded))

		w := watcher.New(store.Sync, cfg.WatchDebounce, log.Named("watcher"))
		if err := w.Start(cfg.DatasetDir); err != nil {
			return fmt.Errorf("failed to watch dataset directory: %w", err)
		}
		defer w.Stop()
	}

	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	srvCfg.RateLimitPerMinute = cfg.RateLimitPerMinute
	srvCfg.RateLimitBurst = cfg.RateLimitBurst
	srvCfg.MaxBodyBytes = cfg.MaxBodyBytes
	srvCfg.DefaultFields = cfg.DefaultFields
	srvCfg.SuggestLimit = cfg.SuggestLimit
	srvCfg.Version = Version

	srv := server.NewServer(srvCfg, store, matcher.New(cfg.MatchOptions()), hub, log)
	return srv.Start()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "dashboard-search %s\n", Version)
			return err
		},
	}
}

func initConfig(cmd *cobra.Command) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dashboard-search")
	}

	viper.SetEnvPrefix("DASHBOARD_SEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", viper.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" && !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not read config file: %v\n", err)
		}
	}

	config.InitConfig()
}
