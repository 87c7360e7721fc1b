package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexusraw/internal/app"
	"nexusraw/internal/config"
	"nexusraw/internal/logger"
	"nexusraw/internal/metrics"
	"nexusraw/internal/nexus"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	// ExitNoAssets is documented by earlier versions of the tool for
	// "no matching assets". The tool treats an empty listing as success
	// and never returns it; the constant stays for interface
	// compatibility with those docs.
	ExitNoAssets = 66
)

var errUsage = errors.New("usage error")

var configFile string

var rootCmd = &cobra.Command{
	Use:           "nexusraw",
	Short:         "Upload and download file trees in Nexus raw repositories",
	Long:          `A command-line client for Sonatype Nexus raw repositories: uploads a directory tree as one atomic component and downloads folders concurrently, preserving directory structure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <src> <dest>",
	Short: "Upload all files from a directory to a raw repository",
	Long: `Upload every file below <src> to a Nexus raw repository in a single
atomic request. <dest> takes the form 'repository' or 'repository/subdir'.`,
	Args: exactArgs(2),
	RunE: runUpload,
}

var downloadCmd = &cobra.Command{
	Use:   "download <src> <dest>",
	Short: "Download a raw repository folder recursively",
	Long: `Download every asset below a raw repository folder into <dest>,
preserving relative paths. <src> takes the form 'repository/folder'
or 'repository/folder/subfolder'.`,
	Args: exactArgs(2),
	RunE: runDownload,
}

// exactArgs is cobra.ExactArgs with the error tagged as a usage error
// so main can map it to exit code 2
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s expects %d argument(s), received %d", errUsage, cmd.Name(), n, len(args))
		}
		return nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("url", "", "Nexus base URL")
	rootCmd.PersistentFlags().String("username", "", "Nexus username")
	rootCmd.PersistentFlags().String("password", "", "Nexus password")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Expose prometheus metrics on this address while running")

	uploadCmd.Flags().String("glob", "", "Only upload files whose relative path matches the glob")
	uploadCmd.Flags().Bool("dry-run", false, "List files without uploading")

	downloadCmd.Flags().Int("concurrency", 8, "Maximum concurrent downloads")
	downloadCmd.Flags().String("glob", "", "Only download assets whose relative path matches the glob")
	downloadCmd.Flags().Bool("dry-run", false, "List assets without downloading")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
}

type env struct {
	cfg     *config.Config
	client  nexus.Client
	log     *zap.Logger
	metrics *metrics.Collector
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	client, err := nexus.NewHTTPClient(nexus.Config{
		BaseURL:  cfg.Server.URL,
		Username: cfg.Server.Username,
		Password: cfg.Server.Password,
	})
	if err != nil {
		return nil, err
	}

	collector := metrics.New()
	if cfg.Transfer.MetricsAddr != "" {
		go func() {
			if err := collector.StartServer(cfg.Transfer.MetricsAddr); err != nil {
				log.Error("Failed to start metrics server", zap.Error(err))
			}
		}()
	}

	return &env{cfg: cfg, client: client, log: log, metrics: collector}, nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	repository, subdir, ok := nexus.SplitRepositorySubdir(args[1])
	if !ok {
		return fmt.Errorf("%w: dest must be 'repository' or 'repository/subdir', got %q", errUsage, args[1])
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	uploader := app.NewUploader(e.cfg, e.client, e.metrics, e.log)
	return uploader.Run(context.Background(), args[0], repository, subdir)
}

func runDownload(cmd *cobra.Command, args []string) error {
	repository, path, ok := nexus.SplitRepositoryPath(args[0])
	if !ok {
		return fmt.Errorf("%w: src must be 'repository/folder', got %q", errUsage, args[0])
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	downloader := app.NewDownloader(e.cfg, e.client, e.metrics, e.log)
	_, err = downloader.Run(context.Background(), repository, path, args[1])
	return err
}

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return ExitUsageError
		}
		return ExitGeneralError
	}
	return ExitSuccess
}
