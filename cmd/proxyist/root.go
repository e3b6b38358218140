package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"proxyist/internal/shared/config"
	"proxyist/internal/shared/logger"
	"proxyist/internal/shared/types"
	"proxyist/proxypool"
	"proxyist/proxypool/scraper"
	"proxyist/proxypool/storage"
)

// cli 持有一次命令执行期间共享的状态。
type cli struct {
	cfgFile     string
	verbose     bool
	cfg         *types.Config
	newExporter func(path string) storage.Exporter
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&cli{newExporter: newFileExporter})
}

func newFileExporter(path string) storage.Exporter {
	return storage.NewFileStorage(path)
}

func newRootCmdFor(c *cli) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:           "proxyist",
		Short:         "Fetch and pick HTTP/HTTPS proxies from free-proxy-list.net",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "configs/proxyist.ini", "config file, ignored if missing")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newListCmd(c), newRandomCmd(c), newServeCmd(c))
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.LoadOrDefault(c.cfgFile)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.LogConf.Level = "debug"
	}
	if err := logger.InitWithWriter(cfg.LogConf, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *cli) newManager() (*proxypool.Manager, error) {
	s, err := scraper.New(c.cfg.SourceConf)
	if err != nil {
		return nil, err
	}
	l := logger.WithComponent("CLI")
	l.Debug().Str("source", s.Name()).Str("url", c.cfg.SourceConf.URL).Msg("Scraper created.")
	return proxypool.New(s, proxypool.WithStrictRandom(c.cfg.PoolConf.StrictRandom)), nil
}
