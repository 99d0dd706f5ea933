package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"weekcal/internal/config"
	appLog "weekcal/internal/log"
	"weekcal/internal/model"
	"weekcal/internal/session"
)

var Version = "0.1.0-dev"

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "weekcal",
		Short:         "weekcal - offline weekly calendar with a stacked day timeline",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath(), "Path to config file")

	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(editCmd(a))
	rootCmd.AddCommand(rmCmd(a))
	rootCmd.AddCommand(clearWeekCmd(a))
	rootCmd.AddCommand(copyCmd(a))
	rootCmd.AddCommand(parseCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(snapshotCmd(a))

	return rootCmd
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "weekcal", "config.yaml")
	}
	return "weekcal.yaml"
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", a.configPath)
		return err
	}
	a.cfg = cfg
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	appLog.Debug("effective config",
		"config_path", a.configPath,
		"data_file", a.dataFile(),
		"week_start", cfg.WeekStart,
		"pm_bias", cfg.Parse.PMBias,
		"autosave", cfg.Autosave,
	)
	return nil
}

func (a *app) dataFile() string {
	return a.cfg.ResolveDataFile(a.configPath)
}

// openSession loads the task file. A malformed file is an error here so a
// later Close cannot overwrite it.
func (a *app) openSession() (*session.Session, error) {
	sess, err := session.Open(a.dataFile())
	if err != nil {
		return nil, fmt.Errorf("%w (fix or move the file before editing)", err)
	}
	return sess, nil
}

// edit runs fn on a freshly opened session and saves on success.
func (a *app) edit(fn func(*session.Session) error) error {
	sess, err := a.openSession()
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	return sess.Close()
}

// dateArg parses args[i] when present, otherwise today.
func dateArg(args []string, i int) (model.Date, error) {
	if len(args) <= i || args[i] == "" || args[i] == "today" {
		return model.Today(), nil
	}
	return model.ParseDate(args[i])
}
