package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wcdb-go/internal/app"
	"wcdb-go/internal/config"
	"wcdb-go/internal/wc"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist yet.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.NewConfig(defaults["base_dir"]), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp opens the working copy named by --wc (default: the current
// directory). The caller must defer a.Close().
func newApp(operation string) (*app.WCApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.NewWCApp(cfg, wcRootFlag, operation)
	if err != nil {
		return nil, fmt.Errorf("opening working copy: %w", err)
	}
	return a, nil
}

var wcRootFlag string

var rootCmd = &cobra.Command{
	Use:   "wcdb",
	Short: "Working copy metadata store",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		fmt.Printf("Busy timeout:   %d ms\n", cfg.Database.BusyTimeoutMS)
		fmt.Printf("Retry deadline: %d ms\n", cfg.Database.RetryDeadlineMS)
		return nil
	},
}

// init command

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a metadata store for a checkout",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.InitWorkingCopy(cfg, wcRootFlag); err != nil {
			return err
		}
		fmt.Printf("Metadata store created under %s\n", wcRootFlag)
		return nil
	},
}

// info command

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show metadata store summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Info")
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := a.GetInfo(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Store:          %s\n", info.Path)
		fmt.Printf("Schema version: %d\n", info.SchemaVersion)
		fmt.Printf("Workcopy id:    %d\n", info.WCID)
		fmt.Printf("Root:           %s\n", info.LocalAbspath)
		fmt.Printf("Pending work:   %v\n", info.PendingWork)
		if len(info.Conflicts) > 0 {
			fmt.Printf("Conflicts:\n")
			for _, c := range info.Conflicts {
				fmt.Printf("  %s\n", c)
			}
		}
		return nil
	},
}

// upgrade command

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Migrate the metadata store to the current schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.UpgradeWorkingCopy(cfg, wcRootFlag); err != nil {
			return err
		}
		fmt.Println("Metadata store is up to date")
		return nil
	},
}

// gc command

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Remove unreferenced pristine blobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GC")
		if err != nil {
			return err
		}
		defer a.Close()

		pristineDir := filepath.Join(wcRootFlag, ".wc", "pristine")
		n, err := a.RunGC(context.Background(), pristineDir)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d pristine blob(s)\n", n)
		return nil
	},
}

// verify command

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check pristine refcounts against live references",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Verify")
		if err != nil {
			return err
		}
		defer a.Close()

		findings, err := a.VerifyPristines(context.Background())
		if err != nil {
			return err
		}
		if len(findings) == 0 {
			fmt.Println("Pristine registry is consistent")
			return nil
		}
		for _, f := range findings {
			fmt.Printf("%s\trefcount=%d\tlive=%v\n", f.Checksum, f.Refcount, f.Live)
		}
		return fmt.Errorf("%d inconsistent pristine entr(ies)", len(findings))
	},
}

// work command

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Inspect and drain the work queue",
}

var workListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the oldest pending work item",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("WorkList")
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.Session().Store().PeekWork(context.Background())
		if err != nil {
			return err
		}
		if item == nil {
			fmt.Println("Work queue is empty")
			return nil
		}
		fmt.Printf("%d\t%d bytes\n", item.ID, len(item.Work))
		return nil
	},
}

var workDrainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Replay and discard pending work items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DrainWork")
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.DrainWork(context.Background(), func(item *wc.WorkItem) error {
			fmt.Printf("replayed work item %d (%d bytes)\n", item.ID, len(item.Work))
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Drained %d item(s)\n", n)
		return nil
	},
}

// log command

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent metadata operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Log")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Session().Store().RecentJournalEntries(context.Background(), 20)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%d\t%s\t%s\t%s\n",
				e.ID, e.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
				e.Operation, e.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&wcRootFlag, "wc", ".", "working copy root")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	workCmd.AddCommand(workListCmd)
	workCmd.AddCommand(workDrainCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(gcCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(workCmd)
	rootCmd.AddCommand(logCmd)
}
