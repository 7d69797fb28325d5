package servercli

import (
	"fmt"

	"github.com/hdt3213/rdbkv/config"
	"github.com/hdt3213/rdbkv/database"
	"github.com/hdt3213/rdbkv/lib/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dir        string
	dbFilename string
)

var rootCmd = &cobra.Command{
	Use:               "rdbkv",
	Short:             "rdbkv reads string keys out of a redis rdb snapshot without starting a server",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// AddCommand add command into Cli
func AddCommand(cmdline *cobra.Command) {
	rootCmd.AddCommand(cmdline)
}

// setup loads config then lets command line flags override it
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Setup(configFile); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("dir") {
		config.Properties.Dir = dir
	}
	if flags.Changed("dbfilename") {
		config.Properties.DBFilename = dbFilename
	}
	p := config.Properties
	if p.LogDir != "" {
		return logger.Setup(&logger.Settings{
			Path:  p.LogDir,
			Name:  p.LogName,
			Ext:   "log",
			Level: p.LogLevel,
		})
	}
	if l, ok := logger.DefaultLogger.(*logger.Logger); ok && p.LogLevel != "" {
		return l.SetLevelText(p.LogLevel)
	}
	return nil
}

func loadSnapshot() (*database.Snapshot, error) {
	p := config.Properties
	snapshot, err := database.LoadFile(p.RDBPath(), int64(p.MaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.RDBPath(), err)
	}
	return snapshot, nil
}

// Execute runs the command line with os.Args
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "config file, defaults to $CONFIG or "+config.DefaultConfPath)
	pf.StringVar(&dir, "dir", "", "directory of the rdb file")
	pf.StringVar(&dbFilename, "dbfilename", "", "name of the rdb file")
}
