package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logan676/translate/internal/config"
	"github.com/logan676/translate/internal/home"
)

var configInitGlobal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage doctran configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long: `Write a config.yaml populated with the default settings. The API key
field references the DEEPSEEK_API_KEY environment variable, which is
resolved at load time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if configInitGlobal {
			h, err := home.New("")
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
		}
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(
		&configInitGlobal, "global", false, "write to ~/.doctran/config.yaml",
	)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
