package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var driver string
var configFile string

var rootCmd = &cobra.Command{
	Use:   "ormgen",
	Short: "Reverse-engineer a database schema into ORM entity code",
	Long: `ormgen introspects a relational database and generates entity,
repository and enum source files from the discovered schema.

Examples:

  ormgen tables
  ormgen inspect users
  ormgen generate
`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.PersistentFlags().StringVarP(&driver, "driver", "d", "postgres", "Database driver (postgres or mysql)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "ormgen.yaml", "Config file path")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(checkCmd)
}
