package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ormgen/ormgen/config"
	"github.com/ormgen/ormgen/utils"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify environment, config and database connectivity",
	Run: func(cmd *cobra.Command, args []string) {
		ok := true

		utils.LoadEnv()
		if os.Getenv("DATABASE_URL") == "" {
			color.Red("❌ DATABASE_URL is not set (in .env or environment)")
			ok = false
		} else {
			color.Green("✅ DATABASE_URL is set")
		}

		cfg, err := config.Load(configFile)
		if err != nil {
			color.Red("❌ Config: %v", err)
			ok = false
		} else {
			color.Green("✅ Config valid (output: %s, package: %s)", cfg.Output.Dir, cfg.Output.Package)
		}

		if os.Getenv("DATABASE_URL") != "" {
			ctx := context.Background()
			provider, cleanup, err := newProvider(ctx)
			if err != nil {
				color.Red("❌ Database connection: %v", err)
				ok = false
			} else {
				defer cleanup()
				tables, err := provider.ListTables(ctx)
				if err != nil {
					color.Red("❌ Catalog access: %v", err)
					ok = false
				} else {
					color.Green("✅ Connected (%d tables visible)", len(tables))
				}
			}
		}

		if !ok {
			fmt.Println("\nFix the issues above and re-run `ormgen check`.")
			os.Exit(1)
		}
		fmt.Println("\nAll checks passed.")
	},
}
