package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ormgen/ormgen/config"
	"github.com/ormgen/ormgen/introspect"
	"github.com/ormgen/ormgen/naming"
	"github.com/ormgen/ormgen/relation"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables and how they will be classified",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configFile)
		if err != nil {
			fmt.Println("❌ Loading config:", err)
			os.Exit(1)
		}

		ctx := context.Background()
		provider, cleanup, err := newProvider(ctx)
		if err != nil {
			fmt.Println("❌ Connecting to database:", err)
			os.Exit(1)
		}
		defer cleanup()

		tableNames, err := provider.ListTables(ctx)
		if err != nil {
			fmt.Println("❌ Listing tables:", err)
			os.Exit(1)
		}

		processed := map[string]bool{}
		var details []*introspect.TableDetails
		for _, name := range tableNames {
			t, err := provider.GetTableDetails(ctx, name)
			if err != nil {
				fmt.Println("⚠️  Skipping", name+":", err)
				continue
			}
			processed[name] = true
			details = append(details, t)
		}

		entityColor := color.New(color.FgGreen)
		junctionColor := color.New(color.FgYellow)

		fmt.Printf("Found %d tables:\n\n", len(details))
		for _, t := range details {
			if j, ok := relation.ClassifyJunction(t, processed, cfg.Heuristics.MaxJunctionMetadataColumns); ok {
				junctionColor.Printf("  %-30s", t.TableName)
				fmt.Printf(" junction (%s)\n", joinTables(j))
				continue
			}
			entityColor.Printf("  %-30s", t.TableName)
			fmt.Printf(" entity %s (%d columns, %d FKs)\n",
				naming.EntityName(t.TableName), len(t.Columns), len(t.ForeignKeys))
		}
	},
}

func joinTables(j *relation.Junction) string {
	tables := j.Tables()
	if len(tables) == 1 {
		return tables[0] + " <-> " + tables[0]
	}
	return tables[0] + " <-> " + tables[1]
}
