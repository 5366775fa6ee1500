package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ormgen/ormgen/config"
	"github.com/ormgen/ormgen/metadata"
	"github.com/ormgen/ormgen/relation"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect TABLE",
	Short: "Show the resolved metadata for one table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tableName := args[0]

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

		logger := newLogger()
		defer logger.Sync()

		enums := metadata.NewEnumRegistry(cfg.Output.Package)
		extractor := metadata.NewExtractor(provider, cfg, enums, logger)

		meta, err := extractor.Extract(ctx, tableName)
		if err != nil {
			fmt.Println("❌ Extracting metadata:", err)
			os.Exit(1)
		}
		if meta == nil {
			color.Yellow("Table %s is a junction table: no entity is generated for it.", tableName)
			return
		}

		header := color.New(color.FgCyan, color.Bold)

		header.Printf("%s", meta.EntityName)
		fmt.Printf("  (table: %s, repository: %s)\n", meta.TableName, meta.RepositoryName)
		fmt.Printf("Primary key: %s\n", strings.Join(meta.PrimaryKey, ", "))
		if meta.HasLifecycleCallbacks {
			fmt.Println("Lifecycle callbacks: yes")
		}

		header.Println("\nColumns")
		for _, col := range meta.Columns {
			nullable := ""
			if col.Nullable {
				nullable = " (nullable)"
			}
			fmt.Printf("  %-24s %-10s %-10s%s\n", col.PropertyName, col.Scalar, col.StorageTag, nullable)
			if col.Comment != "" {
				fmt.Printf("      %s\n", col.Comment)
			}
		}

		if len(meta.Relations) > 0 {
			header.Println("\nRelations")
			for _, rel := range meta.Relations {
				describeRelation(rel)
			}
		}

		if len(meta.Indexes) > 0 {
			header.Println("\nIndexes")
			for _, idx := range meta.Indexes {
				unique := ""
				if idx.Unique {
					unique = " (unique)"
				}
				fmt.Printf("  %s: %s%s\n", idx.Name, strings.Join(idx.Columns, ", "), unique)
			}
		}
	},
}

func describeRelation(rel relation.Relation) {
	switch r := rel.(type) {
	case relation.ManyToOne:
		detail := "required"
		if r.Nullable {
			detail = "nullable"
		}
		fmt.Printf("  %-24s many-to-one  -> %s (%s)\n", r.PropertyName, r.TargetEntity, detail)
	case relation.OneToMany:
		fmt.Printf("  %-24s one-to-many  -> %s (mappedBy %s)\n", r.PropertyName, r.TargetEntity, r.MappedBy)
	case relation.ManyToMany:
		side := "inverse"
		if r.OwningSide {
			side = "owning"
		}
		fmt.Printf("  %-24s many-to-many -> %s (%s side, via %s)\n", r.PropertyName, r.TargetEntity, side, r.JunctionTable)
	}
}
