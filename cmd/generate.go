package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ormgen/ormgen/config"
	"github.com/ormgen/ormgen/generator"
	"github.com/ormgen/ormgen/metadata"
	"github.com/spf13/cobra"
)

var outputDir string
var packageName string
var onlyTables string
var dryRun bool

func init() {
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides config)")
	generateCmd.Flags().StringVarP(&packageName, "package", "p", "", "Package name for generated code (overrides config)")
	generateCmd.Flags().StringVarP(&onlyTables, "tables", "t", "", "Comma-separated table filter (default: all tables)")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print generated code without writing files")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate entity, repository and enum code from the database",
	Long: `Generate entity, repository and enum source files by introspecting
the connected database.

Examples:
  ormgen generate                     # Generate everything into ./generated/
  ormgen generate -o ./internal/orm   # Custom output directory
  ormgen generate -t users,orders     # Only selected tables
  ormgen generate --dry-run           # Preview without writing files
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configFile)
		if err != nil {
			fmt.Println("❌ Loading config:", err)
			os.Exit(1)
		}
		if outputDir != "" {
			cfg.Output.Dir = outputDir
		}
		if packageName != "" {
			cfg.Output.Package = packageName
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

		models, err := extractor.ExtractAll(ctx)
		if err != nil {
			fmt.Println("❌ Extracting metadata:", err)
			os.Exit(1)
		}

		if onlyTables != "" {
			models = filterTables(models, onlyTables)
		}
		if len(models) == 0 {
			fmt.Println("✅ No tables to generate.")
			return
		}

		gen := generator.New(cfg.Output)

		if dryRun {
			fmt.Println("\n================ DRY RUN: Generation Preview ================")
			for _, m := range models {
				src, err := gen.RenderEntity(m)
				if err != nil {
					fmt.Println("❌ Rendering entity:", err)
					os.Exit(1)
				}
				fmt.Printf("-- %s --\n%s\n", m.EntityName, src)
			}
			for _, e := range enums.All() {
				src, err := gen.RenderEnum(e)
				if err != nil {
					fmt.Println("❌ Rendering enum:", err)
					os.Exit(1)
				}
				fmt.Printf("-- %s --\n%s\n", e.TypeName, src)
			}
			fmt.Println("=============================================================")
			fmt.Println("(Dry run only. No files were written.)")
			return
		}

		if err := gen.Generate(models, enums.All()); err != nil {
			fmt.Println("❌ Generating code:", err)
			os.Exit(1)
		}

		fmt.Printf("✅ Generated %d entities in %s/\n", len(models), cfg.Output.Dir)
		if n := len(enums.All()); n > 0 {
			fmt.Printf("   Enum types: %d\n", n)
		}
	},
}

// filterTables restricts output to the requested tables. Extraction still
// ran over the full schema, so relationship inference is unaffected.
func filterTables(models []*metadata.TableMetadata, filter string) []*metadata.TableMetadata {
	wanted := map[string]bool{}
	for _, name := range strings.Split(filter, ",") {
		wanted[strings.TrimSpace(name)] = true
	}

	var filtered []*metadata.TableMetadata
	for _, m := range models {
		if wanted[m.TableName] {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
