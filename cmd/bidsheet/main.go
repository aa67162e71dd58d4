// Package main provides the CLI entry point for bidsheet-go.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/lookup"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/models"
)

var (
	outputPath  string
	pretty      bool
	verbose     bool
	formulasDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bidsheet [workbook.xlsx]",
		Short: "Import an estimating workbook into calculation artifacts",
		Long: `bidsheet imports a legacy estimating workbook and emits its translated
formula definitions, lookup tables, dependency graph, and import summary as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Log import progress to stderr")
	rootCmd.Flags().StringVar(&formulasDir, "formulas-dir", "", "Directory for per-sheet formula files")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// artifacts is the JSON document handed to the persistence layer.
type artifacts struct {
	Summary      models.ImportSummary        `json:"summary"`
	Formulas     []*models.FormulaDefinition `json:"formulas"`
	LookupTables []*lookup.Table             `json:"lookup_tables"`
	References   []*lookup.Reference         `json:"lookup_references"`
	Dependencies map[string][]string         `json:"dependencies"`
	Fields       map[string][]models.InputField `json:"fields,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	opts := bidsheet.DefaultOptions()
	if verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		opts.Logger = &logger
	}

	res, err := bidsheet.Import(inputPath, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	doc := buildArtifacts(res)

	jsonData, err := marshal(doc)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Println(string(jsonData))
	}

	if formulasDir != "" {
		if err := writeFormulaFiles(res, formulasDir); err != nil {
			return fmt.Errorf("failed to write formula files: %w", err)
		}
	}

	return nil
}

func buildArtifacts(res *bidsheet.ImportResult) *artifacts {
	doc := &artifacts{
		Summary:      res.Summary,
		LookupTables: res.Tables.Tables(),
		References:   res.Tables.References(),
		Dependencies: make(map[string][]string),
		Fields:       make(map[string][]models.InputField),
	}
	for key, def := range res.Formulas {
		doc.Formulas = append(doc.Formulas, def)
		doc.Dependencies[key] = def.Dependencies
	}
	sort.Slice(doc.Formulas, func(i, j int) bool {
		return doc.Formulas[i].Name < doc.Formulas[j].Name
	})
	for _, sheet := range res.Sheets {
		if len(sheet.Fields) > 0 {
			doc.Fields[sheet.Name] = sheet.Fields
		}
	}
	return doc
}

func writeFormulaFiles(res *bidsheet.ImportResult, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	bySheet := make(map[string][]*models.FormulaDefinition)
	for _, def := range res.Formulas {
		bySheet[def.Sheet] = append(bySheet[def.Sheet], def)
	}

	for sheetName, defs := range bySheet {
		sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
		jsonData, err := marshal(defs)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, sheetName+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

func marshal(v interface{}) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
