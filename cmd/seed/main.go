package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ikkim/fictionhub-backend/config"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/internal/db"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

var (
	sheetName  string
	batchSize  int
	assumeYes  bool
	logVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "FictionHub data seeding tools",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if logVerbose {
			level = "debug"
		}
		logger.Initialize(logger.Config{Level: level, Format: "console", EnableColor: true})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import books from a spreadsheet",
	Long: `Import books from an XLSX catalog export.

Expected header columns (any order, case-insensitive):
  Title, AuthorName, Description, VerseType, OriginType, Status, Genres, Tags, SourceURL
Genres and Tags are comma separated and created on demand.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&sheetName, "sheet", "", "sheet to read (defaults to the first sheet)")
	importCmd.Flags().IntVar(&batchSize, "batch-size", 500, "rows inserted per batch")
	importCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.PersistentFlags().BoolVarP(&logVerbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	if batchSize <= 0 {
		return fmt.Errorf("--batch-size must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	f, err := excelize.OpenFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	rows, skipped, err := readBookRows(f, sheetName)
	if err != nil {
		return err
	}
	cmd.Printf("Rows ready to import: %d (skipped %d)\n", len(rows), skipped)
	if len(rows) == 0 {
		return nil
	}

	if !assumeYes && !confirm(cmd, "Do you want to proceed with the import? (yes/no): ") {
		cmd.Println("Import cancelled.")
		return nil
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	importer := newBookImporter(
		repository.NewBookRepository(db.GetDB()),
		repository.NewTaxonomyRepository(db.GetDB()),
	)
	imported, err := importer.Import(rows, batchSize)
	if err != nil {
		return err
	}

	cmd.Printf("Import completed: %d books\n", imported)
	return nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	cmd.Print(prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}
