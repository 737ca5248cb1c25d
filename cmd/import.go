package cmd

import (
	"fmt"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/excel"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import lessons and phrases from an Excel or CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := database.Connect(cmd.Context(), cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		importCfg := excel.DefaultImportConfig()
		importCfg.FilePath = args[0]
		importCfg.SheetName, _ = cmd.Flags().GetString("sheet")
		importCfg.StartRow, _ = cmd.Flags().GetInt("start-row")

		result, err := excel.NewImporter(database.NewLessonRepository(db), log).Import(cmd.Context(), importCfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processed: %d\nLessons created: %d\nCreated: %d\nUpdated: %d\nSkipped: %d\n",
			result.TotalProcessed, result.LessonsCreated, result.Created, result.Updated, result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintln(out, e)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "Sheet1", "Sheet to read from Excel files")
	importCmd.Flags().Int("start-row", 2, "First data row (1-based)")
}
