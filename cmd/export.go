package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pycode1094/job-recoder/internal/logger"
	"github.com/pycode1094/job-recoder/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the last saved recommendation run as a CSV report",
	Run: func(cmd *cobra.Command, _ []string) {
		runExport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "output file (default is export.path from the configuration)")
}

func runExport(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	db, err := store.Open(ctx, config.Store.Path)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err), zap.String("path", config.Store.Path))
	}
	defer db.Close()

	recs, err := db.Recommendations(ctx)
	if err != nil {
		logger.Fatal("loading recommendations", zap.Error(err))
	}

	if len(recs) == 0 {
		logger.Info("exiting", zap.String("reason", "no saved recommendation run"))
		return
	}

	path := config.Export.Path
	if flag := cmd.Flag("output"); flag != nil && flag.Value.String() != "" {
		path = flag.Value.String()
	}

	if err := writeCSVFile(path, recs); err != nil {
		logger.Fatal("writing the report", zap.Error(err))
	}

	logger.Info("exported the recommendation run",
		zap.String("filename", path),
		zap.Int("rows", len(recs)),
	)
}
