package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pycode1094/job-recoder/internal/logger"
	"github.com/pycode1094/job-recoder/internal/recommend"
	"github.com/pycode1094/job-recoder/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <trainees.csv>",
	Short: "Import the trainee survey CSV into the store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runImport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, path string) {
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

	trainees, err := readTraineesCSV(path)
	if err != nil {
		logger.Fatal("reading the survey file", zap.Error(err), zap.String("filename", path))
	}

	if len(trainees) == 0 {
		logger.Info("exiting", zap.String("reason", "the survey file has no rows"))
		return
	}

	db, err := store.Open(ctx, config.Store.Path)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err), zap.String("path", config.Store.Path))
	}
	defer db.Close()

	written, err := db.UpsertTrainees(ctx, trainees)
	if err != nil {
		logger.Fatal("writing trainees", zap.Error(err))
	}

	logger.Info("imported trainees", zap.Int("count", written), zap.String("path", config.Store.Path))
}

// readTraineesCSV reads the survey export. Columns are matched by header name,
// so extra columns and column order do not matter. student_id is required.
func readTraineesCSV(path string) ([]recommend.Trainee, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading the header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		// tolerate a UTF-8 BOM on the first column
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		columns[strings.ToLower(name)] = i
	}

	if _, ok := columns["student_id"]; !ok {
		return nil, fmt.Errorf("the survey file has no student_id column")
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var trainees []recommend.Trainee
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id := field(row, "student_id")
		if id == "" {
			continue
		}

		trainees = append(trainees, recommend.Trainee{
			ID:                 id,
			Name:               field(row, "name"),
			Course:             field(row, "course"),
			TrainingType:       field(row, "training_type"),
			CourseKeywords:     field(row, "course_keywords"),
			PreferredLocations: strings.Fields(field(row, "preferred_locations")),
			DesiredJob:         field(row, "desired_job"),
			DesiredIndustry:    field(row, "desired_industry"),
			DesiredPay:         field(row, "desired_pay"),
			FuturePlan:         field(row, "future_plan"),
			SurveyText:         field(row, "survey_text"),
		})
	}

	return trainees, nil
}
