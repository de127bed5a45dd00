package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pycode1094/job-recoder/internal/filtering"
	"github.com/pycode1094/job-recoder/internal/logger"
	"github.com/pycode1094/job-recoder/internal/recommend"
	"github.com/pycode1094/job-recoder/internal/saramin"
	"github.com/pycode1094/job-recoder/internal/secrets"
	"github.com/pycode1094/job-recoder/internal/store"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect fresh postings from the Saramin open API into the store",
	Run: func(cmd *cobra.Command, _ []string) {
		collect(cmd)
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func collect(_ *cobra.Command) {
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

	accessKey, err := resolveAccessKey(config)
	if err != nil {
		logger.Fatal(
			"loading saramin access key",
			zap.Error(err),
			zap.String("hint", "set SARAMIN_ACCESS_KEY_FILE environment variable or the 'saramin.access-key-file' key in the configuration file"),
		)
	}

	client := saramin.New(ctx, logger, accessKey)

	now := time.Now()
	jobs, err := collectPostings(client, config, now)
	if err != nil {
		logger.Fatal("collecting postings", zap.Error(err))
	}

	logger.Info("collected postings", zap.Int("count", len(jobs)))

	steps := []filtering.Filter{
		filtering.NewDedupe(),
		filtering.NewActive(now),
	}

	jobs, err = filtering.Run(ctx, &filtering.Config{}, filtering.Deps{Logger: logger}, steps, jobs)
	if err != nil {
		logger.Fatal("filtering postings", zap.Error(err))
	}

	if len(jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "no postings collected"))
		return
	}

	db, err := store.Open(ctx, config.Store.Path)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err), zap.String("path", config.Store.Path))
	}
	defer db.Close()

	written, err := db.UpsertJobs(ctx, jobs)
	if err != nil {
		logger.Fatal("writing postings", zap.Error(err))
	}

	logger.Info("stored postings", zap.Int("count", written), zap.String("path", config.Store.Path))
}

// collectPostings searches once per configured keyword set, or once per
// training category when no keywords are configured, merging the pages.
func collectPostings(client *saramin.Client, config *Config, now time.Time) ([]recommend.JobPosting, error) {
	keywords := collectKeywords(config)

	merged := &saramin.Jobs{}
	seen := make(map[string]struct{})

	for _, keyword := range keywords {
		params := saramin.DefaultSearchParams(now)
		params.Keywords = keyword
		if config.Saramin != nil {
			if config.Saramin.WindowDays > 0 {
				params.PostedAfter = now.AddDate(0, 0, -config.Saramin.WindowDays)
			}
			if config.Saramin.Count > 0 {
				params.Count = config.Saramin.Count
			}
		}

		result, err := client.Search(params)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", keyword, err)
		}

		for _, job := range result.Items {
			if _, ok := seen[job.ID]; ok {
				continue
			}
			seen[job.ID] = struct{}{}
			merged.Items = append(merged.Items, job)
		}
	}

	return merged.Postings(), nil
}

func collectKeywords(config *Config) []string {
	if config != nil && config.Saramin != nil && strings.TrimSpace(config.Saramin.Keywords) != "" {
		return []string{config.Saramin.Keywords}
	}

	categories := recommend.Categories()
	keywords := make([]string, 0, len(categories))
	for _, category := range categories {
		keywords = append(keywords, category.Name)
	}
	return keywords
}

func resolveAccessKey(config *Config) (string, error) {
	keyFile := ""
	if config != nil && config.Saramin != nil {
		keyFile = strings.TrimSpace(config.Saramin.AccessKeyFile)
	}
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("saramin.access-key-file"))
	}

	return secrets.Load(secrets.Source{
		Name: "saramin access key",
		File: keyFile,
	})
}
