package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pycode1094/job-recoder/internal/embedding"
	"github.com/pycode1094/job-recoder/internal/export"
	"github.com/pycode1094/job-recoder/internal/filtering"
	"github.com/pycode1094/job-recoder/internal/logger"
	"github.com/pycode1094/job-recoder/internal/recommend"
	"github.com/pycode1094/job-recoder/internal/secrets"
	"github.com/pycode1094/job-recoder/internal/store"
)

const (
	PromptYes     = "Yes"
	PromptNo      = "No"
	PromptSummary = "Show summary by trainee"
	PromptToFile  = "Dump recommendations to CSV"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Save this run?",
	Items: []string{PromptYes, PromptNo, PromptSummary, PromptToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rank stored postings for every trainee and save the recommendations",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before saving the run")
	runCmd.Flags().Bool("all-categories", false, "rank the full pool instead of the target training categories")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the "+app, zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	db, err := store.Open(ctx, config.Store.Path)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err), zap.String("path", config.Store.Path))
	}
	defer db.Close()

	trainees, err := db.Trainees(ctx)
	if err != nil {
		logger.Fatal("loading trainees", zap.Error(err))
	}
	if len(trainees) == 0 {
		logger.Fatal("no trainees in the store",
			zap.String("hint", "load the trainee survey first with the 'import' command"),
		)
	}

	now := time.Now()
	jobs, err := db.ActiveJobs(ctx, now)
	if err != nil {
		logger.Fatal("loading postings", zap.Error(err))
	}

	logger.Info("loaded the pools",
		zap.Int("trainees", len(trainees)),
		zap.Int("postings", len(jobs)),
	)

	jobs, err = prepareJobPool(ctx, cmd, config, logger, jobs, now)
	if err != nil {
		logger.Fatal("filtering postings", zap.Error(err))
	}

	if len(jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	embedder, err := newEmbedder(ctx, config.Embedding, logger)
	if err != nil {
		logger.Fatal("building the embedder", zap.Error(err))
	}

	engine := recommend.NewEngine(embedder, logger, recommend.WithTopK(config.TopK))

	recs, err := engine.Rank(ctx, trainees, jobs)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	if len(recs) == 0 {
		logger.Info("exiting", zap.String("reason", "ranking produced no recommendations"))
		return
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current recommendation run", zap.Int("rows", len(recs)))

		if err := handleAction(ctx, action, db, logger, config, recs); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if action == PromptYes {
			return
		}
	}
}

func handleAction(ctx context.Context, action string, db *store.Store, logger *zap.Logger, config *Config, recs []recommend.Recommendation) error {
	switch action {
	case PromptYes:
		if err := db.ReplaceRecommendations(ctx, recs); err != nil {
			return fmt.Errorf("saving the run: %w", err)
		}
		logger.Info("saved the recommendation run", zap.Int("rows", len(recs)))
		return nil
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptSummary:
		pretty, _ := json.MarshalIndent(summarizeByTrainee(recs), "", "  ")
		logger.Info(string(pretty), zap.Int("rows", len(recs)))
		return nil
	case PromptToFile:
		path := config.Export.Path
		if err := writeCSVFile(path, recs); err != nil {
			return fmt.Errorf("dump recommendations to file: %w", err)
		}
		logger.Info("dumped recommendations to file", zap.String("filename", path))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// summarizeByTrainee maps each trainee to its picked job titles, best first.
func summarizeByTrainee(recs []recommend.Recommendation) map[string][]string {
	summary := make(map[string][]string)
	for _, rec := range recs {
		key := rec.TraineeID
		if rec.TraineeName != "" {
			key = fmt.Sprintf("%s (%s)", rec.TraineeName, rec.TraineeID)
		}
		summary[key] = append(summary[key], fmt.Sprintf("%d. %s / %s", rec.Rank, rec.JobTitle, rec.Company))
	}
	return summary
}

func writeCSVFile(path string, recs []recommend.Recommendation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := export.WriteCSV(f, recs); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func prepareJobPool(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger, jobs []recommend.JobPosting, now time.Time) ([]recommend.JobPosting, error) {
	steps := []filtering.Filter{
		filtering.NewActive(now),
		filtering.NewDedupe(),
		filtering.NewPostingWindow(now),
		filtering.NewTargetCategories(),
		filtering.NewExcludeCompanies(),
	}

	if flag := cmd.Flag("all-categories"); flag != nil && strings.EqualFold(flag.Value.String(), "true") {
		filtering.DisableByName(steps, "target_categories", "all-categories flag is set")
	}

	cfg := &filtering.Config{}
	if config.Filters != nil {
		cfg.ExcludeCompanies = config.Filters.ExcludeCompanies
	}
	if config.Saramin != nil {
		cfg.WindowDays = config.Saramin.WindowDays
	}

	return filtering.Run(ctx, cfg, filtering.Deps{Logger: logger}, steps, jobs)
}

func newEmbedder(ctx context.Context, cfg *EmbeddingConfig, logger *zap.Logger) (embedding.Embedder, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("embedding.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set embedding.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	return embedding.NewGemini(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)
}
