package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "job-recoder"
)

type Config struct {
	TopK      int              `mapstructure:"top-k"`
	Saramin   *SaraminConfig   `mapstructure:"saramin"`
	Embedding *EmbeddingConfig `mapstructure:"embedding"`
	Store     *StoreConfig     `mapstructure:"store"`
	Export    *ExportConfig    `mapstructure:"export"`
	Filters   *FiltersConfig   `mapstructure:"filters"`
}

type SaraminConfig struct {
	AccessKeyFile string `mapstructure:"access-key-file"`
	Keywords      string `mapstructure:"keywords"`
	WindowDays    int    `mapstructure:"window-days"`
	Count         int    `mapstructure:"count"`
}

type EmbeddingConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ExportConfig struct {
	Path string `mapstructure:"path"`
}

type FiltersConfig struct {
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-recoder collects Saramin postings and ranks job recommendations for trainees",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("saramin.access-key-file", "SARAMIN_ACCESS_KEY_FILE"); err != nil {
		log.Fatalf("binding SARAMIN_ACCESS_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("embedding.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("top-k", 5)
	viper.SetDefault("saramin.window-days", 21)
	viper.SetDefault("saramin.count", 100)
	viper.SetDefault("store.path", app+".db")
	viper.SetDefault("export.path", "recommendations.csv")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is "+app+".yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// the config file is optional; defaults and environment cover a bare run
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
