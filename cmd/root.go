package cmd

import (
	"errors"
	"log"

	"github.com/spigell/hh-interviewer/internal/ai/gemini"
	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/postprocess"
	"github.com/spigell/hh-interviewer/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hh-interviewer"

	defaultReportsPath = "hh-interviewer.db"
)

type Config struct {
	Interview   interview.Config   `mapstructure:"interview"`
	Report      report.Config      `mapstructure:"report"`
	PostProcess postprocess.Config `mapstructure:"postprocess"`
	AI          *AIConfig          `mapstructure:"ai"`
	Storage     *StorageConfig     `mapstructure:"storage"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	gemini.Config `mapstructure:",squash"`
	APIKey        string `mapstructure:"api-key"`
	APIKeyFile    string `mapstructure:"api-key-file"`
}

type StorageConfig struct {
	// Path of the SQLite file with finished reports. Empty disables persistence.
	Path     string `mapstructure:"path"`
	Disabled bool   `mapstructure:"disabled"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-interviewer runs automated technical interviews in the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-interviewer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("storage.path", defaultReportsPath)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The interviewer works with defaults, so a missing file is fine.
	// A file that exists but does not parse is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{Path: defaultReportsPath}
	}

	return config, nil
}
