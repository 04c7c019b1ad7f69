package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jhunter-agent"
)

type Config struct {
	Resume      *ResumeConfig      `mapstructure:"resume"`
	Preferences *PreferencesConfig `mapstructure:"preferences"`
	Profile     *ProfileConfig     `mapstructure:"profile"`
	Search      *SearchConfig      `mapstructure:"search"`
	AI          *AIConfig          `mapstructure:"ai"`
	AutoApply   bool               `mapstructure:"auto-apply"`
	Browser     *BrowserConfig     `mapstructure:"browser"`
	Database    *DatabaseConfig    `mapstructure:"database"`
	Telegram    *TelegramConfig    `mapstructure:"telegram"`
}

type BrowserConfig struct {
	// Headless defaults to true; set it to false to watch the forms being
	// filled.
	Headless *bool `mapstructure:"headless"`
}

type ResumeConfig struct {
	File string `mapstructure:"file"`
}

type PreferencesConfig struct {
	Roles            []string `mapstructure:"roles"`
	Locations        []string `mapstructure:"locations"`
	ExperienceLevels []string `mapstructure:"experience-levels"`
	JobTypes         []string `mapstructure:"job-types"`
	MinMatchScore    int      `mapstructure:"min-match-score"`
	RecencyDays      int      `mapstructure:"recency-days"`
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
}

type ProfileConfig struct {
	FirstName    string `mapstructure:"first-name"`
	LastName     string `mapstructure:"last-name"`
	Email        string `mapstructure:"email"`
	Phone        string `mapstructure:"phone"`
	LinkedinURL  string `mapstructure:"linkedin-url"`
	PortfolioURL string `mapstructure:"portfolio-url"`

	YearsExperience int `mapstructure:"years-experience"`
}

type SearchConfig struct {
	BaseURL string `mapstructure:"base-url"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

type DatabaseConfig struct {
	DSN  string `mapstructure:"dsn"`
	User string `mapstructure:"user"`
}

type TelegramConfig struct {
	TokenFile string `mapstructure:"token-file"`
	ChatID    int64  `mapstructure:"chat-id"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jhunter-agent searches job boards, scores postings against your resume and prefills applications",
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
	if err := viper.BindEnv("ai.openai.api-key-file", "OPENAI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding OPENAI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jhunter-agent.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
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
