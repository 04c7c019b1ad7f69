package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/agent"
	"github.com/jhunter/agent/internal/ai"
	"github.com/jhunter/agent/internal/ai/gemini"
	"github.com/jhunter/agent/internal/ai/openai"
	"github.com/jhunter/agent/internal/browser"
	"github.com/jhunter/agent/internal/filtering"
	"github.com/jhunter/agent/internal/jobs"
	"github.com/jhunter/agent/internal/jobsearch"
	"github.com/jhunter/agent/internal/logger"
	"github.com/jhunter/agent/internal/notify"
	"github.com/jhunter/agent/internal/resume"
	"github.com/jhunter/agent/internal/scoring"
	"github.com/jhunter/agent/internal/secrets"
	"github.com/jhunter/agent/internal/store"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	appliedStatus = "Applied"
)

var prompt = promptui.Select{
	Label: "Auto-apply will open a browser and prefill application forms. Proceed?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the job application workflow",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before auto-applying")
	runCmd.Flags().Bool("auto-apply", false, "prefill application forms in a browser for jobs above the match threshold")
	runCmd.Flags().StringP("exclude-file", "e", "", "file with job urls to skip, one per line. Default is unset.")

	viper.BindPFlag("auto-apply", runCmd.Flags().Lookup("auto-apply"))
	viper.BindPFlag("exclude-file", runCmd.Flags().Lookup("exclude-file"))
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

	logger.Info("starting the jhunter-agent", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Resume == nil || config.Resume.File == "" {
		logger.Fatal("resume file is required under resume.file")
	}
	if config.Search == nil || config.Search.BaseURL == "" {
		logger.Fatal("job search api url is required under search.base-url")
	}

	content, err := os.ReadFile(config.Resume.File)
	if err != nil {
		logger.Fatal("reading resume file", zap.Error(err))
	}

	resumeFile := jobs.ResumeFile{
		Content:  content,
		Filename: filepath.Base(config.Resume.File),
	}

	resumeText, err := resume.ExtractText(content, resumeFile.Filename)
	if err != nil {
		logger.Fatal("extracting resume text", zap.Error(err))
	}

	aiClient, err := newAIClient(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai client", zap.Error(err))
	}

	boardClient, err := jobsearch.New(config.Search.BaseURL, logger)
	if err != nil {
		logger.Fatal("building job search client", zap.Error(err))
	}

	searcher := filtering.NewFilteredSearcher(boardClient, prepareFilters(config), logger)

	autoApply := viper.GetBool("auto-apply") || config.AutoApply

	if autoApply && cmd.Flag("yes").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("auto-apply disabled", zap.String("reason", "got no from prompt"))
			autoApply = false
		}
	}

	var applier agent.Applier
	if autoApply {
		headless := true
		if config.Browser != nil && config.Browser.Headless != nil {
			headless = *config.Browser.Headless
		}
		applier = browser.NewDriver(aiClient, headless, logger)
	}

	engine := agent.NewEngine(
		agent.NewParseResume(aiClient, logger),
		agent.NewSearchJobs(searcher, logger),
		agent.NewAnalyzeFit(scoring.New(aiClient, logger), logger),
		agent.NewDecideSubmission(logger),
		agent.NewAutoApply(applier, logger),
		logger,
	)

	state := agent.NewState(resumeText, resumeFile, preferences(config), profile(config), autoApply)

	final := engine.Run(ctx, state)

	for _, line := range final.Logs {
		logger.Info(line)
	}

	if config.Database != nil && config.Database.DSN != "" {
		if err := persistRun(ctx, config, final, logger); err != nil {
			logger.Warn("persisting run results", zap.Error(err))
		}
	}

	if config.Telegram != nil && config.Telegram.ChatID != 0 {
		if err := notifyRun(config.Telegram, final, logger); err != nil {
			logger.Warn("sending run summary", zap.Error(err))
		}
	}

	logger.Info("done",
		zap.Int("jobs_found", len(final.FoundJobs)),
		zap.Int("cleared_for_application", len(final.Submitted)),
	)
}

func prepareFilters(config *Config) []filtering.Filter {
	steps := []filtering.Filter{filtering.NewDedupe()}

	if config.Preferences != nil && len(config.Preferences.ExcludeCompanies) > 0 {
		steps = append(steps, filtering.NewExcludeCompanies(config.Preferences.ExcludeCompanies))
	}

	if excludeFile := viper.GetString("exclude-file"); excludeFile != "" {
		steps = append(steps, filtering.NewExcludeFile(excludeFile))
	}

	return steps
}

func preferences(config *Config) jobs.Preferences {
	if config.Preferences == nil {
		return jobs.Preferences{}
	}
	return jobs.Preferences{
		Roles:            config.Preferences.Roles,
		Locations:        config.Preferences.Locations,
		ExperienceLevels: config.Preferences.ExperienceLevels,
		JobTypes:         config.Preferences.JobTypes,
		MinMatchScore:    config.Preferences.MinMatchScore,
		RecencyDays:      config.Preferences.RecencyDays,
	}
}

func profile(config *Config) *jobs.Profile {
	if config.Profile == nil {
		return nil
	}
	return &jobs.Profile{
		FirstName:       config.Profile.FirstName,
		LastName:        config.Profile.LastName,
		Email:           config.Profile.Email,
		Phone:           config.Profile.Phone,
		LinkedinURL:     config.Profile.LinkedinURL,
		PortfolioURL:    config.Profile.PortfolioURL,
		YearsExperience: config.Profile.YearsExperience,
	}
}

func newAIClient(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Client, error) {
	if cfg == nil {
		return nil, errors.New("ai configuration is required")
	}

	switch provider := ai.Provider(strings.TrimSpace(strings.ToLower(cfg.Provider))); provider {
	case ai.ProviderGemini, "":
		if cfg.Gemini == nil {
			return nil, errors.New("ai.gemini configuration is required for the gemini provider")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		client, err := gemini.New(ctx, apiKey, cfg.Gemini.Model, logger.WithProvider(log, "gemini", cfg.Gemini.Model))
		if err != nil {
			return nil, err
		}
		log.Info("ai client ready", zap.String("provider", "gemini"), zap.String("model", client.Model()))
		return client, nil

	case ai.ProviderOpenAI, ai.ProviderOpenRouter:
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("ai.openai configuration is required for the %s provider", provider)
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: cfg.OpenAI.APIKeyFile,
			Env:  "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
		}

		baseURL := cfg.OpenAI.BaseURL
		if provider == ai.ProviderOpenRouter && baseURL == "" {
			baseURL = openai.OpenRouterBaseURL
		}

		client, err := openai.New(apiKey, cfg.OpenAI.Model, baseURL, logger.WithProvider(log, string(provider), cfg.OpenAI.Model))
		if err != nil {
			return nil, err
		}
		log.Info("ai client ready", zap.String("provider", string(provider)), zap.String("model", client.Model()))
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func persistRun(ctx context.Context, config *Config, state *agent.State, log *zap.Logger) error {
	applications, err := store.Open(ctx, config.Database.DSN, log)
	if err != nil {
		return err
	}
	defer applications.Close()

	userID := config.Database.User
	if userID == "" {
		userID = "default"
	}

	for _, url := range state.Submitted {
		listing := jobs.FindByURL(state.FoundJobs, url)
		if listing == nil {
			continue
		}

		record := &jobs.Application{
			JobTitle:    listing.Title,
			Company:     listing.Company,
			JobURL:      listing.URL,
			Explanation: listing.Explanation,
			CoverLetter: listing.CoverLetter,
			Status:      appliedStatus,
		}
		if listing.FitScore != nil {
			record.FitScore = *listing.FitScore
		}

		if err := applications.Save(ctx, userID, record); err != nil {
			return err
		}
	}

	log.Info("run results persisted", zap.Int("applications", len(state.Submitted)))
	return nil
}

func notifyRun(cfg *TelegramConfig, state *agent.State, log *zap.Logger) error {
	token, err := secrets.Load(secrets.Source{
		Name: "telegram token",
		File: cfg.TokenFile,
		Env:  "TELEGRAM_TOKEN",
	})
	if err != nil {
		return err
	}

	telegram, err := notify.NewTelegram(token, cfg.ChatID, log)
	if err != nil {
		return err
	}

	return telegram.SendRunSummary(state)
}
