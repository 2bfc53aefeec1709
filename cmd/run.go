package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spigell/hh-interviewer/internal/ai"
	"github.com/spigell/hh-interviewer/internal/ai/gemini"
	"github.com/spigell/hh-interviewer/internal/ai/offline"
	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/logger"
	"github.com/spigell/hh-interviewer/internal/orchestrator"
	"github.com/spigell/hh-interviewer/internal/postprocess"
	"github.com/spigell/hh-interviewer/internal/prompting"
	"github.com/spigell/hh-interviewer/internal/report"
	"github.com/spigell/hh-interviewer/internal/secrets"
	"github.com/spigell/hh-interviewer/internal/session"
	"github.com/spigell/hh-interviewer/internal/storage/sqlite"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const candidateLabel = "Вы"

var (
	interviewerColor = color.New(color.FgCyan, color.Bold)
	progressColor    = color.New(color.Faint)
	scoreColor       = color.New(color.FgGreen, color.Bold)
	warnColor        = color.New(color.FgYellow)
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("offline", false, "use scripted replies instead of the language model")
	runCmd.Flags().Bool("stream", false, "print interviewer replies as they are generated")
	runCmd.Flags().StringP("position", "p", "", "interview position: frontend, backend or fullstack")
	runCmd.Flags().StringP("session", "s", "", "session id (generated when empty)")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hh-interviewer", zap.String("version", version))

	offlineMode, _ := cmd.Flags().GetBool("offline")
	provider, err := newProvider(ctx, config.AI, offlineMode, logger)
	if err != nil {
		logger.Fatal("creating the language model provider", zap.Error(err), zap.String("hint", "use --offline to run without it"))
	}

	pipeline := postprocess.Default(config.PostProcess, logger)
	logPipeline(logger, pipeline)

	opts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithConfig(config.Interview),
		orchestrator.WithPipeline(pipeline),
		orchestrator.WithGenerator(report.New(config.Report,
			report.WithProvider(provider),
			report.WithLogger(logger),
		)),
	}

	if repo, err := openReports(config.Storage); err != nil {
		logger.Warn("reports will not be persisted", zap.Error(err))
	} else if repo != nil {
		defer repo.Close()
		opts = append(opts, orchestrator.WithReportRepository(repo))
	}

	engine, err := orchestrator.New(session.NewMemoryStore(), provider, opts...)
	if err != nil {
		logger.Fatal("creating the interview engine", zap.Error(err))
	}

	go engine.RunCleanup(ctx, 0)

	position, err := choosePosition(cmd)
	if err != nil {
		logger.Fatal("choosing a position", zap.Error(err))
	}

	sessionID, _ := cmd.Flags().GetString("session")
	greeting, err := engine.StartSession(ctx, sessionID, position)
	if err != nil {
		logger.Fatal("starting the interview", zap.Error(err))
	}

	logger.Debug("session ready", zap.String("session_id", greeting.SessionID), zap.Bool("resumed", greeting.Resumed))
	interviewerColor.Println(greeting.Text)

	stream, _ := cmd.Flags().GetBool("stream")
	r, err := converse(ctx, engine, greeting.SessionID, stream)
	if err != nil {
		logger.Fatal("interview failed", zap.Error(err))
	}

	printReport(r)

	stats := engine.Stats()
	logger.Info("interview finished",
		zap.Int("completed", stats.Completed),
		zap.Any("by_reason", stats.ByReason),
		zap.Any("by_recommendation", stats.ByRecommendation),
		zap.Any("by_kind", stats.ByKind),
	)
}

func logPipeline(logger *zap.Logger, pipeline *postprocess.Pipeline) {
	for _, st := range pipeline.Describe() {
		logger.Info("postprocess step",
			zap.String("name", st.Name),
			zap.Bool("enabled", st.Enabled),
			zap.String("reason", st.Reason),
			zap.Any("details", st.Details),
		)
	}
}

// converse reads candidate answers until the interview completes or the
// candidate leaves. Leaving force-completes the session.
func converse(ctx context.Context, engine *orchestrator.Orchestrator, id string, stream bool) (*interview.Report, error) {
	input := promptui.Prompt{Label: candidateLabel}

	for {
		text, err := input.Run()
		if err != nil && !errors.Is(err, promptui.ErrInterrupt) && !errors.Is(err, promptui.ErrEOF) {
			return nil, err
		}
		if err != nil || strings.TrimSpace(text) == "" {
			return engine.ForceComplete(context.WithoutCancel(ctx), id)
		}

		u := orchestrator.Utterance{SessionID: id, Text: text}
		if stream {
			u.OnChunk = func(chunk string) { interviewerColor.Print(chunk) }
		}

		reply, err := engine.SubmitUtterance(ctx, u)
		if errors.Is(err, context.Canceled) {
			fmt.Println()
			return engine.ForceComplete(context.WithoutCancel(ctx), id)
		}
		if err != nil {
			return nil, err
		}

		if stream {
			fmt.Println()
		} else {
			interviewerColor.Println(reply.Text)
		}
		if reply.Fallback {
			warnColor.Println("(языковая модель недоступна, ответ из запасных фраз)")
		}

		if reply.IsComplete {
			return reply.Report, nil
		}
		progressColor.Printf("[%s, %.0f%%]\n", reply.CurrentTopic.Title(), reply.Progress.CompletionPercentage)
	}
}

func choosePosition(cmd *cobra.Command) (interview.Position, error) {
	if raw, _ := cmd.Flags().GetString("position"); raw != "" {
		return interview.ParsePosition(raw)
	}

	positions := interview.Positions()
	items := make([]string, 0, len(positions))
	for _, p := range positions {
		items = append(items, prompting.PositionTitle(p))
	}

	prompt := promptui.Select{
		Label: "Позиция",
		Items: items,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return positions[i], nil
}

func newProvider(ctx context.Context, cfg *AIConfig, offlineMode bool, logger *zap.Logger) (ai.Provider, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if offlineMode || provider == offline.ProviderName {
		return offline.New(), nil
	}
	if provider != "" && provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", gemini.ProviderName),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Config, genLogger)
	if err != nil {
		return nil, err
	}

	return generator, nil
}

func openReports(cfg *StorageConfig) (*sqlite.Store, error) {
	if cfg.Disabled || strings.TrimSpace(cfg.Path) == "" {
		return nil, nil
	}
	return sqlite.Open(cfg.Path)
}

func printReport(r *interview.Report) {
	if r == nil {
		return
	}

	fmt.Println()
	scoreColor.Printf("Итог: %.1f из 10, %s (%s)\n", r.FinalScore, r.Level, r.Recommendation)
	if r.Feedback != "" {
		fmt.Println(r.Feedback)
	}
	for _, step := range r.NextSteps {
		fmt.Printf("  - %s\n", step)
	}
	progressColor.Printf("Отчёт сессии %s, подробности: %s report %s\n", r.SessionID, app, r.SessionID)
}
