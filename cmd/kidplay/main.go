package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"kidplay/internal/config"
	"kidplay/internal/database"
	"kidplay/internal/logger"
	"kidplay/internal/metrics"
	"kidplay/internal/models"
	"kidplay/internal/progression"
	"kidplay/internal/repository"
	"kidplay/internal/service"
	"kidplay/internal/validation"
)

type app struct {
	log         *logger.Logger
	children    *repository.ChildRepository
	progression *service.ProgressionService
	history     *service.HistoryService
	analytics   *service.AnalyticsService
	emotions    *service.EmotionService
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()

	applied, err := db.RunMigrations(ctx)
	if err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}
	if len(applied) > 0 {
		log.Info("Applied migrations", "files", applied)
	}

	catalog := progression.NewCatalog()
	if err := catalog.Validate(); err != nil {
		log.Fatal("Invalid achievement catalog", "error", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	children := repository.NewChildRepository(db)
	games := repository.NewGameRepository(db)
	achievements := repository.NewAchievementRepository(db)
	emotions := repository.NewEmotionRepository(db)
	ledger := service.NewAchievementLedger(achievements, children, catalog, log, m)

	a := &app{
		log:         log,
		children:    children,
		progression: service.NewProgressionService(children, games, ledger, log, m),
		history:     service.NewHistoryService(children, games, achievements, catalog, cfg.HistoryLimit),
		analytics:   service.NewAnalyticsService(children, games, achievements, emotions, catalog, log, cfg.AnalyticsDays),
		emotions:    service.NewEmotionService(children, emotions, log, cfg.EmotionDays),
	}

	runErr := a.run(ctx, os.Args[1], os.Args[2:])

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			log.Warn("Failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}

	if runErr != nil {
		log.Error("Command failed", "command", os.Args[1], "error", runErr)
		db.Close()
		log.Sync()
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "create-child":
		return a.createChild(ctx, args)
	case "children":
		return a.listChildren(ctx, args)
	case "record":
		return a.record(ctx, args)
	case "result":
		return a.result(ctx, args)
	case "history":
		return a.gameHistory(ctx, args)
	case "achievements":
		return a.achievements(ctx, args)
	case "catalog":
		return printJSON(a.history.Catalog())
	case "emotion":
		return a.recordEmotion(ctx, args)
	case "emotions":
		return a.emotionSummary(ctx, args)
	case "summary":
		return a.summary(ctx, args)
	case "recommend":
		return a.recommend(ctx, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) createChild(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-child", flag.ExitOnError)
	parentID := fs.Int64("parent", 0, "Parent account ID (required)")
	name := fs.String("name", "", "Child name (required)")
	age := fs.Int("age", 0, "Age, 4 to 10 (required)")
	language := fs.String("lang", string(models.LanguageRussian), "Interface language: kz or ru")
	avatar := fs.String("avatar", "", "Avatar key")
	fs.Parse(args)

	child := &models.Child{
		ParentID: *parentID,
		Name:     *name,
		Age:      *age,
		Avatar:   *avatar,
		Language: models.Language(*language),
	}
	if err := validation.ValidateChild(child); err != nil {
		return err
	}

	created, err := a.children.CreateChild(ctx, child)
	if err != nil {
		return err
	}
	a.log.Info("Created child", "child_id", created.ID, "parent_id", created.ParentID)
	return printJSON(created)
}

func (a *app) listChildren(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("children", flag.ExitOnError)
	parentID := fs.Int64("parent", 0, "Parent account ID (required)")
	fs.Parse(args)

	children, err := a.children.ListByParent(ctx, *parentID)
	if err != nil {
		return err
	}
	return printJSON(children)
}

func (a *app) record(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	childID := fs.Int64("child", 0, "Child ID (required)")
	gameKey := fs.String("game", "", "Game key (required)")
	score := fs.Int("score", 0, "Score")
	maxScore := fs.Int("max", 0, "Maximum score")
	difficulty := fs.String("difficulty", string(models.DifficultyEasy), "easy, medium or hard")
	correct := fs.Int("correct", 0, "Correct answers")
	total := fs.Int("total", 0, "Total questions")
	duration := fs.Int("duration", 0, "Duration in seconds")
	emotion := fs.String("emotion", "", "Emotion observed during the game")
	ref := fs.String("ref", "", "Result reference for safe retries (default: generated)")
	fs.Parse(args)

	outcome, err := a.progression.RecordResult(ctx, *childID, models.GameResult{
		Ref:               *ref,
		GameKey:           models.GameKey(*gameKey),
		Score:             *score,
		MaxScore:          *maxScore,
		Difficulty:        models.Difficulty(*difficulty),
		CorrectAnswers:    *correct,
		TotalQuestions:    *total,
		DurationSeconds:   *duration,
		EmotionDuringGame: models.Emotion(*emotion),
	})
	if err != nil {
		return err
	}
	return printJSON(outcome)
}

func (a *app) result(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("result", flag.ExitOnError)
	ref := fs.String("ref", "", "Result reference (required)")
	fs.Parse(args)

	result, err := a.history.FindResult(ctx, *ref)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a *app) gameHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	childID := fs.Int64("child", 0, "Child ID (required)")
	gameKey := fs.String("game", "", "Only this game")
	limit := fs.Int("limit", 0, "Page size (default from config)")
	offset := fs.Int("offset", 0, "Results to skip")
	fs.Parse(args)

	page, err := a.history.History(ctx, *childID, models.GameKey(*gameKey), *limit, *offset)
	if err != nil {
		return err
	}
	return printJSON(page)
}

func (a *app) achievements(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("achievements", flag.ExitOnError)
	childID := fs.Int64("child", 0, "Child ID (required)")
	fs.Parse(args)

	unlocked, err := a.history.Achievements(ctx, *childID)
	if err != nil {
		return err
	}
	return printJSON(unlocked)
}

func (a *app) recordEmotion(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("emotion", flag.ExitOnError)
	childID := fs.Int64("child", 0, "Child ID (required)")
	emotion := fs.String("emotion", "", "Emotion (required)")
	intensity := fs.Int("intensity", 50, "Intensity, 0 to 100")
	note := fs.String("context", "", "Free-form context")
	resultID := fs.Int64("result", 0, "Related game result ID")
	fs.Parse(args)

	rec := models.EmotionRecord{
		ChildID:   *childID,
		Emotion:   models.Emotion(*emotion),
		Intensity: *intensity,
		Context:   *note,
	}
	if *resultID > 0 {
		rec.GameResultID = resultID
	}

	saved, err := a.emotions.Record(ctx, rec)
	if err != nil {
		return err
	}
	return printJSON(saved)
}

func (a *app) emotionSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("emotions", flag.ExitOnError)
	childID := fs.Int64("child", 0, "Child ID (required)")
	days := fs.Int("days", 0, "Look-back window in days (default from config)")
	fs.Parse(args)

	summary, err := a.emotions.Summary(ctx, *childID, *days)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	childID := fs.Int64("child", 0, "Child ID (required)")
	days := fs.Int("days", 0, "Look-back window in days (default from config)")
	fs.Parse(args)

	summary, err := a.analytics.Summary(ctx, *childID, *days)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func (a *app) recommend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	childID := fs.Int64("child", 0, "Child ID (required)")
	fs.Parse(args)

	recs, err := a.analytics.Recommendations(ctx, *childID)
	if err != nil {
		return err
	}
	return printJSON(recs)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage() {
	fmt.Println("kidplay progression tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  kidplay create-child -parent <id> -name <name> -age <4-10> [-lang kz|ru] [-avatar <key>]")
	fmt.Println("  kidplay children -parent <id>")
	fmt.Println("  kidplay record -child <id> -game <key> -score <n> -max <n> [-difficulty easy|medium|hard]")
	fmt.Println("                 [-correct <n>] [-total <n>] [-duration <sec>] [-emotion <e>] [-ref <uuid>]")
	fmt.Println("  kidplay result -ref <uuid>")
	fmt.Println("  kidplay history -child <id> [-game <key>] [-limit <n>] [-offset <n>]")
	fmt.Println("  kidplay achievements -child <id>")
	fmt.Println("  kidplay catalog")
	fmt.Println("  kidplay emotion -child <id> -emotion <e> [-intensity <0-100>] [-context <text>] [-result <id>]")
	fmt.Println("  kidplay emotions -child <id> [-days <n>]")
	fmt.Println("  kidplay summary -child <id> [-days <n>]")
	fmt.Println("  kidplay recommend -child <id>")
	fmt.Println()
	fmt.Println("Games: memory-match, pattern-sequence, math-adventure, word-builder, emotion-cards, puzzle-solve")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  KIDPLAY_CONFIG          Optional YAML config file")
	fmt.Println("  KIDPLAY_DATABASE_TYPE   sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  KIDPLAY_DATABASE_PATH   SQLite database path (default: ./kidplay.db)")
	fmt.Println("  KIDPLAY_DATABASE_URL    PostgreSQL or MySQL connection URL")
	fmt.Println("  KIDPLAY_LOG_MODE        dev or prod")
	fmt.Println("  KIDPLAY_METRICS_FILE    Write metrics here after each command")
}
