package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/phrasebot/internal/bot"
	"github.com/example/phrasebot/internal/cards"
	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/progress"
	"github.com/example/phrasebot/internal/scheduler"
	"github.com/example/phrasebot/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd)
	},
}

func runBot(cmd *cobra.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.RequireToken(); err != nil {
		return err
	}

	// Создаем контекст, который отменяется по сигналу
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	lessons := database.NewLessonRepository(db)
	users := database.NewUserRepository(db)
	words := database.NewUserWordRepository(db)
	stats := database.NewStatisticsRepository(db)

	tracker := progress.NewTracker(words, progress.NewSchedule(), log)
	selector := cards.NewSelector(lessons, tracker, nil)
	store := session.NewStore()

	engine := session.NewEngine(session.Deps{
		Profiles: users,
		Lessons:  lessons,
		Progress: tracker,
		Cards:    selector,
		Stats:    stats,
	}, session.Options{
		CardTTL:               cfg.Session.CardTTL,
		DefaultUILanguage:     cfg.Session.UILanguage(),
		DefaultTargetLanguage: cfg.Session.TargetLanguage(),
	}, store, log)

	b, err := bot.New(cfg.Telegram.Token, engine, &bot.Config{
		PollTimeout: cfg.Telegram.PollTimeout,
		StopTimeout: cfg.Telegram.StopTimeout,
		Debug:       cfg.Telegram.Debug,
	}, log)
	if err != nil {
		return err
	}

	// напоминания можно выключить, очистка сессий работает всегда
	sched := scheduler.New(cfg.Scheduler, cfg.Session.IdleTTL, b, words, store, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := b.Start(gctx); err != nil {
			return fmt.Errorf("failed to start bot: %w", err)
		}
		<-gctx.Done()
		// отдельный контекст: родительский уже отменён
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telegram.StopTimeout)
		defer cancel()
		return b.Stop(shutdownCtx)
	})
	g.Go(func() error {
		if err := sched.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		sched.Stop()
		return nil
	})

	log.Info("bot is running, press Ctrl+C to stop")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("bot stopped successfully")
	return nil
}
