package main

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"go-shift-hunter/internal/browser"
	"go-shift-hunter/internal/config"
	"go-shift-hunter/internal/filter"
	"go-shift-hunter/internal/logger"
	"go-shift-hunter/internal/poller"
	"go-shift-hunter/internal/reporter"
	"go-shift-hunter/internal/scraper/amazon"
	"go-shift-hunter/utils"
)

func main() {
	//load config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("❌ Failed to load config: %v", err)
	}

	log, cleanup, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("❌ Failed to init logger: %v", err)
	}

	log.Info("🚀 Starting shift hunter...")
	log.Infof("🔧 Config loaded. Target: %s | refresh every %d-%ds",
		cfg.TargetURL, cfg.RefreshInterval.MinSeconds, cfg.RefreshInterval.MaxSeconds)
	log.Infof("ℹ️ Job title %q and max attempts %d are informational only", cfg.JobTitle, cfg.MaxAttempts)

	notifier := newNotifier(cfg, log)

	//stop cleanly on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, log, notifier)
	switch {
	case err == nil:
		log.Info("🏁 Script finished.")
	case errors.Is(err, context.Canceled):
		log.Info("👋 Stopped by operator.")
	default:
		log.Errorf("❌ Shift hunter failed: %v", err)
		if nErr := notifier.NotifyError(err); nErr != nil {
			log.Warnf("⚠️ Failed to send error to Telegram: %v", nErr)
		}
		stop()
		cleanup()
		os.Exit(1)
	}
	cleanup()
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger, notifier reporter.Notifier) error {
	pwManager, err := browser.NewPlaywright(browser.LaunchOptions{
		Headless: cfg.Headless,
		Install:  cfg.InstallBrowser,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := pwManager.Close(); err != nil {
			log.Warnf("⚠️ Error closing browser: %v", err)
		}
	}()

	var cookies []playwright.OptionalCookie
	if cfg.CookiesPath != "" {
		cookies, err = browser.LoadCookies(cfg.CookiesPath, cfg.TargetURL, log)
		if err != nil {
			log.Warnf("⚠️ Could not load cookies: %v. Continuing.", err)
		}
	}

	browserCtx, err := pwManager.NewContext(cookies)
	if err != nil {
		return err
	}
	driver, err := browser.NewDriver(browserCtx, cfg.InteractionTimeout)
	if err != nil {
		return err
	}
	log.Info("✅ Browser initialized successfully!")

	session := browser.NewSession(driver, log)
	if err := session.Navigate(cfg.TargetURL); err != nil {
		return err
	}
	if err := browser.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}

	amazon.Prepare(session, cfg.InteractionTimeout, log)

	if !cfg.SkipLoginPrompt {
		if err := waitForLogin(ctx, log); err != nil {
			return err
		}
	}

	orchestrator := poller.New(
		poller.Deps{
			Detector:  amazon.NewDetector(session, cfg.PageLoadWait),
			Extractor: amazon.NewExtractor(session, log),
			Matcher:   filter.NewMatcher(cfg.Match),
			Submitter: amazon.NewSubmitter(session, cfg.TargetURL, cfg.InteractionTimeout, utils.NewScreenShotDebugger(cfg.ScreenshotDir, log), log),
			Page:      session,
			Pause:     browser.NewJitter(cfg.RefreshInterval.Min(), cfg.RefreshInterval.Max()),
		},
		poller.SessionState{
			RefreshMin:  cfg.RefreshInterval.Min(),
			RefreshMax:  cfg.RefreshInterval.Max(),
			MaxAttempts: cfg.MaxAttempts,
		},
		log,
		poller.WithNotifier(notifier),
	)
	return orchestrator.Run(ctx)
}

func newNotifier(cfg *config.Config, log logrus.FieldLogger) reporter.Notifier {
	if !cfg.NotificationsEnabled() {
		return reporter.Nop{}
	}
	tg, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Warnf("⚠️ Telegram disabled: %v", err)
		return reporter.Nop{}
	}
	log.Info("🤖 Telegram notifications enabled.")
	return tg
}

// waitForLogin blocks until the operator presses Enter or ctx ends.
func waitForLogin(ctx context.Context, log logrus.FieldLogger) error {
	log.Info("🔐 Login required. Please sign in manually.")
	log.Info("⌨️ Press Enter here after completing login in the browser...")

	done := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		log.Info("✅ Login confirmed, starting to poll.")
		return nil
	}
}
