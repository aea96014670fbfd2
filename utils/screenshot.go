package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Capturer is anything that can write a screenshot of the active page.
type Capturer interface {
	Screenshot(path string) error
}

// ScreenShotDebugger saves debug screenshots when the application flow breaks.
type ScreenShotDebugger struct {
	outputDir string
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewScreenShotDebugger(outputDir string, log logrus.FieldLogger) *ScreenShotDebugger {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Warnf("⚠️ Failed to create screenshot directory: %v", err)
	}
	return &ScreenShotDebugger{
		outputDir: outputDir,
		log:       log,
		now:       time.Now,
	}
}

func (s *ScreenShotDebugger) CaptureAndLog(page Capturer, name, message string) error {
	timestamp := s.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", name, timestamp)
	path := filepath.Join(s.outputDir, filename)
	s.log.Info("📸 " + message)

	if err := page.Screenshot(path); err != nil {
		s.log.Warnf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}

	s.log.Infof("   Screenshot saved: %s", path)
	return nil
}
