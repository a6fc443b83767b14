package logger

import (
	"context"
	"errors"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	named := logger.Named("test")
	if named == nil {
		t.Fatal("named logger is nil")
	}
}

func TestLoggerLazyGet(t *testing.T) {
	global = nil
	if logger := Get(); logger == nil {
		t.Fatal("lazy Get returned nil")
	}
}

func TestLoggerBasic(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	logger := Get()

	logger.Debug(ctx, "debug message", String("key", "value"))
	logger.Info(ctx, "info message", Int("count", 3), Float64("ratio", 0.5))
	logger.Warn(ctx, "warn message", Bool("flag", true))
	logger.Error(ctx, "error message", Error(errors.New("boom")), Any("payload", []int{1, 2}))
}

func TestSetLevelString(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "INFO", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("level %q rejected: %v", level, err)
		}
	}

	if err := SetLevelString("verbose"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
}
