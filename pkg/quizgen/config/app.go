package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "QUIZGEN_"

// App holds the settings of the quizgen tools. Each field can be overridden
// by QUIZGEN_<KEY>, e.g. QUIZGEN_MAX_COUNT=20.
type App struct {
	Addr           string `koanf:"addr" validate:"required"`
	DBPath         string `koanf:"db_path"`
	VocabularyPath string `koanf:"vocabulary_path"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes" validate:"min=1"`
	MinCount       int    `koanf:"min_count" validate:"min=1"`
	MaxCount       int    `koanf:"max_count" validate:"gtefield=MinCount"`
	SentenceLimit  int    `koanf:"sentence_limit" validate:"min=1"`
	LogLevel       string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogJSON        bool   `koanf:"log_json"`
}

// DefaultApp returns the built-in settings.
func DefaultApp() App {
	return App{
		Addr:           ":8080",
		DBPath:         "quizgen.db",
		MaxUploadBytes: 50 << 20,
		MinCount:       1,
		MaxCount:       50,
		SentenceLimit:  30,
		LogLevel:       "info",
	}
}

// AppLoader merges defaults with environment overrides. Environ defaults to
// os.Environ.
type AppLoader struct {
	Environ func() []string
}

// Load returns validated settings.
func (l AppLoader) Load() (*App, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultApp(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
		EnvironFunc: environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var app App
	if err := k.Unmarshal("", &app); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}
	return &app, nil
}

// Validate checks the struct constraints.
func (a *App) Validate() error {
	if err := validator.New().Struct(a); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

// CheckCount reports whether n is within the configured question count bounds.
func (a *App) CheckCount(n int) error {
	if n < a.MinCount || n > a.MaxCount {
		return fmt.Errorf("%w: count %d outside %d..%d", internalerr.ErrInvalidInput, n, a.MinCount, a.MaxCount)
	}
	return nil
}
