package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/matzehuels/visionboard/pkg/errors"
)

// LoadDotEnv loads .env files with priority .env.local > .env.
// godotenv.Load does not overwrite variables that are already set, so the
// real environment always wins. Returns the files actually loaded.
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// ApplyEnv overrides c from VISIONBOARD_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	e := envReader{getenv: getenv}
	e.str("EXPORT_BACKGROUND", &c.Export.Background)
	e.str("EXPORT_OUTPUT_DIR", &c.Export.OutputDir)
	e.str("EXPORT_ORIGIN", &c.Export.Origin)
	e.float("EXPORT_SCALE", &c.Export.Scale)
	e.int("EXPORT_JPEG_QUALITY", &c.Export.JPEGQuality)
	e.bool("EXPORT_USE_CORS", &c.Export.UseCORS)
	e.bool("EXPORT_ALLOW_TAINT", &c.Export.AllowTaint)

	e.str("SERVER_ADDR", &c.Server.Addr)
	e.duration("SERVER_SESSION_TTL", &c.Server.SessionTTL)
	e.str("REDIS_URL", &c.Server.RedisURL)

	e.str("CACHE_DIR", &c.Cache.Dir)
	e.duration("CACHE_TTL", &c.Cache.TTL)
	e.bool("CACHE_DISABLED", &c.Cache.Disabled)

	e.str("LOG_LEVEL", &c.Log.Level)
	return e.err
}

type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) lookup(name string) (string, bool) {
	v := strings.TrimSpace(e.getenv(EnvPrefix + name))
	return v, v != "" && e.err == nil
}

func (e *envReader) fail(name string, err error) {
	e.err = errors.Wrap(errors.ErrCodeInvalidInput, err, "%s%s", EnvPrefix, name)
}

func (e *envReader) str(name string, dst *string) {
	if v, ok := e.lookup(name); ok {
		*dst = v
	}
}

func (e *envReader) float(name string, dst *float64) {
	if v, ok := e.lookup(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) int(name string, dst *int) {
	if v, ok := e.lookup(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) bool(name string, dst *bool) {
	if v, ok := e.lookup(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) duration(name string, dst *time.Duration) {
	if v, ok := e.lookup(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = d
	}
}
