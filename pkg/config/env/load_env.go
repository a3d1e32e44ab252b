package env

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file without overriding ones already
// set in the process environment. The file path comes from ENV_PATH, falling
// back to defaultPath. A missing file is an error only when running locally.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Debug("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	err := godotenv.Load(envPath)
	if err == nil {
		slog.Debug("Loaded .env file", "path", envPath)
		return nil
	}
	if env == "local" {
		return err
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	slog.Debug("Skipping .env", "path", envPath)
	return nil
}
