package utils

import (
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from .env files (default ".env").
// Variables already set in the process environment win.
func LoadEnv(files ...string) error {
	return godotenv.Load(files...)
}

// AbsPath resolves p against the working directory, leaving absolute paths as is
func AbsPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
