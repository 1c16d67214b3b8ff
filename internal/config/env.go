package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.dev"}

// LoadEnvFiles overlays the local env files that exist onto the process
// environment and returns the ones loaded. Later files win.
func LoadEnvFiles(files ...string) ([]string, error) {
	if len(files) == 0 {
		files = envFiles
	}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			return loaded, fmt.Errorf("load %s: %w", file, err)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}
