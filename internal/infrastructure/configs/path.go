package configs

import (
	"flag"
	"os"

	"github.com/hilthontt/drift/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file location: --config flag,
// then DRIFT_CONFIG, then a handful of conventional candidates. An empty
// result is fine; Load falls back to defaults plus environment overrides.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("DRIFT_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/drift/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
