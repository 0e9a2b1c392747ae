package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "bootstrap":
		return bootstrapTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const bootstrapTemplate = `compose_file = "docker-compose.yml"
project = "dashboard"
log_file = "setup.log"
settle_seconds = 15
health_urls = ["http://localhost:8080/", "http://localhost:3000/"]

[[repositories]]
name = "mqtt_server"
branch = "main"
markers = ["package.json", "Dockerfile"]

[[repositories]]
name = "dashboard-webserver"
branch = "main"
markers = ["package.json", "Dockerfile"]

[[repositories]]
name = "dashboard-webserver-ui"
branch = "main"
markers = ["package.json"]
`
