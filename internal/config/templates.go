package config

import (
	"fmt"
	"os"
)

func Template() string {
	return markviewTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(markviewTemplate), 0o600)
}

const markviewTemplate = `name = "markview"
addr = ":8080"
# Root of the marking API; /api/subjects etc. are appended.
backend_url = "http://localhost:5000"
backend_timeout = "10s"
cors_origins = ["http://localhost:3000"]
site_title = "TheMarkingProject"
`
