package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every load path produced a usable configuration.
func ValidateConfig(cfg *Config) error {
	var errors []string

	required := map[string]string{
		"server port": cfg.ServerPort,
		"db host":     cfg.DBHost,
		"db port":     cfg.DBPort,
		"db user":     cfg.DBUser,
		"db name":     cfg.DBName,
		"redis host":  cfg.RedisHost,
		"redis port":  cfg.RedisPort,
	}
	for field, value := range required {
		if value == "" {
			errors = append(errors, fmt.Sprintf("required %s is not set", field))
		}
	}

	// Sensitive values get explicit errors so an empty secret file is
	// distinguishable from a missing plain setting.
	if cfg.DBPassword == "" {
		errors = append(errors, "db password is required")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "jwt secret is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
