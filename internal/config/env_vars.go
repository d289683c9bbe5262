package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	portEnvVar      = "PORT"
	appNameVar      = "APP_NAME"
	apiPrefixEnvVar = "API_PREFIX"
	logLevelEnvVar  = "LOG_LEVEL"

	// EnvProduction is the environment value that switches cookies and logging to production mode.
	EnvProduction = "production"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "3001")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Finvofy API")
}

// GetAPIPrefix returns the path prefix shared by every route, without a trailing slash.
func (EnvVars) GetAPIPrefix() string {
	prefix := strings.TrimRight(GetEnv(apiPrefixEnvVar, "/api"), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

// GetEnv returns ENV, falling back to NODE_ENV and then "development".
func (EnvVars) GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return GetEnv("NODE_ENV", "development")
}

func (e EnvVars) IsProduction() bool {
	return strings.EqualFold(e.GetEnv(), EnvProduction)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvBool(envVar string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}
