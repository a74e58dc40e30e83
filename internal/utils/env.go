package utils

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env into the process environment. A missing file is normal
// outside development; any other failure is reported to the caller.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// GetEnv returns the variable's value, or fallback when it is unset.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvInt is GetEnv for integer variables. Unparseable values fall back.
func GetEnvInt(key string, fallback int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
