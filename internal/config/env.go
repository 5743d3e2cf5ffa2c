package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	logx "homeworkbot/pkg/logx"
)

// Environment variables holding the credentials.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// ErrMissingCredentials is returned by Credentials.Validate. It is fatal:
// the bot must not start polling without all three values.
var ErrMissingCredentials = errors.New("required credentials are missing")

// Credentials are the three opaque tokens the bot needs to run.
type Credentials struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID string
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables already set in the environment are not overridden.
// A missing file is not an error unless required is true.
func LoadEnvFile(path string, required bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// CredentialsFromEnv reads credentials from the process environment.
func CredentialsFromEnv() Credentials {
	return LookupCredentials(os.Getenv)
}

// LookupCredentials reads credentials through getenv (os.Getenv in production).
func LookupCredentials(getenv func(string) string) Credentials {
	return Credentials{
		PracticumToken: strings.TrimSpace(getenv(EnvPracticumToken)),
		TelegramToken:  strings.TrimSpace(getenv(EnvTelegramToken)),
		TelegramChatID: strings.TrimSpace(getenv(EnvTelegramChatID)),
	}
}

// Missing returns the environment variable names of empty credentials.
func (c Credentials) Missing() []string {
	var out []string
	if strings.TrimSpace(c.PracticumToken) == "" {
		out = append(out, EnvPracticumToken)
	}
	if strings.TrimSpace(c.TelegramToken) == "" {
		out = append(out, EnvTelegramToken)
	}
	if strings.TrimSpace(c.TelegramChatID) == "" {
		out = append(out, EnvTelegramChatID)
	}
	return out
}

// Validate checks that every credential is present. On failure it writes a
// fatal-level record and returns an error wrapping ErrMissingCredentials.
func (c Credentials) Validate(log logx.Logger) error {
	missing := c.Missing()
	if len(missing) > 0 {
		log.Fatal("credentials missing", logx.String("missing", strings.Join(missing, ",")))
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	log.Debug("credentials found")
	return nil
}

// String never prints raw tokens.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{practicum=%s telegram=%s chat=%s}",
		maskSecret(c.PracticumToken), maskSecret(c.TelegramToken), c.TelegramChatID)
}

func maskSecret(s string) string {
	if s == "" {
		return "<empty>"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-2:]
}
