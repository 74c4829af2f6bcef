package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/flagx"
	"github.com/dmitrijs2005/boardkeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; its fields are copied into the runtime Config.
type JsonConfig struct {
	DatabaseDSN                  string         `json:"database_dsn"`
	PasswordSalt                 string         `json:"password_salt"`
	UseBcryptForNewPasswords     bool           `json:"use_bcrypt_for_new_passwords"`
	UserLevels                   map[string]int `json:"user_levels"`
	StartingLevelName            string         `json:"starting_level_name"`
	EnableAccountEmailActivation bool           `json:"enable_account_email_activation"`
	SessionTokenSecret           string         `json:"session_token_secret"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	SessionLogRetention          timex.Duration `json:"session_log_retention"`
	SessionLogPurgeInterval      timex.Duration `json:"session_log_purge_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. An unreadable or
// invalid file panics: a deployment pointing at a broken config must not
// start.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.PasswordSalt != "" {
		config.PasswordSalt = c.PasswordSalt
	}
	config.UseBcryptForNewPasswords = c.UseBcryptForNewPasswords
	if len(c.UserLevels) > 0 {
		config.UserLevels = c.UserLevels
	}
	if c.StartingLevelName != "" {
		config.StartingLevelName = c.StartingLevelName
	}
	config.EnableAccountEmailActivation = c.EnableAccountEmailActivation
	if c.SessionTokenSecret != "" {
		config.SessionTokenSecret = c.SessionTokenSecret
	}
	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = time.Duration(c.SessionTokenValidityDuration.Duration)
	}
	if c.SessionLogRetention.Duration != 0 {
		config.SessionLogRetention = time.Duration(c.SessionLogRetention.Duration)
	}
	if c.SessionLogPurgeInterval.Duration != 0 {
		config.SessionLogPurgeInterval = time.Duration(c.SessionLogPurgeInterval.Duration)
	}
}
