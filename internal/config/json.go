package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/docvault/internal/flagx"
	"github.com/dmitrijs2005/docvault/internal/timex"
)

// JSONConfig is the DTO used only for reading JSON configuration files.
// Interval fields use timex.Duration so both "5m" strings and integer
// nanoseconds parse. After unmarshalling, values are copied into the runtime
// Config.
type JSONConfig struct {
	DatabaseDSN    string         `json:"database_dsn"`
	OwnerID        string         `json:"owner_id"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	PasscodePath   string         `json:"passcode_path"`
	UnlockSecret   string         `json:"unlock_secret"`
	UnlockTokenTTL timex.Duration `json:"unlock_token_ttl"`
}

// parseJSON overlays values from the JSON file named by the -c/-config flag,
// if any. A missing flag means no file is loaded; an unreadable or invalid
// file panics, since running with half-applied configuration is worse than
// not starting.
func parseJSON(config *Config) {

	jsonConfigFile := flagx.JSONConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.OwnerID = c.OwnerID
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PasscodePath = c.PasscodePath
	config.UnlockSecret = c.UnlockSecret
	config.UnlockTokenTTL = time.Duration(c.UnlockTokenTTL.Duration)
}
