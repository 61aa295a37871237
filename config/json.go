package config

import (
	"encoding/json"
	"os"

	"github.com/avolkov/authcore/flagx"
	"github.com/avolkov/authcore/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15m"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabaseDSN              string         `json:"database_dsn"`
	SecretKey                string         `json:"secret_key"`
	TokenValidityDuration    timex.Duration `json:"token_validity_duration"`
	BcryptCost               int            `json:"bcrypt_cost"`
	VerificationCodeValidity timex.Duration `json:"verification_code_validity"`
	ResetCodeValidity        timex.Duration `json:"reset_code_validity"`
	SMTPHost                 string         `json:"smtp_host"`
	SMTPPort                 int            `json:"smtp_port"`
	SMTPUser                 string         `json:"smtp_user"`
	SMTPPassword             string         `json:"smtp_password"`
	MailFrom                 string         `json:"mail_from"`
	MailTimeout              timex.Duration `json:"mail_timeout"`
	RevocationSweepInterval  timex.Duration `json:"revocation_sweep_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config command-line flags; when neither
// is set, no JSON is loaded. Zero values in the file leave the corresponding
// Config fields untouched, so partial files are fine. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenValidityDuration.Duration != 0 {
		cfg.TokenValidityDuration = jc.TokenValidityDuration.Duration
	}
	if jc.BcryptCost != 0 {
		cfg.BcryptCost = jc.BcryptCost
	}
	if jc.VerificationCodeValidity.Duration != 0 {
		cfg.VerificationCodeValidity = jc.VerificationCodeValidity.Duration
	}
	if jc.ResetCodeValidity.Duration != 0 {
		cfg.ResetCodeValidity = jc.ResetCodeValidity.Duration
	}
	if jc.SMTPHost != "" {
		cfg.SMTPHost = jc.SMTPHost
	}
	if jc.SMTPPort != 0 {
		cfg.SMTPPort = jc.SMTPPort
	}
	if jc.SMTPUser != "" {
		cfg.SMTPUser = jc.SMTPUser
	}
	if jc.SMTPPassword != "" {
		cfg.SMTPPassword = jc.SMTPPassword
	}
	if jc.MailFrom != "" {
		cfg.MailFrom = jc.MailFrom
	}
	if jc.MailTimeout.Duration != 0 {
		cfg.MailTimeout = jc.MailTimeout.Duration
	}
	if jc.RevocationSweepInterval.Duration != 0 {
		cfg.RevocationSweepInterval = jc.RevocationSweepInterval.Duration
	}
}
