package config

import (
	"encoding/json"
	"os"
	"time"

	"notectl/internal/flagx"
)

// jsonDuration accepts durations either as strings like "10s" or as
// integer nanoseconds.
type jsonDuration struct {
	time.Duration
}

func (d *jsonDuration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return &json.UnsupportedTypeError{}
	}
}

// JSONConfig is a DTO used exclusively for JSON unmarshalling. After parsing,
// values are copied into the runtime Config.
type JSONConfig struct {
	APIBaseURL     string       `json:"api_base_url"`
	SessionDBPath  string       `json:"session_db_path"`
	RequestTimeout jsonDuration `json:"request_timeout"`
}

// parseJSON overlays Config with values loaded from a JSON file named by the
// -c/-config flags. When no file is given it is a no-op. Read or unmarshal
// errors panic; configuration happens before anything worth preserving.
//
// Intended usage is: defaults -> parseJSON -> parseFlags, where later stages
// override earlier ones.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
