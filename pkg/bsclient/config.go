package bsclient

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

// LoadConfig reads client configuration from a file and the environment.
//
// When path is empty it searches for a "bastion" config file (yaml, json or
// toml) in the current directory and $HOME/.bastion. Environment variables
// prefixed with BASTION_ override file values, e.g. BASTION_HOST and
// BASTION_SKIP_TLS_VERIFY. A missing file is not an error unless path was
// given explicitly.
func LoadConfig(path string) (*bastion.Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bastion")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.bastion")
	}

	v.SetEnvPrefix("BASTION")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range configKeys {
		err := v.BindEnv(key)
		if err != nil {
			return nil, fmt.Errorf("binding environment for %q: %w", key, err)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config bastion.Config

	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &config, nil
}

// SaveConfig writes the config as a YAML file LoadConfig can read back.
// File mode 0600: the config usually holds credentials.
func SaveConfig(path string, config *bastion.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

var configKeys = []string{
	"host",
	"username",
	"password",
	"token",
	"domain_id",
	"skip_tls_verify",
	"skip_version_check",
	"http_timeout",
	"retry_max",
	"retry_wait_min",
	"retry_wait_max",
	"user_agent",
	"debug",
}
