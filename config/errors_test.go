package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "missing field",
			err:  NewMissingFieldError("client.baseurl"),
			want: "config_missing: client.baseurl required set HTTPKIT_CLIENT_BASEURL env var or add client.baseurl to config.yaml",
		},
		{
			name: "invalid with options",
			err:  NewInvalidFieldError("app.env", `invalid value "qa"`, []string{"development", "production"}),
			want: `config_invalid: app.env invalid value "qa" must be one of: development, production`,
		},
		{
			name: "details",
			err:  &ConfigError{Category: "invalid", Field: "x", Details: []string{"a", "b"}},
			want: "config_invalid: x a; b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestEnvVarFor(t *testing.T) {
	assert.Equal(t, "HTTPKIT_SERVER_PATH_PROXY", EnvVarFor("server.path.proxy"))
	assert.Equal(t, "client.retrydelay", envKey("HTTPKIT_CLIENT_RETRYDELAY"))
}
