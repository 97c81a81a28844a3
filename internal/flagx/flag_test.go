package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// clientFlags and devapiFlags mirror the sets the two binaries register.
var (
	clientFlags = []string{"-a", "-g", "-d", "-k", "-m", "-p", "-l", "-f"}
	devapiFlags = []string{"-a", "-s", "-t", "-r", "-l"}
)

func TestFilterArgs(t *testing.T) {
	cases := map[string]struct {
		args    []string
		allowed []string
		want    []string
	}{
		"config flag is dropped for the client set": {
			args:    []string{"-c", "oculog.json", "-a", "http://localhost:8080"},
			allowed: clientFlags,
			want:    []string{"-a", "http://localhost:8080"},
		},
		"equals form": {
			args:    []string{"-d=/tmp/tokens.db", "-s", "secret"},
			allowed: clientFlags,
			want:    []string{"-d=/tmp/tokens.db"},
		},
		"devapi ignores client only flags": {
			args:    []string{"-g", "https://geo.example", "-t", "15m", "-l", "debug"},
			allowed: devapiFlags,
			want:    []string{"-t", "15m", "-l", "debug"},
		},
		"order is preserved across forms": {
			args:    []string{"-p=20", "-m", "300ms", "-p", "50"},
			allowed: clientFlags,
			want:    []string{"-p=20", "-m", "300ms", "-p", "50"},
		},
		"trailing flag without value": {
			args:    []string{"-l"},
			allowed: clientFlags,
			want:    []string{"-l"},
		},
		"next dash token is not a value": {
			args:    []string{"-k", "-l", "info"},
			allowed: clientFlags,
			want:    []string{"-k", "-l", "info"},
		},
		"value starting with a dash needs equals": {
			args:    []string{"-k=-abc"},
			allowed: clientFlags,
			want:    []string{"-k=-abc"},
		},
		"positional and unknown arguments": {
			args:    []string{"serve", "--verbose", "-x=1"},
			allowed: devapiFlags,
			want:    []string{},
		},
		"nil args": {
			allowed: clientFlags,
			want:    []string{},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")

	t.Run("short -c with value", func(t *testing.T) {
		assert.Equal(t, "/path/short.json", ConfigFile([]string{"-c", "/path/short.json"}))
	})

	t.Run("long -config with value", func(t *testing.T) {
		assert.Equal(t, "/path/long.json", ConfigFile([]string{"-config=/path/long.json", "-a", "x"}))
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		assert.Empty(t, ConfigFile([]string{"-x", "1", "-y", "2"}))
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		assert.Equal(t, "/path/2.json", ConfigFile([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	})

	t.Run("falls back to environment", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "/etc/oculog.json")
		assert.Equal(t, "/etc/oculog.json", ConfigFile(nil))
	})
}
