package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-d", "db", "-p", "salty", "-l", "Member", "-k", "secret",
			"-t", "24", "-a=true", "-b=true",
		}, expectPanic: false,
			expected: &Config{
				DatabaseDSN:                  "db",
				PasswordSalt:                 "salty",
				StartingLevelName:            "Member",
				SessionTokenSecret:           "secret",
				SessionTokenValidityDuration: 24 * time.Hour,
				EnableAccountEmailActivation: true,
				UseBcryptForNewPasswords:     true,
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
