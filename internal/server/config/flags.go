package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-p string   password salt
//	-l string   starting level name
//	-k string   session token secret
//	-t int      session token validity, hours
//	-a          enable email activation for new accounts
//	-b          use bcrypt for newly set passwords
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The validity
// flag is accepted as an integer in hours and converted to a time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-p", "-l", "-k", "-t", "-a", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.PasswordSalt, "p", config.PasswordSalt, "password salt")
	fs.StringVar(&config.StartingLevelName, "l", config.StartingLevelName, "starting level name")
	fs.StringVar(&config.SessionTokenSecret, "k", config.SessionTokenSecret, "session token secret")

	sessionTokenValidity := fs.Int("t", int(config.SessionTokenValidityDuration.Hours()), "session_token_validity_duration (in hours)")

	fs.BoolVar(&config.EnableAccountEmailActivation, "a", config.EnableAccountEmailActivation, "require email activation for new accounts")
	fs.BoolVar(&config.UseBcryptForNewPasswords, "b", config.UseBcryptForNewPasswords, "use bcrypt for newly set passwords")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidity) * time.Hour
}
