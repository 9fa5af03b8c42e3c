// Package constants defines shared configuration constants.
package constants

import "time"

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".docent"

	// DefaultAgentEndpoint is the project-agent service queried when no
	// endpoint is configured.
	DefaultAgentEndpoint = "http://localhost:8000"

	// DefaultLogFile is the session log filename inside the config dir.
	// Interactive sessions own the terminal, so logs go to a file.
	DefaultLogFile = "docent.log"

	// DefaultTheme selects terminal-background detection.
	DefaultTheme = "auto"
)

const (
	// DefaultAgentTimeout bounds one chat round trip.
	DefaultAgentTimeout = 60 * time.Second

	// DefaultWelcomeDelay is the pause before the welcome message appears
	// in a fresh session.
	DefaultWelcomeDelay = 600 * time.Millisecond
)
