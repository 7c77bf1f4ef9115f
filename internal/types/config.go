package types

type RunMode string

const (
	// ModeDryRun creates and attaches everything in the destination
	// account but always voids the draft afterwards, leaving no open
	// artifacts behind
	ModeDryRun RunMode = "dry_run"
	// ModeFinalize drives every migrated invoice to the terminal state
	// matching its source status
	ModeFinalize RunMode = "finalize"
)

func (m RunMode) IsDryRun() bool {
	return m != ModeFinalize
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)
