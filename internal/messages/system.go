package messages

// Envfile messages for env file parsing and patching.
const (
	EnvfileLineErrorFmt            = "line %d: %w"
	EnvfileExpectedKeyValue        = "expected KEY=VALUE"
	EnvfileUnterminatedQuotedValue = "unterminated quoted value"
	EnvfileInvalidQuotedSuffix     = "invalid trailing characters after quoted value"
	EnvfileReadFileFmt             = "read env file %s: %w"
	EnvfileWriteFileFmt            = "write env file %s: %w"
)

// Logging messages.
const (
	LoggingInvalidLevelFmt = "invalid log level %q: %w"
	LoggingOpenFileFmt     = "open log file %s: %w"
	LoggingWriteFmt        = "write log: %w"
)

// Warnings messages.
const (
	WarningsNoiseModeInvalidFmt = "unknown warnings noise mode %q; expected one of: %s, %s"
	WarningsNoiseModeInvalidFix = "Set warnings.noise_mode to default or reduce."
)
