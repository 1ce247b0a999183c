package messages

// Config messages for configuration loading and validation.
const (
	ConfigValidationFailed  = "config validation failed"
	ConfigMissingFileFmt    = "missing config file %s: %w"
	ConfigMissingEnvFileFmt = "missing env file %s: %w"
	ConfigInvalidEnvFileFmt = "invalid env file %s: %w"
	ConfigInvalidConfigFmt  = "invalid config %s: %w"
	ConfigExpandPathFmt     = "expand path %s: %w"

	ConfigUnrecognizedKeysFmt        = "%s: unrecognized config keys: %s"
	ConfigExtractorInvalidFmt        = "%s: install.extractor %q is invalid (allowed: builtin, runtime)"
	ConfigExtractorScriptRequiredFmt = "%s: install.extractor_script is required when install.extractor is runtime"
	ConfigRuntimeCandidateEmptyFmt   = "%s: runtime.candidates[%d] is empty"
	ConfigMinVersionInvalidFmt       = "%s: runtime.min_version %q is not a version"
	ConfigPackageInvalidFmt          = "%s: dependencies.packages[%d] %q must be a package name, not a pip flag"
	ConfigAssetsCollisionInvalidFmt  = "%s: assets.collision: %w"
	ConfigUpdateTimeoutInvalidFmt    = "%s: update.timeout_seconds must not be negative"
	ConfigUpdateRepoInvalidFmt       = "%s: update.repo %q must be in the form owner/name"
	ConfigWarningNoiseModeInvalidFmt = "%s: warnings.noise_mode is invalid (allowed: default, reduce)"
	ConfigLoggingLevelInvalidFmt     = "%s: logging.level %q is not a log level"
)
