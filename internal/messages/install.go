package messages

// Install messages for the install pipeline stages.
const (
	InstallStageFailedFmt      = "%s stage failed: %v"
	InstallHomeRequired        = "install home is required"
	InstallSourceRequired      = "install source directory is required"
	InstallUnknownExtractorFmt = "unknown payload extractor %q"
	InstallAssetSyncFailedFmt  = "some assets could not be copied into %s"
	InstallLaunchersFailedFmt  = "failed to write launchers into %s"
	InstallEnvFileFailedFmt    = "failed to write launcher env file %s"
	InstallRerunFix            = "Fix the problem above and run `xui install` again."

	// RuntimeErrNotFound is returned when no candidate interpreter qualifies.
	RuntimeErrNotFound          = "no usable Python runtime found"
	RuntimeNoCandidates         = "no usable Python runtime found (no candidates configured)"
	RuntimeNotFoundFmt          = "no usable Python runtime found (tried %s)"
	RuntimeSystemRequired       = "runtime resolver requires a system"
	RuntimeInvalidMinVersionFmt = "invalid minimum runtime version %q: %w"
	RuntimeVersionExitFmt       = "version check exited with code %d"
	RuntimeVersionTooOldFmt     = "version %s is older than %s"
	RuntimeEmptyCommand         = "empty command"

	PayloadArtifactNotFound       = "distribution artifact not found"
	PayloadStagingIncomplete      = "staging directory was left incomplete by a previous extraction"
	PayloadRoutineRequired        = "payload extractor requires a routine"
	PayloadRequiredTargetsMissing = "required payload targets missing"
	PayloadUnterminatedHeredoc    = "unterminated heredoc in artifact"
	PayloadMissingTargetsFmt      = "required payload targets missing: %s"
	PayloadExtractionFailedFmt    = "payload extraction failed with exit code %d"
	PayloadExtractionFailedErrFmt = "payload extraction failed with exit code %d: %v"
	PayloadStatArtifactFmt        = "stat artifact %s: %w"
	PayloadReadArtifactFmt        = "read artifact %s: %w"
	PayloadCreateOutFmt           = "create output directory %s: %w"
	PayloadWriteEntryFmt          = "write payload file %s: %w"
	PayloadExtractedFmt           = "extracted %s\n"
	PayloadWriteSummaryFmt        = "write extraction summary: %w"
	PayloadResetStagingFmt        = "reset staging directory %s: %w"
	PayloadWriteMarkerFmt         = "write staging marker %s: %w"
	PayloadRemoveMarkerFmt        = "remove staging marker %s: %w"
	PayloadListStagingFmt         = "list staging directory %s: %w"
	PayloadStatMarkerFmt          = "check staging marker in %s: %w"

	ManifestHomeRequired             = "application home is required"
	ManifestResolveHomeFmt           = "resolve application home %s: %w"
	ManifestCreateDirFailedFmt       = "failed to create %s: %w"
	ManifestInvalidFmt               = "invalid deployment manifest: %w"
	ManifestNoEntries                = "deployment manifest has no entries"
	ManifestSourceRequiredFmt        = "manifest entry %d: source is required"
	ManifestDuplicateSourceFmt       = "duplicate manifest source %s at entry %d (first seen at entry %d)"
	ManifestInvalidOriginFmt         = "manifest entry %d: invalid origin %q (allowed: payload, source)"
	ManifestPayloadNameFmt           = "manifest entry %d: payload source %q must be a bare file name"
	ManifestInvalidDestinationFmt    = "manifest entry %d: invalid destination %q: %w"
	ManifestDestinationEmpty         = "destination is empty"
	ManifestDestinationAbsolute      = "destination must be relative"
	ManifestDestinationNotClean      = "destination must be a clean path inside the home"
	ManifestDestinationNoFile        = "destination must name a file inside a home directory"
	ManifestDestinationUnknownDirFmt = "unknown home directory %q"

	DeployNoCoreFiles               = "no core dashboard files were deployed"
	DeployRequiredMissingFmt        = "required file %s is missing (looked for %s)"
	DeployRequiredMissingFix        = "Use a complete distribution and run `xui install` again."
	DeployCopyFailedFmt             = "failed to copy %s to %s"
	DeployAssetCollision            = "asset file name collides across sources"
	DeployInvalidCollisionPolicyFmt = "unknown asset collision policy %q (allowed: last-wins, first-wins, error)"
	DeployCreateAssetDirFmt         = "create asset directory %s: %w"
	DeployAssetSyncFailedFmt        = "%d asset file(s) could not be copied"

	ChannelResolveSourceFmt = "resolve source directory %s: %w"
	ChannelReadFmt          = "read channel record %s: %w"
	ChannelDecodeFmt        = "decode channel record %s: %w"
	ChannelEncodeFmt        = "encode channel record: %w"
	ChannelWriteFmt         = "write channel record %s: %w"

	BootstrapPipUpgradeFailed    = "pip self-upgrade failed"
	BootstrapInstallFailedFmt    = "dependency install failed for: %s"
	BootstrapExitCodeFmt         = "exit code %d"
	BootstrapFix                 = "Check network access, then rerun the installer or install the packages with pip."
	BootstrapUserBaseUnavailable = "could not determine the Python user base; user scripts may be missing from PATH"
	BootstrapEmptyOutputFmt      = "python -m site %s printed nothing"

	IntegrationShortcutFailedFmt  = "desktop shortcut could not be created: %v"
	IntegrationAutostartFailedFmt = "autostart entry could not be created: %v"
	IntegrationFix                = "Create the shortcut manually or rerun the installer."
	IntegrationSkipped            = "skipped"
	IntegrationNoDesktopFmt       = "desktop directory %s does not exist"

	LaunchersCreateDirFailedFmt = "failed to create %s: %w"
	LaunchersRenderFailedFmt    = "failed to render launcher template %s: %w"
	LaunchersWriteFailedFmt     = "failed to write launcher %s: %w"
	LaunchersEnvFileHeader      = "XUI launcher environment written by xui install.\nXUI_ keys are replaced on every install; other lines are kept."

	BundleMissingFilesFmt = "distribution is missing required files: %s"
	BundleInvalidNameFmt  = "invalid archive name %q"
	BundleCreateOutputFmt = "create output directory %s: %w"
	BundleStageFmt        = "stage bundle in %s: %w"
	BundleRenderFmt       = "render %s: %w"
	BundleArchiveFmt      = "write archive %s: %w"
	BundleChecksumFmt     = "checksum %s: %w"
	BundleEmptySidecar    = "empty checksum sidecar"
)
