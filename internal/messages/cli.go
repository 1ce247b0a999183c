package messages

// CLI messages for user-facing commands.
const (
	// RootUse is the CLI command name.
	RootUse = "xui"
	// RootShort is the short description for the root command.
	RootShort       = "Install and maintain the XUI dashboard"
	RootVersionFlag = "Print version and exit"
	RootFlagHome    = "application home (default ~/.xui)"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// InstallUse is the install command name.
	InstallUse            = "install"
	InstallShort          = "Install XUI from an unpacked distribution"
	InstallFlagSource     = "distribution source directory (default: current directory)"
	InstallFlagBranch     = "update channel branch (default windows)"
	InstallFlagAutostart  = "start XUI at login"
	InstallFlagSkipDeps   = "skip the pip dependency bootstrap"
	InstallFlagArtifact   = "distribution artifact (default <source>/xui11.sh.fixed.sh)"
	InstallFlagConfig     = "installer config file (default <source>/xui-install.toml when present)"
	InstallFlagExtractor  = "payload extractor: builtin or runtime"
	InstallFlagLogLevel   = "log level: trace, debug, info, warn or error"
	InstallStartFmt       = "Installing XUI into %s\n"
	InstallRuntimeFmt     = "Runtime: %s\n"
	InstallDeployFmt      = "Deployed %d file(s), %d required missing, %d optional skipped\n"
	InstallAssetsFmt      = "Assets: %d copied\n"
	InstallChannelFmt     = "Update channel: %s (%s)\n"
	InstallIntegrationFmt = "Integration %s: %s\n"
	InstallLogFileFmt     = "Log: %s\n"
	InstallDoneFmt        = "XUI installed. Launch with %s\n"
	InstallDoneWarnFmt    = "XUI installed with %d warning(s). Launch with %s\n"

	// BundleUse is the bundle command name.
	BundleUse             = "bundle"
	BundleShort           = "Package a Windows distribution archive"
	BundleFlagSource      = "source checkout to package (default: current directory)"
	BundleFlagOutput      = "directory for the archive (default <source>/dist)"
	BundleFlagName        = "archive base name"
	BundleFlagLogLevel    = "stderr log level: trace, debug, info, warn or error"
	BundleCreatedFmt      = "Created %s\n"
	BundleChecksumLineFmt = "Checksum (%s): %s\n"

	// ExtractUse is the extract command name.
	ExtractUse         = "extract"
	ExtractShort       = "Extract the embedded payload from a distribution artifact"
	ExtractFlagSource  = "distribution artifact to read"
	ExtractFlagOut     = "directory to write the extracted files into"
	ExtractArgsMissing = "--source and --out are required"
	ExtractSummaryFmt  = "Extracted %d file(s) into %s\n"

	// UpdateUse is the update command name.
	UpdateUse            = "update"
	UpdateShort          = "Inspect the update channel"
	UpdateStatusUse      = "status"
	UpdateStatusShort    = "Compare the installed commit with the channel branch head"
	UpdateStatusFlagJSON = "print the status as JSON"
	UpdateFlagConfig     = "installer config file for update settings"

	// ChannelUse is the channel command name.
	ChannelUse          = "channel"
	ChannelShort        = "Inspect the update channel record"
	ChannelShowUse      = "show"
	ChannelShowShort    = "Print the update channel record"
	ChannelShowMissing  = "No channel record at %s; the update channel defaults to %s.\n"
	ChannelShowPlatform = "Platform: %s\n"
	ChannelShowBranch   = "Branch: %s\n"
	ChannelShowRepo     = "Repo: %s\n"
	ChannelShowSource   = "Source: %s\n"
	ChannelShowUpdated  = "Updated: %s\n"
	ChannelFlagCheck    = "also check the branch head for updates"
)
