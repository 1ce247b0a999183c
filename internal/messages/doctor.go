package messages

// Doctor messages for the doctor command.
const (
	// DoctorUse is the doctor command name.
	DoctorUse   = "doctor"
	DoctorShort = "Check an XUI installation for missing files and configuration problems"

	DoctorHealthCheckFmt = "Checking XUI installation in %s...\n"

	DoctorCheckNameStructure = "Structure"
	DoctorCheckNameFiles     = "Files"
	DoctorCheckNameLaunchers = "Launchers"
	DoctorCheckNameChannel   = "Channel"
	DoctorCheckNameRuntime   = "Runtime"
	DoctorCheckNameEnv       = "Env"
	DoctorCheckNameUpdate    = "Update"
	DoctorCheckNameDrift     = "Drift"

	DoctorMissingRequiredDirFmt = "Missing required directory: %s"
	DoctorPathNotDirFmt         = "%s exists but is not a directory"
	DoctorPathNotDirRecommend   = "Move the file out of the way, then run `xui install` again."
	DoctorDirExistsFmt          = "Directory exists: %s"
	DoctorReinstallRecommend    = "Run `xui install` to repair the installation."

	DoctorCoreFileMissingFmt     = "Core file missing: %s"
	DoctorRequiredFileMissingFmt = "Required file missing: %s"
	DoctorFilesPresentFmt        = "%d deployed file(s) present"
	DoctorLauncherMissingFmt     = "Launcher missing: %s"
	DoctorLauncherPresentFmt     = "Launcher present: %s"

	DoctorChannelUnreadableFmt = "Channel record is unreadable: %v"
	DoctorChannelMissing       = "No channel record; update checks fall back to the windows branch"
	DoctorChannelOKFmt         = "Branch %s on %s"

	DoctorRuntimeRecommend       = "Install Python 3 and make sure it is on PATH."
	DoctorRuntimeFoundFmt        = "Runtime: %s"
	DoctorRuntimeFoundVersionFmt = "Runtime: %s (Python %s)"

	DoctorEnvMissingFmt          = "Launcher env file missing: %s"
	DoctorEnvInvalidRecommendFmt = "Fix or delete %s, then run `xui install` again."
	DoctorEnvHomeMismatchFmt     = "%s is %s but the home is %s"
	DoctorEnvOKFmt               = "Launcher env file sets %d XUI_ key(s)"

	DoctorDriftMatchFmt          = "%d deployed file(s) match the staged payload"
	DoctorDriftModifiedFmt       = "%s differs from the staged payload (+%d/-%d lines)"
	DoctorDriftModifiedRecommend = "Run `xui install` again to restore it, or keep the local edit."
	DoctorDriftNoStaging         = "No staged payload to compare against"
	DoctorDriftIncomplete        = "Staged payload is incomplete; drift was not checked"
	DoctorDriftReadFailedFmt     = "Cannot compare %s: %v"
	DoctorDriftStagedLabelFmt    = "%s (staged)"
	DoctorDriftDeployedLabelFmt  = "%s (deployed)"

	DoctorUpdateSkippedFmt        = "Update check skipped because %s is set"
	DoctorUpdateRateLimited       = "Update check skipped due to GitHub API rate limit (HTTP 403/429)"
	DoctorUpdateFailedFmt         = "Failed to check for updates: %v"
	DoctorUpdateFailedRecommend   = "Verify network access and try again."
	DoctorUpdateRequiredFmt       = "Update required on branch %s (%s)"
	DoctorUpdateRequiredRecommend = "Pull the latest sources for the branch and run `xui install` again."
	DoctorUpToDateFmt             = "Up to date on branch %s"

	DoctorFailureSummary = "Some checks failed. Please address the items above."
	DoctorFailureError   = "doctor checks failed"
	DoctorSuccessSummary = "All checks passed. XUI is ready."

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-10s %s\n"
	DoctorRecommendationPrefix = "       > "
	DoctorRecommendationIndent = "         "
)
