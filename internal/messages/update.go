package messages

// Update messages for the update channel check.
const (
	UpdateMissingRemoteSHA     = "missing-remote-sha"
	UpdateNetworkDisabled      = "network-disabled"
	UpdateRateLimitFmt         = "github api rate limit exceeded (%s, remaining=%s)"
	UpdateCreateRequestErrFmt  = "create commit request: %w"
	UpdateFetchCommitErrFmt    = "fetch remote commit: %w"
	UpdateFetchCommitStatusFmt = "fetch remote commit: unexpected status %s"
	UpdateDecodeCommitErrFmt   = "decode remote commit: %w"

	UpdateStatusRepoFmt         = "Repo: %s"
	UpdateStatusBranchFmt       = "Branch: %s"
	UpdateStatusCheckedFmt      = "Checked: %s"
	UpdateStatusMandatoryFmt    = "Mandatory: %s"
	UpdateStatusLocalCommitFmt  = "Local commit: %s"
	UpdateStatusRemoteCommitFmt = "Remote commit: %s"
	UpdateStatusRemoteDateFmt   = "Remote date: %s"
	UpdateStatusRemoteURLFmt    = "Remote URL: %s"
	UpdateStatusRequiredFmt     = "Update required: %s"
	UpdateStatusReasonFmt       = "Reason: %s"
	UpdateStatusNone            = "<none>"
	UpdateStatusUnknown         = "<unknown>"

	UpdateWarnCheckFailedFmt  = "Warning: could not check for updates: %v\n"
	UpdateWarnOutdatedFmt     = "Warning: update available on branch %s (installed %s, latest %s)\n"
	UpdateWarnUnknownLocalFmt = "Warning: installed commit is unknown; branch %s is at %s\n"
)
