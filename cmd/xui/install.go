package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/config"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/deploy"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/install"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/interpreter"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/logging"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/warnings"
)

var runInstall = install.Run

type installFlags struct {
	source    string
	branch    string
	artifact  string
	config    string
	extractor string
	logLevel  string
	autostart bool
	skipDeps  bool
}

func newInstallCmd() *cobra.Command {
	var f installFlags
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstallCmd(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.source, "source", "", messages.InstallFlagSource)
	flags.StringVar(&f.branch, "branch", "", messages.InstallFlagBranch)
	flags.StringVar(&f.artifact, "artifact", "", messages.InstallFlagArtifact)
	flags.StringVar(&f.config, flagConfig, "", messages.InstallFlagConfig)
	flags.StringVar(&f.extractor, "extractor", "", messages.InstallFlagExtractor)
	flags.StringVar(&f.logLevel, "log-level", "", messages.InstallFlagLogLevel)
	flags.BoolVar(&f.autostart, "autostart", false, messages.InstallFlagAutostart)
	flags.BoolVar(&f.skipDeps, "skip-deps", false, messages.InstallFlagSkipDeps)
	return cmd
}

func runInstallCmd(cmd *cobra.Command, f installFlags) error {
	out := cmd.OutOrStdout()
	source, err := resolveSource(f.source)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f.config, filepath.Join(source, config.FileName))
	if err != nil {
		return err
	}
	applyInstallFlags(cmd, f, cfg)

	home, err := resolveHome(cmd, cfg)
	if err != nil {
		return err
	}
	artifact, err := config.ExpandPath(cfg.Install.Artifact, source)
	if err != nil {
		return err
	}
	collision, err := deploy.ParseCollisionPolicy(cfg.Assets.Collision)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	_, _ = fmt.Fprintf(out, messages.InstallStartFmt, home.Root)
	res, err := runInstall(cmd.Context(), install.Options{
		SourceRoot:      source,
		Home:            home,
		Artifact:        artifact,
		Branch:          cfg.Update.Branch,
		Repo:            cfg.Update.Repo,
		Autostart:       cfg.Install.Autostart,
		SkipDeps:        cfg.Install.SkipDeps,
		Extractor:       cfg.Install.Extractor,
		ExtractorScript: cfg.Install.ExtractorScript,
		Candidates:      candidatesFromConfig(cfg.Runtime.Candidates),
		MinVersion:      cfg.Runtime.MinVersion,
		Packages:        cfg.Dependencies.Packages,
		AssetSources:    cfg.Assets.Sources,
		Collision:       collision,
		NoiseMode:       cfg.Warnings.NoiseMode,
		Log:             logger.Run(),
		AttachLog:       logger.AttachFile,
		Stdout:          out,
		Stderr:          cmd.ErrOrStderr(),
	})
	if res != nil {
		printWarnings(cmd.ErrOrStderr(), res.Warnings)
	}
	if err != nil {
		return err
	}
	printInstallSummary(out, res)
	_, _ = fmt.Fprintf(out, messages.InstallLogFileFmt, filepath.Join(home.Logs(), logging.FileName))
	launcher := res.Launchers.Native(runtime.GOOS)
	if len(res.Warnings) > 0 {
		_, _ = fmt.Fprint(out, color.YellowString(messages.InstallDoneWarnFmt, len(res.Warnings), launcher))
		return nil
	}
	_, _ = fmt.Fprint(out, color.GreenString(messages.InstallDoneFmt, launcher))
	return nil
}

// applyInstallFlags layers explicitly set flags over cfg.
func applyInstallFlags(cmd *cobra.Command, f installFlags, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("branch") {
		cfg.Update.Branch = f.branch
	}
	if flags.Changed("artifact") {
		cfg.Install.Artifact = f.artifact
	}
	if flags.Changed("extractor") {
		cfg.Install.Extractor = f.extractor
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if flags.Changed("autostart") {
		cfg.Install.Autostart = f.autostart
	}
	if flags.Changed("skip-deps") {
		cfg.Install.SkipDeps = f.skipDeps
	}
}

func resolveSource(source string) (string, error) {
	if source == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		source = cwd
	}
	return config.ExpandPath(source, "")
}

// candidatesFromConfig splits each configured command line into a candidate.
// Nil selects the platform defaults.
func candidatesFromConfig(lines []string) []interpreter.Candidate {
	if len(lines) == 0 {
		return nil
	}
	out := make([]interpreter.Candidate, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		out = append(out, interpreter.Candidate{Name: strings.Join(fields, " "), Argv: fields})
	}
	return out
}

func printInstallSummary(out io.Writer, res *install.Result) {
	_, _ = fmt.Fprintf(out, messages.InstallRuntimeFmt, res.Runtime.String())
	_, _ = fmt.Fprintf(out, messages.InstallDeployFmt, len(res.Deploy.Deployed), len(res.Deploy.Missing), len(res.Deploy.Skipped))
	_, _ = fmt.Fprintf(out, messages.InstallAssetsFmt, len(res.Assets.Copied))
	_, _ = fmt.Fprintf(out, messages.InstallChannelFmt, res.Channel.Branch, res.Channel.Platform)
	for _, o := range res.Integration.Outcomes {
		_, _ = fmt.Fprintf(out, messages.InstallIntegrationFmt, o.Hook, o.Status)
	}
}

func printWarnings(w io.Writer, ws []warnings.Warning) {
	warnColor := color.New(color.FgYellow)
	for _, warning := range ws {
		_, _ = warnColor.Fprintln(w, warning.String())
		_, _ = fmt.Fprintln(w)
	}
}
