// Package install runs the XUI deployment pipeline: runtime resolution,
// payload extraction, deployment, channel record, dependencies, launchers and
// host integration.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/bootstrap"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/bundle"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/channel"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/config"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/deploy"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/integration"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/interpreter"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/launchers"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/logging"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/payload"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/warnings"
)

// Stage names, in execution order.
const (
	StageRuntime      = "runtime"
	StageExtract      = "extract"
	StageDeploy       = "deploy"
	StageChannel      = "channel"
	StageDependencies = "dependencies"
	StageLaunchers    = "launchers"
	StageIntegration  = "integration"
)

// StageError is the fatal failure of one stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf(messages.InstallStageFailedFmt, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Options configure one install run.
type Options struct {
	// SourceRoot is the unpacked distribution directory.
	SourceRoot string
	Home       manifest.Home
	// Artifact defaults to <SourceRoot>/xui11.sh.fixed.sh.
	Artifact  string
	Branch    string
	Repo      string
	Autostart bool
	SkipDeps  bool
	// Extractor is config.ExtractorBuiltin (default) or config.ExtractorRuntime.
	Extractor string
	// ExtractorScript is resolved against SourceRoot when relative.
	ExtractorScript string
	Candidates      []interpreter.Candidate
	MinVersion      string
	Packages        []string
	// AssetSources are swept after the manifest's asset_sources, in order.
	AssetSources []string
	Collision    deploy.CollisionPolicy
	NoiseMode    string
	// Manifest defaults to the embedded deployment manifest.
	Manifest *manifest.Manifest
	Now      func() time.Time
	Log      logrus.FieldLogger
	// AttachLog is called with <home>/logs/installer.log once the home exists.
	AttachLog func(path string) error
	Stdout    io.Writer
	Stderr    io.Writer

	System            System
	IntegrationSystem integration.System
	DesktopDir        string
	AutostartDir      string
	// GOOS overrides runtime.GOOS for candidate and launcher selection.
	GOOS string
}

// Result describes a completed run, including its degraded warnings.
type Result struct {
	Runtime     interpreter.Runtime
	Staged      []string
	Deploy      deploy.Report
	Assets      deploy.AssetReport
	Channel     channel.Record
	Launchers   launchers.Paths
	EnvFile     string
	Integration integration.Result
	Warnings    []warnings.Warning
}

type installer struct {
	opts     Options
	sys      System
	log      logrus.FieldLogger
	manifest *manifest.Manifest
	goos     string
	env      interpreter.Env
	result   Result
}

type step struct {
	stage string
	run   func(context.Context) error
}

// Run executes every stage in order. A fatal stage stops the run with a
// *StageError; degraded conditions are collected in Result.Warnings.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(opts.Home.Root) == "" {
		return nil, errors.New(messages.InstallHomeRequired)
	}
	if strings.TrimSpace(opts.SourceRoot) == "" {
		return nil, errors.New(messages.InstallSourceRequired)
	}
	inst := &installer{
		opts:     opts,
		sys:      opts.System,
		log:      opts.Log,
		manifest: opts.Manifest,
		goos:     opts.GOOS,
	}
	if inst.sys == nil {
		inst.sys = RealSystem{}
	}
	if inst.log == nil {
		inst.log = logrus.StandardLogger()
	}
	if inst.goos == "" {
		inst.goos = runtime.GOOS
	}
	if inst.opts.Now == nil {
		inst.opts.Now = time.Now
	}
	if inst.opts.Artifact == "" {
		inst.opts.Artifact = filepath.Join(opts.SourceRoot, bundle.PrimaryArtifact)
	}
	if inst.manifest == nil {
		m, err := manifest.Load()
		if err != nil {
			return nil, err
		}
		inst.manifest = m
	}

	steps := []step{
		{StageRuntime, inst.resolveRuntime},
		{StageExtract, inst.extract},
		{StageDeploy, inst.deploy},
		{StageChannel, inst.writeChannel},
		{StageDependencies, inst.bootstrap},
		{StageLaunchers, inst.writeLaunchers},
		{StageIntegration, inst.integrate},
	}
	err := runSteps(ctx, inst.log, steps)
	inst.result.Warnings = warnings.ApplyNoiseControl(inst.result.Warnings, opts.NoiseMode)
	if err != nil {
		return &inst.result, err
	}
	inst.log.WithField("warnings", len(inst.result.Warnings)).Info("install finished")
	return &inst.result, nil
}

func runSteps(ctx context.Context, log logrus.FieldLogger, steps []step) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: s.stage, Err: err}
		}
		log.WithField("stage", s.stage).Debug("stage started")
		if err := s.run(ctx); err != nil {
			log.WithField("stage", s.stage).WithError(err).Error("stage failed")
			return &StageError{Stage: s.stage, Err: err}
		}
	}
	return nil
}

func (inst *installer) warn(ws ...warnings.Warning) {
	inst.result.Warnings = append(inst.result.Warnings, ws...)
}

func (inst *installer) resolveRuntime(ctx context.Context) error {
	candidates := inst.opts.Candidates
	if len(candidates) == 0 {
		candidates = interpreter.DefaultCandidates(inst.goos)
	}
	resolver, err := interpreter.NewResolver(inst.sys, candidates, inst.opts.MinVersion)
	if err != nil {
		return err
	}
	rt, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	inst.log.WithFields(logrus.Fields{"runtime": rt.String(), "version": rt.Version}).Info("runtime resolved")
	inst.result.Runtime = rt
	return nil
}

func (inst *installer) extract(ctx context.Context) error {
	var routine payload.Routine
	switch inst.opts.Extractor {
	case "", config.ExtractorBuiltin:
		// Not strict: missing required entries are the deployer's to report.
		routine = payload.BuiltinRoutine{Targets: payload.TargetsFromManifest(inst.manifest)}
	case config.ExtractorRuntime:
		script := inst.opts.ExtractorScript
		if script == "" {
			script = config.DefaultExtractorScript
		}
		if !filepath.IsAbs(script) {
			script = filepath.Join(inst.opts.SourceRoot, script)
		}
		routine = payload.RuntimeRoutine{
			Runtime: inst.result.Runtime,
			Script:  script,
			System:  inst.sys,
			Env:     inst.env,
			Stdout:  inst.opts.Stdout,
			Stderr:  inst.opts.Stderr,
		}
	default:
		return fmt.Errorf(messages.InstallUnknownExtractorFmt, inst.opts.Extractor)
	}

	names, err := payload.Extractor{Routine: routine}.Extract(ctx, inst.opts.Artifact, inst.opts.Home.StagingDir())
	if err != nil {
		return err
	}
	inst.log.WithFields(logrus.Fields{"artifact": inst.opts.Artifact, "files": len(names)}).Info("payload extracted")
	inst.result.Staged = names
	return nil
}

func (inst *installer) deploy(context.Context) error {
	home := inst.opts.Home
	if err := home.Ensure(inst.sys); err != nil {
		return err
	}
	if inst.opts.AttachLog != nil {
		path := filepath.Join(home.Logs(), logging.FileName)
		if err := inst.opts.AttachLog(path); err != nil {
			inst.log.WithError(err).Warn("install log unavailable")
		}
	}

	d := deploy.Deployer{Log: inst.log}
	report, err := d.Deploy(inst.manifest, home, deploy.Sources{Staging: home.StagingDir(), SourceRoot: inst.opts.SourceRoot})
	if err != nil {
		return err
	}
	inst.result.Deploy = report
	inst.warn(report.Warnings...)
	if !report.CoreDeployed() {
		return deploy.ErrNoCoreFiles
	}

	assets, err := d.SyncAssets(inst.assetSources(), home.Assets(), inst.opts.Collision)
	inst.result.Assets = assets
	inst.warn(assets.Warnings...)
	if err != nil {
		if errors.Is(err, deploy.ErrAssetCollision) {
			return err
		}
		inst.warn(warnings.Warning{
			Code:     warnings.CodeAssetSyncFailed,
			Subject:  home.Assets(),
			Message:  fmt.Sprintf(messages.InstallAssetSyncFailedFmt, home.Assets()),
			Details:  []string{err.Error()},
			Source:   warnings.SourceHost,
			Severity: warnings.SeverityWarning,
		})
	}
	return nil
}

// assetSources returns the manifest and configured asset directories, joined
// with the source root when relative and without duplicates.
func (inst *installer) assetSources() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, dir := range append(append([]string{}, inst.manifest.AssetSources...), inst.opts.AssetSources...) {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(inst.opts.SourceRoot, filepath.FromSlash(dir))
		}
		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}
	return out
}

func (inst *installer) writeChannel(context.Context) error {
	rec, err := channel.Build(channel.Params{
		Branch:    inst.opts.Branch,
		Repo:      inst.opts.Repo,
		SourceDir: inst.opts.SourceRoot,
	}, inst.opts.Now())
	if err != nil {
		return err
	}
	written, err := channel.NewStore(inst.opts.Home.Data()).Write(rec)
	if err != nil {
		return err
	}
	inst.log.WithFields(logrus.Fields{"branch": written.Branch, "epoch": written.UpdatedAtEpoch}).Info("channel record written")
	inst.result.Channel = written
	return nil
}

func (inst *installer) bootstrap(ctx context.Context) error {
	if inst.opts.SkipDeps {
		inst.log.Info("dependency bootstrap skipped")
		return nil
	}
	res, err := bootstrap.Bootstrapper{
		System:   inst.sys,
		Packages: inst.opts.Packages,
		Stdout:   inst.opts.Stdout,
		Stderr:   inst.opts.Stderr,
		Log:      inst.log,
		GOOS:     inst.goos,
	}.Run(ctx, inst.result.Runtime, inst.env)
	if err != nil {
		return err
	}
	inst.env = inst.env.Merge(res.Env)
	inst.warn(res.Warnings...)
	return nil
}

func (inst *installer) writeLaunchers(context.Context) error {
	home := inst.opts.Home
	var dashboard string
	if core := inst.manifest.CoreEntries(); len(core) > 0 {
		dashboard = core[0].Destination
	}
	paths, err := launchers.Write(inst.sys, home, dashboard)
	if err != nil {
		inst.log.WithError(err).Warn("launchers not written")
		inst.warn(warnings.Warning{
			Code:     warnings.CodeLaunchersWriteFailed,
			Subject:  home.Bin(),
			Message:  fmt.Sprintf(messages.InstallLaunchersFailedFmt, home.Bin()),
			Fix:      messages.InstallRerunFix,
			Details:  []string{err.Error()},
			Source:   warnings.SourceHost,
			Severity: warnings.SeverityWarning,
		})
	} else {
		inst.result.Launchers = paths
	}

	values := map[string]string{
		launchers.EnvHome:         home.Root,
		launchers.EnvRuntime:      inst.result.Runtime.String(),
		launchers.EnvUpdateBranch: inst.result.Channel.Branch,
		launchers.EnvPathPrepend:  inst.env.PathPrependValue(),
	}
	envPath, err := launchers.WriteEnv(home, values)
	if err != nil {
		inst.log.WithError(err).Warn("launcher env file not written")
		inst.warn(warnings.Warning{
			Code:     warnings.CodeLauncherEnvWriteFailed,
			Subject:  launchers.EnvFilePath(home),
			Message:  fmt.Sprintf(messages.InstallEnvFileFailedFmt, launchers.EnvFilePath(home)),
			Fix:      messages.InstallRerunFix,
			Details:  []string{err.Error()},
			Source:   warnings.SourceHost,
			Severity: warnings.SeverityWarning,
		})
		return nil
	}
	inst.result.EnvFile = envPath
	return nil
}

func (inst *installer) integrate(ctx context.Context) error {
	res := integration.Hooks{System: inst.opts.IntegrationSystem, Log: inst.log}.Apply(ctx, integration.Options{
		Home:         inst.opts.Home,
		Launcher:     launchers.LauncherPaths(inst.opts.Home).Native(inst.goos),
		Autostart:    inst.opts.Autostart,
		DesktopDir:   inst.opts.DesktopDir,
		AutostartDir: inst.opts.AutostartDir,
	})
	inst.result.Integration = res
	inst.warn(res.Warnings...)
	return nil
}
