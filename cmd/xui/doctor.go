package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/doctor"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/interpreter"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/manifest"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

var doctorSystem interpreter.System = interpreter.RealSystem{}

func newDoctorCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := loadConfig(configPath, "")
			if err != nil {
				return err
			}
			home, err := resolveHome(cmd, cfg)
			if err != nil {
				return err
			}
			m, err := manifest.Load()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, home.Root)

			var allResults []doctor.Result
			allResults = append(allResults, doctor.CheckStructure(home)...)
			allResults = append(allResults, doctor.CheckFiles(m, home)...)
			allResults = append(allResults, doctor.CheckDrift(m, home)...)
			allResults = append(allResults, doctor.CheckLaunchers(home, runtime.GOOS))
			allResults = append(allResults, doctor.CheckChannel(home))

			resolver, err := interpreter.NewResolver(doctorSystem, runtimeCandidates(cfg.Runtime.Candidates), cfg.Runtime.MinVersion)
			if err != nil {
				return err
			}
			allResults = append(allResults, doctor.CheckRuntime(cmd.Context(), resolver))
			allResults = append(allResults, doctor.CheckEnvFile(home))

			status, err := updateStatus(cmd.Context(), cfg, home)
			if err != nil {
				return err
			}
			allResults = append(allResults, doctor.CheckUpdate(status, cfg.Update.NoNetwork))

			for _, r := range allResults {
				printResult(out, r)
			}
			if doctor.HasFailure(allResults) {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return fmt.Errorf(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, flagConfig, "", messages.UpdateFlagConfig)
	return cmd
}

// runtimeCandidates returns the configured candidates or the host defaults.
func runtimeCandidates(lines []string) []interpreter.Candidate {
	if c := candidatesFromConfig(lines); c != nil {
		return c
	}
	return interpreter.DefaultCandidates(runtime.GOOS)
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	lines := strings.Split(recommendation, "\n")
	for i, line := range lines {
		if i == 0 {
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
			continue
		}
		if line == "" {
			_, _ = fmt.Fprintf(out, "%s\n", messages.DoctorRecommendationIndent)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
	}
}
