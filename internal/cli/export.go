package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"xcsign/internal/app"
)

type exportOptions struct {
	ShellScript        string
	DistributionMethod string
	SDK                string
	WorkDir            string
	DryRun             bool
}

func newExportCommand() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write ExportOptions.plist for the build command",
		Long: `Reads the xcodebuild or flutter invocation a CI job is about to run, resolves
the signing settings of the archived target and its dependencies, and writes
the export options file to the path the invocation names.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ShellScript, "shell-script", "", "Build command to interpret")
	cmd.Flags().StringVar(&opts.DistributionMethod, "distribution-method", "", "Distribution method, e.g. app-store or ad-hoc")
	cmd.Flags().StringVar(&opts.SDK, "sdk", "", "SDK platform overriding the build command's -sdk")
	cmd.Flags().StringVar(&opts.WorkDir, "workdir", "", "Directory relative paths in the build command are resolved from")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the document instead of writing it")

	_ = viper.BindPFlag("shell_script", cmd.Flags().Lookup("shell-script"))
	_ = viper.BindPFlag("distribution_method", cmd.Flags().Lookup("distribution-method"))
	_ = viper.BindPFlag("sdk", cmd.Flags().Lookup("sdk"))
	_ = viper.BindPFlag("workdir", cmd.Flags().Lookup("workdir"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	return cmd
}

func runExport(ctx context.Context, cmd *cobra.Command, opts exportOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	req := app.ExportRequest{
		ShellScript:        resolveString(cmd, opts.ShellScript, "shell_script", "shell-script"),
		DistributionMethod: resolveString(cmd, opts.DistributionMethod, "distribution_method", "distribution-method"),
		SDK:                resolveString(cmd, opts.SDK, "sdk", "sdk"),
		WorkDir:            resolveString(cmd, opts.WorkDir, "workdir", "workdir"),
		DryRun:             resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
	}
	result, err := service.Export(ctx, req)
	if err != nil {
		return err
	}
	for _, hint := range result.Hints {
		fmt.Fprintln(os.Stderr, hint)
	}
	if req.DryRun {
		data, err := yaml.Marshal(result.Document)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s", result.ExportPath, data)
		return nil
	}
	fmt.Printf("export options written: %s\n", result.ExportPath)
	return nil
}
