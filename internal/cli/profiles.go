package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xcsign/internal/app"
)

type installProfilesOptions struct {
	ProvisioningPath string
	TargetDir        string
}

func newInstallProfilesCommand() *cobra.Command {
	opts := installProfilesOptions{}
	cmd := &cobra.Command{
		Use:   "install-profiles",
		Short: "Install .mobileprovision files where Xcode looks them up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstallProfiles(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ProvisioningPath, "provisioning-path", "", "Directory searched for .mobileprovision files")
	cmd.Flags().StringVar(&opts.TargetDir, "target-dir", app.DefaultProfilesDir, "Directory profiles are installed into")
	_ = viper.BindPFlag("provisioning_path", cmd.Flags().Lookup("provisioning-path"))
	_ = viper.BindPFlag("profiles_target_dir", cmd.Flags().Lookup("target-dir"))
	return cmd
}

func runInstallProfiles(ctx context.Context, cmd *cobra.Command, opts installProfilesOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.InstallProfiles(ctx, app.InstallProfilesRequest{
		SourceDir: resolveString(cmd, opts.ProvisioningPath, "provisioning_path", "provisioning-path"),
		TargetDir: resolveString(cmd, opts.TargetDir, "profiles_target_dir", "target-dir"),
	})
	if err != nil {
		if len(result.Installed) > 0 {
			fmt.Printf("installed %d provisioning profiles into %s before failing\n", len(result.Installed), result.TargetDir)
		}
		return err
	}
	fmt.Printf("installed %d provisioning profiles into %s\n", len(result.Installed), result.TargetDir)
	return nil
}
