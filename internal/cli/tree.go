package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"xcsign/internal/app"
)

type treeOptions struct {
	ShellScript string
	SDK         string
	WorkDir     string
}

func newTreeCommand() *cobra.Command {
	opts := treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the signing settings of the archived target and its dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTree(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ShellScript, "shell-script", "", "Build command to interpret")
	cmd.Flags().StringVar(&opts.SDK, "sdk", "", "SDK platform overriding the build command's -sdk")
	cmd.Flags().StringVar(&opts.WorkDir, "workdir", "", "Directory relative paths in the build command are resolved from")
	_ = viper.BindPFlag("shell_script", cmd.Flags().Lookup("shell-script"))
	_ = viper.BindPFlag("sdk", cmd.Flags().Lookup("sdk"))
	_ = viper.BindPFlag("workdir", cmd.Flags().Lookup("workdir"))
	return cmd
}

func runTree(ctx context.Context, cmd *cobra.Command, opts treeOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Tree(ctx, app.TreeRequest{
		ShellScript: resolveString(cmd, opts.ShellScript, "shell_script", "shell-script"),
		SDK:         resolveString(cmd, opts.SDK, "sdk", "sdk"),
		WorkDir:     resolveString(cmd, opts.WorkDir, "workdir", "workdir"),
	})
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
