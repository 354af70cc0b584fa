package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xcsign/internal/app"
)

type validateOptions struct {
	Path string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a written export options file for unresolved values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !flagChanged(cmd, "path") {
				opts.Path = args[0]
				_ = cmd.Flags().Set("path", args[0])
			}
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Path, "path", "", "Export options plist path")
	_ = viper.BindPFlag("path", cmd.Flags().Lookup("path"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Validate(ctx, app.ValidateRequest{
		Path: resolveString(cmd, opts.Path, "path", "path"),
	})
	if err != nil {
		return err
	}
	if result.Method != "" {
		fmt.Printf("validated: %s (%d keys, method %s)\n", result.Path, result.Keys, result.Method)
		return nil
	}
	fmt.Printf("validated: %s (%d keys)\n", result.Path, result.Keys)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
