package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"xcsign/internal/core"
	"xcsign/internal/shared"
	"xcsign/internal/types"
)

// resolution is the shared front half of export and tree: the interpreted
// command, the located entry and the built dependency tree.
type resolution struct {
	command  types.BuildCommand
	entry    types.Entry
	tree     *core.DependencyTree
	platform string
}

func (s Service) resolve(ctx context.Context, script string, sdk string, workDir string) (resolution, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return resolution{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build command is required")
	}
	command := core.NewCommandInterpreter(s.Interpreter).Interpret(ctx, script)
	command.Options = anchorOptions(command.Options, workDir)
	command.ExportPlistPath = shared.AnchorPath(workDir, command.ExportPlistPath)

	locator := core.NewProjectLocator(s.Projects, s.Schemes, s.Workspaces)
	entry, err := locator.Locate(ctx, command.Options)
	if err != nil {
		return resolution{}, err
	}

	platform := strings.TrimSpace(sdk)
	if platform == "" {
		platform = command.Options.Value(types.BuildOptionSDK)
	}
	platform = core.SDKPlatform(platform)
	if platform == "" {
		platform = core.DefaultSDKPlatform
	}
	tree, err := core.NewDependencyTreeBuilder(s.XCConfig, platform).Build(ctx, entry)
	if err != nil {
		return resolution{}, err
	}
	return resolution{
		command:  command,
		entry:    entry,
		tree:     tree,
		platform: platform,
	}, nil
}

func (r resolution) summary() EntrySummary {
	return EntrySummary{
		Shape:         r.entry.Shape,
		Project:       r.entry.ProjectPath,
		Scheme:        r.entry.SchemeName,
		Target:        r.entry.TargetName,
		Configuration: r.entry.ConfigurationName,
		SDK:           r.platform,
	}
}

func anchorOptions(options types.BuildOptions, workDir string) types.BuildOptions {
	if workDir == "" {
		return options
	}
	values := options.Map()
	for _, key := range []types.BuildOption{
		types.BuildOptionProject,
		types.BuildOptionWorkspace,
		types.BuildOptionExportPlist,
	} {
		if value, ok := values[key]; ok {
			values[key] = shared.AnchorPath(workDir, value)
		}
	}
	return types.NewBuildOptions(values)
}
