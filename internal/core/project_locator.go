package core

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

const applicationBundleSuffix = ".app"

// ProjectLocator turns build options into the root target and configuration
// a resolution starts from.
type ProjectLocator struct {
	Projects   ports.ProjectFilePort
	Schemes    ports.SchemeFilePort
	Workspaces ports.WorkspaceFilePort
}

func NewProjectLocator(projects ports.ProjectFilePort, schemes ports.SchemeFilePort, workspaces ports.WorkspaceFilePort) ProjectLocator {
	return ProjectLocator{
		Projects:   projects,
		Schemes:    schemes,
		Workspaces: workspaces,
	}
}

func (l ProjectLocator) Locate(ctx context.Context, options types.BuildOptions) (types.Entry, error) {
	workspacePath := strings.TrimSpace(options.Value(types.BuildOptionWorkspace))
	projectPath := strings.TrimSpace(options.Value(types.BuildOptionProject))
	targetName := options.Value(types.BuildOptionTarget)
	schemeName := options.Value(types.BuildOptionScheme)

	var shape types.EntryShape
	switch {
	case workspacePath != "":
		if schemeName == "" {
			return types.Entry{}, types.Fail(types.ErrInputMalformed, "scheme is required with a workspace",
				"workspace", workspacePath,
			)
		}
		resolved, err := l.Workspaces.ProjectPath(workspacePath)
		if err != nil {
			return types.Entry{}, locateError(err, types.ErrNotFound, "workspace project not found", "workspace", workspacePath)
		}
		log.Ctx(ctx).Debug().Str("workspace", workspacePath).Str("project", resolved).Msg("workspace resolved")
		projectPath = resolved
		shape = types.EntryShapeScheme
	case projectPath != "":
		switch {
		case targetName != "":
			shape = types.EntryShapeTarget
		case schemeName != "":
			shape = types.EntryShapeScheme
		default:
			return types.Entry{}, types.Fail(types.ErrInputMalformed, "build command names neither -target nor -scheme",
				"project", projectPath,
			)
		}
	default:
		return types.Entry{}, types.Fail(types.ErrInputMalformed, "build command names neither -workspace nor -project")
	}

	graph, err := l.Projects.LoadProject(projectPath)
	if err != nil {
		return types.Entry{}, locateError(err, types.ErrNotFound, "project file not found or malformed", "path", projectPath)
	}
	entry := types.Entry{
		Shape:       shape,
		ProjectPath: projectPath,
		Graph:       graph,
	}
	if shape == types.EntryShapeTarget {
		err = l.locateTarget(options, targetName, &entry)
	} else {
		entry.SchemeName = schemeName
		err = l.locateScheme(options, schemeName, &entry)
	}
	if err != nil {
		return types.Entry{}, err
	}
	log.Ctx(ctx).Info().
		Str("shape", string(entry.Shape)).
		Str("project", entry.ProjectPath).
		Str("target", entry.TargetName).
		Str("configuration", entry.ConfigurationName).
		Msg("entry located")
	return entry, nil
}

func (l ProjectLocator) locateTarget(options types.BuildOptions, targetName string, entry *types.Entry) error {
	target, ok := entry.Graph.TargetNamed(targetName)
	if !ok {
		return types.Fail(types.ErrNotFound, "target not found",
			"target", targetName,
			"project", entry.ProjectPath,
		)
	}
	entry.TargetID = target.ID
	entry.TargetName = target.Name

	if configuration := options.Value(types.BuildOptionConfiguration); configuration != "" {
		entry.ConfigurationName = configuration
		return nil
	}
	project, ok := entry.Graph.Project()
	if !ok {
		return types.Fail(types.ErrNotFound, "root project not found",
			"project", entry.ProjectPath,
		)
	}
	list, ok := entry.Graph.ConfigurationList(project.ConfigurationListRef)
	if !ok || list.DefaultConfigurationName == "" {
		return types.Fail(types.ErrNotFound, "no default configuration",
			"project", entry.ProjectPath,
			"target", targetName,
		)
	}
	entry.ConfigurationName = list.DefaultConfigurationName
	return nil
}

func (l ProjectLocator) locateScheme(options types.BuildOptions, schemeName string, entry *types.Entry) error {
	schemePath := l.Schemes.SchemePath(entry.ProjectPath, schemeName)
	scheme, err := l.Schemes.LoadScheme(schemePath)
	if err != nil {
		return types.FailWithCause(types.ErrNotFound, err, "scheme not found",
			"scheme", schemeName,
			"project", entry.ProjectPath,
		)
	}
	reference, ok := applicationReference(scheme)
	if !ok {
		return types.Fail(types.ErrNotFound, "scheme builds no application target",
			"scheme", schemeName,
			"path", schemePath,
		)
	}
	target, ok := entry.Graph.Target(reference.BlueprintIdentifier)
	if !ok {
		target, ok = entry.Graph.TargetNamed(reference.BlueprintName)
	}
	if !ok {
		return types.Fail(types.ErrNotFound, "target not found",
			"scheme", schemeName,
			"target", reference.BlueprintName,
			"project", entry.ProjectPath,
		)
	}
	entry.TargetID = target.ID
	entry.TargetName = target.Name

	configuration := options.Value(types.BuildOptionConfiguration)
	if configuration == "" {
		configuration = scheme.ArchiveConfiguration
	}
	if configuration == "" {
		return types.Fail(types.ErrNotFound, "no archive configuration",
			"scheme", schemeName,
			"path", schemePath,
		)
	}
	entry.ConfigurationName = configuration
	return nil
}

func applicationReference(scheme types.Scheme) (types.BuildableReference, bool) {
	for _, reference := range scheme.BuildableReferences {
		if strings.HasSuffix(reference.BuildableName, applicationBundleSuffix) {
			return reference, true
		}
	}
	return types.BuildableReference{}, false
}

// locateError keeps resolver failures from adapters intact and wraps any
// other failure under kind. The context value is added when missing.
func locateError(err error, kind *errbuilder.ErrBuilder, msg string, name string, value string) error {
	if _, ok := types.KindOf(err); !ok {
		return types.FailWithCause(kind, err, msg, name, value)
	}
	types.AddDetail(err, name, value)
	return err
}
