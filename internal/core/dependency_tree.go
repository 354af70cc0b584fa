package core

import (
	"context"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

// DependencyTree is a target with its resolved settings and the trees of
// the targets it depends on. A target reached through several parents is
// the same *DependencyTree value under each of them.
type DependencyTree struct {
	TargetID   string
	TargetName string
	// ProjectDir is the directory holding the .xcodeproj bundle.
	ProjectDir string
	Settings   ResolvedSettings
	Children   []*DependencyTree
}

// Closure lists every node once, depth-first, parents before children and
// the receiver first.
func (t *DependencyTree) Closure() []*DependencyTree {
	var nodes []*DependencyTree
	seen := map[string]struct{}{}
	var walk func(node *DependencyTree)
	walk = func(node *DependencyTree) {
		if _, ok := seen[node.TargetID]; ok {
			return
		}
		seen[node.TargetID] = struct{}{}
		nodes = append(nodes, node)
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(t)
	return nodes
}

type DependencyTreeBuilder struct {
	XCConfig ports.XCConfigPort
	SDK      string
}

func NewDependencyTreeBuilder(xcconfig ports.XCConfigPort, sdk string) DependencyTreeBuilder {
	return DependencyTreeBuilder{XCConfig: xcconfig, SDK: sdk}
}

func (b DependencyTreeBuilder) Build(ctx context.Context, entry types.Entry) (*DependencyTree, error) {
	assert.NotEmpty(ctx, entry.TargetID, "entry target id must be set")
	assert.NotEmpty(ctx, entry.ConfigurationName, "entry configuration must be set")

	walk := &treeWalk{
		builder:       b,
		logger:        log.Ctx(ctx),
		graph:         entry.Graph,
		configuration: entry.ConfigurationName,
		projectDir:    entry.Graph.ProjectDir(),
		built:         map[string]*DependencyTree{},
		onPath:        map[string]int{},
	}
	root, err := walk.visit(entry.TargetID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, types.Fail(types.ErrNotFound, "target not found",
			"target", entry.TargetName,
			"project", entry.ProjectPath,
		)
	}
	walk.logger.Debug().
		Str("root", root.TargetName).
		Int("targets", len(walk.built)).
		Msg("dependency tree built")
	return root, nil
}

type treeWalk struct {
	builder       DependencyTreeBuilder
	logger        *zerolog.Logger
	graph         types.ProjectGraph
	configuration string
	projectDir    string
	built         map[string]*DependencyTree
	path          []string
	onPath        map[string]int
}

// visit returns nil without error when id names no target.
func (w *treeWalk) visit(id string) (*DependencyTree, error) {
	if index, ok := w.onPath[id]; ok {
		return nil, w.cycleError(index, id)
	}
	if node, ok := w.built[id]; ok {
		return node, nil
	}
	target, ok := w.graph.Target(id)
	if !ok {
		return nil, nil
	}

	w.onPath[id] = len(w.path)
	w.path = append(w.path, id)
	defer func() {
		w.path = w.path[:len(w.path)-1]
		delete(w.onPath, id)
	}()

	node := &DependencyTree{
		TargetID:   target.ID,
		TargetName: target.Name,
		ProjectDir: w.projectDir,
		Settings:   NewResolvedSettings(w.settingsFor(target), w.builder.SDK),
	}
	for _, ref := range target.DependencyRefs {
		dependency, ok := w.graph.TargetDependency(ref)
		if !ok || dependency.TargetRef == "" {
			w.logger.Warn().Str("target", target.Name).Str("dependency", ref).Msg("skipping unresolvable dependency")
			continue
		}
		child, err := w.visit(dependency.TargetRef)
		if err != nil {
			return nil, err
		}
		if child == nil {
			w.logger.Warn().Str("target", target.Name).Str("dependency", dependency.TargetRef).Msg("skipping dependency on unknown target")
			continue
		}
		node.Children = append(node.Children, child)
	}
	w.built[id] = node
	return node, nil
}

func (w *treeWalk) cycleError(start int, id string) error {
	names := make([]string, 0, len(w.path)-start+1)
	for _, step := range w.path[start:] {
		names = append(names, w.targetName(step))
	}
	names = append(names, w.targetName(id))
	return types.Fail(types.ErrCyclicDependency, "cyclic target dependency",
		"cycle", strings.Join(names, " -> "),
		"configuration", w.configuration,
	)
}

func (w *treeWalk) targetName(id string) string {
	if target, ok := w.graph.Target(id); ok && target.Name != "" {
		return target.Name
	}
	return id
}

// settingsFor merges, lowest first: the project configuration of the same
// name, then the target configuration. Each configuration contributes its
// base configuration file followed by its own settings.
func (w *treeWalk) settingsFor(target types.Target) map[string]any {
	configuration, ok := w.graph.ConfigurationNamed(target.ConfigurationListRef, w.configuration)
	if !ok {
		w.logger.Debug().
			Str("target", target.Name).
			Str("configuration", w.configuration).
			Msg("target has no matching configuration")
		return map[string]any{}
	}
	merged := map[string]any{}
	if project, ok := w.graph.Project(); ok {
		if projectConfiguration, ok := w.graph.ConfigurationNamed(project.ConfigurationListRef, w.configuration); ok {
			mergeLayer(merged, w.configurationSettings(projectConfiguration, target.Name))
		}
	}
	mergeLayer(merged, w.configurationSettings(configuration, target.Name))
	return merged
}

func (w *treeWalk) configurationSettings(configuration types.Configuration, targetName string) map[string]any {
	if configuration.BaseConfigurationRef == "" || w.builder.XCConfig == nil {
		return configuration.Settings
	}
	path, ok := w.graph.FilePath(configuration.BaseConfigurationRef)
	if !ok {
		w.logger.Warn().
			Str("target", targetName).
			Str("reference", configuration.BaseConfigurationRef).
			Msg("base configuration file cannot be located, using unmerged settings")
		return configuration.Settings
	}
	table, err := w.builder.XCConfig.LoadSettings(path)
	if err != nil {
		w.logger.Warn().
			Err(err).
			Str("target", targetName).
			Str("path", path).
			Msg("base configuration file unreadable, using unmerged settings")
		return configuration.Settings
	}
	layer := make(map[string]any, len(table)+len(configuration.Settings))
	for key, value := range table {
		layer[key] = SubstituteVariables(value, table)
	}
	mergeLayer(layer, SubstituteSettings(configuration.Settings, table))
	return layer
}

// mergeLayer writes upper over merged. $(inherited) in a string value takes
// the value it replaces.
func mergeLayer(merged map[string]any, upper map[string]any) {
	for key, value := range upper {
		text, ok := value.(string)
		if ok && strings.Contains(text, "$(inherited)") {
			previous, _ := merged[key].(string)
			merged[key] = strings.TrimSpace(strings.ReplaceAll(text, "$(inherited)", previous))
			continue
		}
		merged[key] = value
	}
}
