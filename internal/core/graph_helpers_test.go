package core

import (
	"errors"
	"path/filepath"

	"xcsign/internal/types"
)

const (
	testProjectID     = "PROJECT"
	testProjectListID = "PROJECT_LIST"
)

// testGraph assembles project graphs by hand. Target configuration lists
// are named <target id>_LIST.
type testGraph struct {
	graph types.ProjectGraph
}

func newTestGraph(path string) *testGraph {
	g := &testGraph{graph: types.ProjectGraph{
		Path:       path,
		RootObject: testProjectID,
		Objects:    map[string]types.GraphObject{},
	}}
	g.graph.Objects[testProjectID] = types.Project{ID: testProjectID, ConfigurationListRef: testProjectListID}
	g.graph.Objects[testProjectListID] = types.ConfigurationList{ID: testProjectListID, DefaultConfigurationName: "Release"}
	return g
}

func (g *testGraph) target(id string, name string, dependencies ...string) *testGraph {
	project := g.graph.Objects[testProjectID].(types.Project)
	project.TargetRefs = append(project.TargetRefs, id)
	g.graph.Objects[testProjectID] = project

	listID := id + "_LIST"
	g.graph.Objects[listID] = types.ConfigurationList{ID: listID, DefaultConfigurationName: "Release"}
	target := types.Target{ID: id, Name: name, ConfigurationListRef: listID}
	for _, dependency := range dependencies {
		dependencyID := "DEP_" + id + "_" + dependency
		g.graph.Objects[dependencyID] = types.TargetDependency{ID: dependencyID, TargetRef: dependency}
		target.DependencyRefs = append(target.DependencyRefs, dependencyID)
	}
	g.graph.Objects[id] = target
	return g
}

// danglingDependency adds a dependency reference that names no object.
func (g *testGraph) danglingDependency(targetID string, ref string) *testGraph {
	target := g.graph.Objects[targetID].(types.Target)
	target.DependencyRefs = append(target.DependencyRefs, ref)
	g.graph.Objects[targetID] = target
	return g
}

func (g *testGraph) configure(listID string, name string, settings map[string]any, baseRef string) *testGraph {
	list := g.graph.Objects[listID].(types.ConfigurationList)
	id := listID + "_" + name
	list.ConfigurationRefs = append(list.ConfigurationRefs, id)
	g.graph.Objects[listID] = list
	g.graph.Objects[id] = types.Configuration{
		ID:                   id,
		Name:                 name,
		Settings:             settings,
		BaseConfigurationRef: baseRef,
	}
	return g
}

func (g *testGraph) targetConfiguration(targetID string, name string, settings map[string]any) *testGraph {
	return g.configure(targetID+"_LIST", name, settings, "")
}

func (g *testGraph) projectConfiguration(name string, settings map[string]any) *testGraph {
	return g.configure(testProjectListID, name, settings, "")
}

func (g *testGraph) file(id string, path string) *testGraph {
	g.graph.Objects[id] = types.FileReference{ID: id, Path: path, SourceTree: "<absolute>"}
	return g
}

func (g *testGraph) defaultConfiguration(listID string, name string) *testGraph {
	list := g.graph.Objects[listID].(types.ConfigurationList)
	list.DefaultConfigurationName = name
	g.graph.Objects[listID] = list
	return g
}

type fakeProjects struct {
	graphs map[string]types.ProjectGraph
}

func (f fakeProjects) LoadProject(path string) (types.ProjectGraph, error) {
	graph, ok := f.graphs[path]
	if !ok {
		return types.ProjectGraph{}, types.Fail(types.ErrNotFound, "project file not found or malformed",
			"path", path,
		)
	}
	return graph, nil
}

type fakeSchemes struct {
	schemes map[string]types.Scheme
}

func (f fakeSchemes) SchemePath(projectPath string, schemeName string) string {
	return filepath.Join(projectPath, "xcshareddata", "xcschemes", schemeName+".xcscheme")
}

func (f fakeSchemes) LoadScheme(path string) (types.Scheme, error) {
	scheme, ok := f.schemes[path]
	if !ok {
		return types.Scheme{}, errors.New("open " + path + ": no such file or directory")
	}
	return scheme, nil
}

type fakeWorkspaces struct {
	projects map[string]string
}

func (f fakeWorkspaces) ProjectPath(workspacePath string) (string, error) {
	project, ok := f.projects[workspacePath]
	if !ok {
		return "", types.Fail(types.ErrNotFound, "workspace references no project",
			"workspace", workspacePath,
		)
	}
	return project, nil
}

type fakeXCConfig struct {
	tables map[string]map[string]string
}

func (f fakeXCConfig) LoadSettings(path string) (map[string]string, error) {
	table, ok := f.tables[path]
	if !ok {
		return nil, errors.New("open " + path + ": no such file or directory")
	}
	return table, nil
}

type fakeEntitlements struct {
	environments map[string]string
	err          error
}

func (f fakeEntitlements) ICloudContainerEnvironment(path string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	environment, ok := f.environments[path]
	return environment, ok, nil
}
