package types

import "path/filepath"

// GraphObject is one entry of the project object table. The concrete
// variants below mirror the isa kinds the resolver understands.
type GraphObject interface {
	ObjectID() string
}

type Project struct {
	ID                   string
	TargetRefs           []string
	ConfigurationListRef string
	MainGroupRef         string
	ProjectDirPath       string
}

type Target struct {
	ID                   string
	Name                 string
	ProductType          string
	DependencyRefs       []string
	ConfigurationListRef string
}

type TargetDependency struct {
	ID        string
	TargetRef string
}

type ConfigurationList struct {
	ID                       string
	ConfigurationRefs        []string
	DefaultConfigurationName string
}

type Configuration struct {
	ID                   string
	Name                 string
	Settings             map[string]any
	BaseConfigurationRef string
}

type FileReference struct {
	ID         string
	Path       string
	Name       string
	SourceTree string
}

type Group struct {
	ID         string
	Path       string
	Name       string
	SourceTree string
	ChildRefs  []string
}

func (p Project) ObjectID() string           { return p.ID }
func (t Target) ObjectID() string            { return t.ID }
func (d TargetDependency) ObjectID() string  { return d.ID }
func (l ConfigurationList) ObjectID() string { return l.ID }
func (c Configuration) ObjectID() string     { return c.ID }
func (f FileReference) ObjectID() string     { return f.ID }
func (g Group) ObjectID() string             { return g.ID }

// ProjectGraph is the id-indexed object table of a project description.
// References between objects are plain ids; lookups never assume that a
// referenced id exists.
type ProjectGraph struct {
	// Path is the .xcodeproj bundle the graph was read from.
	Path       string
	RootObject string
	Objects    map[string]GraphObject
}

func (g ProjectGraph) Project() (Project, bool) {
	project, ok := g.Objects[g.RootObject].(Project)
	return project, ok
}

func (g ProjectGraph) Target(id string) (Target, bool) {
	target, ok := g.Objects[id].(Target)
	return target, ok
}

func (g ProjectGraph) TargetDependency(id string) (TargetDependency, bool) {
	dependency, ok := g.Objects[id].(TargetDependency)
	return dependency, ok
}

func (g ProjectGraph) ConfigurationList(id string) (ConfigurationList, bool) {
	list, ok := g.Objects[id].(ConfigurationList)
	return list, ok
}

func (g ProjectGraph) Configuration(id string) (Configuration, bool) {
	configuration, ok := g.Objects[id].(Configuration)
	return configuration, ok
}

func (g ProjectGraph) FileReference(id string) (FileReference, bool) {
	ref, ok := g.Objects[id].(FileReference)
	return ref, ok
}

func (g ProjectGraph) Group(id string) (Group, bool) {
	group, ok := g.Objects[id].(Group)
	return group, ok
}

// TargetNamed searches the root project's target list for a target with
// the given name.
func (g ProjectGraph) TargetNamed(name string) (Target, bool) {
	project, ok := g.Project()
	if !ok {
		return Target{}, false
	}
	for _, ref := range project.TargetRefs {
		target, ok := g.Target(ref)
		if ok && target.Name == name {
			return target, true
		}
	}
	return Target{}, false
}

// ConfigurationNamed returns the configuration called name from the list
// with the given id.
func (g ProjectGraph) ConfigurationNamed(listID string, name string) (Configuration, bool) {
	list, ok := g.ConfigurationList(listID)
	if !ok {
		return Configuration{}, false
	}
	for _, ref := range list.ConfigurationRefs {
		configuration, ok := g.Configuration(ref)
		if ok && configuration.Name == name {
			return configuration, true
		}
	}
	return Configuration{}, false
}

// ProjectDir is the directory holding the .xcodeproj bundle, which Xcode
// calls SRCROOT.
func (g ProjectGraph) ProjectDir() string {
	dir := filepath.Dir(g.Path)
	if project, ok := g.Project(); ok && project.ProjectDirPath != "" {
		if filepath.IsAbs(project.ProjectDirPath) {
			return project.ProjectDirPath
		}
		return filepath.Join(dir, project.ProjectDirPath)
	}
	return dir
}

// FilePath resolves a file reference to a filesystem path, following
// group membership for group-relative references.
func (g ProjectGraph) FilePath(refID string) (string, bool) {
	ref, ok := g.FileReference(refID)
	if !ok || ref.Path == "" {
		return "", false
	}
	switch ref.SourceTree {
	case "<absolute>":
		return ref.Path, true
	case "SOURCE_ROOT", "SRCROOT":
		return filepath.Join(g.ProjectDir(), ref.Path), true
	case "<group>", "":
		parent, ok := g.groupPath(refID, map[string]struct{}{})
		if !ok {
			return filepath.Join(g.ProjectDir(), ref.Path), true
		}
		return filepath.Join(parent, ref.Path), true
	default:
		// Build-setting relative trees such as BUILT_PRODUCTS_DIR do not
		// exist on disk before a build runs.
		return "", false
	}
}

func (g ProjectGraph) groupPath(childID string, seen map[string]struct{}) (string, bool) {
	for id, object := range g.Objects {
		group, ok := object.(Group)
		if !ok || !containsRef(group.ChildRefs, childID) {
			continue
		}
		if _, visited := seen[id]; visited {
			return "", false
		}
		seen[id] = struct{}{}
		switch group.SourceTree {
		case "<absolute>":
			return group.Path, true
		case "SOURCE_ROOT", "SRCROOT":
			return filepath.Join(g.ProjectDir(), group.Path), true
		}
		parent, ok := g.groupPath(id, seen)
		if !ok {
			parent = g.ProjectDir()
		}
		return filepath.Join(parent, group.Path), true
	}
	return "", false
}

func containsRef(refs []string, id string) bool {
	for _, ref := range refs {
		if ref == id {
			return true
		}
	}
	return false
}
