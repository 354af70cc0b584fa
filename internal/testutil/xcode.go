// Package testutil generates Xcode project fixtures for package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixed object ids used by generated projects.
const (
	RootObjectID        = "ROOT_PROJECT"
	MainGroupID         = "MAIN_GROUP"
	ProjectConfigListID = "ROOT_PROJECT_CONFIG_LIST"
)

type TargetFixture struct {
	ID           string
	Name         string
	ProductType  string
	Dependencies []string
	// Configurations maps a configuration name to its build settings.
	Configurations map[string]map[string]string
	// BaseConfigurations maps a configuration name to a file reference id.
	BaseConfigurations   map[string]string
	DefaultConfiguration string
}

type FileFixture struct {
	ID         string
	Path       string
	SourceTree string
}

type GroupFixture struct {
	ID         string
	Path       string
	SourceTree string
	Children   []string
}

type ProjectFixture struct {
	Targets                   []TargetFixture
	Configurations            map[string]map[string]string
	BaseConfigurations        map[string]string
	DefaultConfiguration      string
	Files                     []FileFixture
	Groups                    []GroupFixture
	DanglingDependencyTargets map[string][]string
}

// WriteProject writes <dir>/<name>.xcodeproj/project.pbxproj and returns the
// bundle path.
func WriteProject(t *testing.T, dir string, name string, fixture ProjectFixture) string {
	t.Helper()
	bundle := filepath.Join(dir, name+".xcodeproj")
	WriteFile(t, filepath.Join(bundle, "project.pbxproj"), RenderProject(fixture))
	return bundle
}

// RenderProject renders the fixture as an OpenStep property list in the
// layout Xcode writes.
func RenderProject(fixture ProjectFixture) string {
	var objects []string
	add := func(id string, fields [][2]string) {
		objects = append(objects, renderObject(id, fields))
	}

	targetIDs := make([]string, 0, len(fixture.Targets))
	for _, target := range fixture.Targets {
		targetIDs = append(targetIDs, target.ID)
		listID := target.ID + "_CONFIG_LIST"
		configIDs := renderConfigurations(add, target.ID, target.Configurations, target.BaseConfigurations)
		add(listID, [][2]string{
			{"isa", quote("XCConfigurationList")},
			{"buildConfigurations", quoteList(configIDs)},
			{"defaultConfigurationName", quote(defaultName(target.DefaultConfiguration, target.Configurations))},
		})
		var dependencyIDs []string
		for _, dependency := range target.Dependencies {
			id := "DEP_" + target.ID + "_" + dependency
			dependencyIDs = append(dependencyIDs, id)
			add(id, [][2]string{
				{"isa", quote("PBXTargetDependency")},
				{"target", quote(dependency)},
			})
		}
		dependencyIDs = append(dependencyIDs, fixture.DanglingDependencyTargets[target.ID]...)
		productType := target.ProductType
		if productType == "" {
			productType = "com.apple.product-type.application"
		}
		add(target.ID, [][2]string{
			{"isa", quote("PBXNativeTarget")},
			{"buildConfigurationList", quote(listID)},
			{"dependencies", quoteList(dependencyIDs)},
			{"name", quote(target.Name)},
			{"productType", quote(productType)},
		})
	}

	configIDs := renderConfigurations(add, RootObjectID, fixture.Configurations, fixture.BaseConfigurations)
	add(ProjectConfigListID, [][2]string{
		{"isa", quote("XCConfigurationList")},
		{"buildConfigurations", quoteList(configIDs)},
		{"defaultConfigurationName", quote(defaultName(fixture.DefaultConfiguration, fixture.Configurations))},
	})

	grouped := map[string]struct{}{}
	for _, group := range fixture.Groups {
		for _, child := range group.Children {
			grouped[child] = struct{}{}
		}
	}
	var mainChildren []string
	for _, file := range fixture.Files {
		add(file.ID, [][2]string{
			{"isa", quote("PBXFileReference")},
			{"path", quote(file.Path)},
			{"sourceTree", quote(sourceTree(file.SourceTree))},
		})
		if _, ok := grouped[file.ID]; !ok {
			mainChildren = append(mainChildren, file.ID)
		}
	}
	for _, group := range fixture.Groups {
		add(group.ID, [][2]string{
			{"isa", quote("PBXGroup")},
			{"children", quoteList(group.Children)},
			{"path", quote(group.Path)},
			{"sourceTree", quote(sourceTree(group.SourceTree))},
		})
		if _, ok := grouped[group.ID]; !ok {
			mainChildren = append(mainChildren, group.ID)
		}
	}
	add(MainGroupID, [][2]string{
		{"isa", quote("PBXGroup")},
		{"children", quoteList(mainChildren)},
		{"sourceTree", quote("<group>")},
	})
	add(RootObjectID, [][2]string{
		{"isa", quote("PBXProject")},
		{"buildConfigurationList", quote(ProjectConfigListID)},
		{"mainGroup", quote(MainGroupID)},
		{"projectDirPath", quote("")},
		{"targets", quoteList(targetIDs)},
	})

	var b strings.Builder
	b.WriteString("// !$*UTF8*$!\n{\n")
	b.WriteString("\tarchiveVersion = 1;\n\tclasses = {\n\t};\n\tobjectVersion = 54;\n")
	b.WriteString("\tobjects = {\n")
	for _, object := range objects {
		b.WriteString(object)
	}
	b.WriteString("\t};\n")
	fmt.Fprintf(&b, "\trootObject = %s;\n", quote(RootObjectID))
	b.WriteString("}\n")
	return b.String()
}

func renderConfigurations(add func(string, [][2]string), owner string, configurations map[string]map[string]string, bases map[string]string) []string {
	names := sortedKeys(configurations)
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id := owner + "_CONFIG_" + name
		ids = append(ids, id)
		fields := [][2]string{{"isa", quote("XCBuildConfiguration")}}
		if base := bases[name]; base != "" {
			fields = append(fields, [2]string{"baseConfigurationReference", quote(base)})
		}
		fields = append(fields,
			[2]string{"buildSettings", renderSettings(configurations[name])},
			[2]string{"name", quote(name)},
		)
		add(id, fields)
	}
	return ids
}

func renderObject(id string, fields [][2]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\t\t%s = {\n", quote(id))
	for _, field := range fields {
		fmt.Fprintf(&b, "\t\t\t%s = %s;\n", quote(field[0]), field[1])
	}
	b.WriteString("\t\t};\n")
	return b.String()
}

func renderSettings(settings map[string]string) string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, key := range sortedKeys(settings) {
		fmt.Fprintf(&b, "\t\t\t\t%s = %s;\n", quote(key), quote(settings[key]))
	}
	b.WriteString("\t\t\t}")
	return b.String()
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

func quoteList(values []string) string {
	if len(values) == 0 {
		return "(\n\t\t\t)"
	}
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, "\t\t\t\t"+quote(value))
	}
	return "(\n" + strings.Join(quoted, ",\n") + "\n\t\t\t)"
}

func defaultName(name string, configurations map[string]map[string]string) string {
	if name != "" {
		return name
	}
	if _, ok := configurations["Release"]; ok {
		return "Release"
	}
	names := sortedKeys(configurations)
	if len(names) == 0 {
		return "Release"
	}
	return names[0]
}

func sourceTree(tree string) string {
	if tree == "" {
		return "<group>"
	}
	return tree
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SchemeFixture describes the single application reference of a scheme.
type SchemeFixture struct {
	BuildableName        string
	BlueprintIdentifier  string
	BlueprintName        string
	ArchiveConfiguration string
	// ExtraReferences are written before the application reference.
	ExtraReferences [][3]string
}

// WriteScheme writes a shared scheme into the project bundle and returns
// its path.
func WriteScheme(t *testing.T, projectPath string, name string, fixture SchemeFixture) string {
	t.Helper()
	path := filepath.Join(projectPath, "xcshareddata", "xcschemes", name+".xcscheme")
	WriteFile(t, path, RenderScheme(filepath.Base(projectPath), fixture))
	return path
}

func RenderScheme(container string, fixture SchemeFixture) string {
	var entries strings.Builder
	reference := func(buildableName string, blueprintID string, blueprintName string) {
		fmt.Fprintf(&entries, `         <BuildActionEntry buildForArchiving = "YES">
            <BuildableReference
               BuildableIdentifier = "primary"
               BlueprintIdentifier = "%s"
               BuildableName = "%s"
               BlueprintName = "%s"
               ReferencedContainer = "container:%s">
            </BuildableReference>
         </BuildActionEntry>
`, blueprintID, buildableName, blueprintName, container)
	}
	for _, extra := range fixture.ExtraReferences {
		reference(extra[0], extra[1], extra[2])
	}
	if fixture.BuildableName != "" {
		reference(fixture.BuildableName, fixture.BlueprintIdentifier, fixture.BlueprintName)
	}
	archive := fixture.ArchiveConfiguration
	if archive == "" {
		archive = "Release"
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Scheme
   LastUpgradeVersion = "1510"
   version = "1.3">
   <BuildAction
      parallelizeBuildables = "YES"
      buildImplicitDependencies = "YES">
      <BuildActionEntries>
%s      </BuildActionEntries>
   </BuildAction>
   <ArchiveAction
      buildConfiguration = "%s"
      revealArchiveInOrganizer = "YES">
   </ArchiveAction>
</Scheme>
`, entries.String(), archive)
}

// WriteWorkspace writes <dir>/<name>.xcworkspace with one FileRef per
// location and returns the bundle path.
func WriteWorkspace(t *testing.T, dir string, name string, locations ...string) string {
	t.Helper()
	bundle := filepath.Join(dir, name+".xcworkspace")
	var refs strings.Builder
	for _, location := range locations {
		fmt.Fprintf(&refs, "   <FileRef\n      location = \"%s\">\n   </FileRef>\n", location)
	}
	WriteFile(t, filepath.Join(bundle, "contents.xcworkspacedata"), fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Workspace
   version = "1.0">
%s</Workspace>
`, refs.String()))
	return bundle
}

// WriteEntitlements writes an XML plist with the given string entries.
func WriteEntitlements(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	var body strings.Builder
	for _, key := range sortedKeys(entries) {
		fmt.Fprintf(&body, "\t<key>%s</key>\n\t<string>%s</string>\n", key, entries[key])
	}
	WriteFile(t, path, fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
%s</dict>
</plist>
`, body.String()))
}

func WriteFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// RepoRoot returns the repository root for tests running two levels below
// it.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}
