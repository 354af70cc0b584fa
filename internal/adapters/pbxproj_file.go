package adapters

import (
	"os"
	"path/filepath"

	"howett.net/plist"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

const pbxprojFileName = "project.pbxproj"

type PBXProjFileAdapter struct{}

func NewPBXProjFileAdapter() PBXProjFileAdapter {
	return PBXProjFileAdapter{}
}

type pbxprojDocument struct {
	RootObject string                    `plist:"rootObject"`
	Objects    map[string]map[string]any `plist:"objects"`
}

// LoadProject accepts either the .xcodeproj bundle or the project.pbxproj
// file inside it.
func (a PBXProjFileAdapter) LoadProject(path string) (types.ProjectGraph, error) {
	bundle, file := projectFilePaths(path)
	data, err := os.ReadFile(file)
	if err != nil {
		return types.ProjectGraph{}, projectFileError(path, err)
	}
	var document pbxprojDocument
	if _, err := plist.Unmarshal(data, &document); err != nil {
		return types.ProjectGraph{}, projectFileError(path, err)
	}
	if document.RootObject == "" || document.Objects == nil {
		return types.ProjectGraph{}, projectFileError(path, nil)
	}
	graph := types.ProjectGraph{
		Path:       bundle,
		RootObject: document.RootObject,
		Objects:    make(map[string]types.GraphObject, len(document.Objects)),
	}
	for id, fields := range document.Objects {
		object, ok := decodeGraphObject(id, fields)
		if !ok {
			continue
		}
		graph.Objects[id] = object
	}
	return graph, nil
}

func projectFilePaths(path string) (string, string) {
	if filepath.Base(path) == pbxprojFileName {
		return filepath.Dir(path), path
	}
	return path, filepath.Join(path, pbxprojFileName)
}

func projectFileError(path string, cause error) error {
	return types.FailWithCause(types.ErrNotFound, cause, "project file not found or malformed", "path", path)
}

func decodeGraphObject(id string, fields map[string]any) (types.GraphObject, bool) {
	switch stringField(fields, "isa") {
	case "PBXProject":
		return types.Project{
			ID:                   id,
			TargetRefs:           stringsField(fields, "targets"),
			ConfigurationListRef: stringField(fields, "buildConfigurationList"),
			MainGroupRef:         stringField(fields, "mainGroup"),
			ProjectDirPath:       stringField(fields, "projectDirPath"),
		}, true
	case "PBXNativeTarget", "PBXAggregateTarget", "PBXLegacyTarget":
		return types.Target{
			ID:                   id,
			Name:                 stringField(fields, "name"),
			ProductType:          stringField(fields, "productType"),
			DependencyRefs:       stringsField(fields, "dependencies"),
			ConfigurationListRef: stringField(fields, "buildConfigurationList"),
		}, true
	case "PBXTargetDependency":
		return types.TargetDependency{
			ID:        id,
			TargetRef: stringField(fields, "target"),
		}, true
	case "XCConfigurationList":
		return types.ConfigurationList{
			ID:                       id,
			ConfigurationRefs:        stringsField(fields, "buildConfigurations"),
			DefaultConfigurationName: stringField(fields, "defaultConfigurationName"),
		}, true
	case "XCBuildConfiguration":
		settings, _ := fields["buildSettings"].(map[string]any)
		if settings == nil {
			settings = map[string]any{}
		}
		return types.Configuration{
			ID:                   id,
			Name:                 stringField(fields, "name"),
			Settings:             settings,
			BaseConfigurationRef: stringField(fields, "baseConfigurationReference"),
		}, true
	case "PBXFileReference":
		return types.FileReference{
			ID:         id,
			Path:       stringField(fields, "path"),
			Name:       stringField(fields, "name"),
			SourceTree: stringField(fields, "sourceTree"),
		}, true
	case "PBXGroup", "PBXVariantGroup", "XCVersionGroup":
		return types.Group{
			ID:         id,
			Path:       stringField(fields, "path"),
			Name:       stringField(fields, "name"),
			SourceTree: stringField(fields, "sourceTree"),
			ChildRefs:  stringsField(fields, "children"),
		}, true
	default:
		return nil, false
	}
}

func stringField(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}

func stringsField(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if value, ok := item.(string); ok {
			values = append(values, value)
		}
	}
	return values
}

var _ ports.ProjectFilePort = PBXProjFileAdapter{}
