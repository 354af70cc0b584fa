package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcsign/internal/types"
)

func entryFor(graph types.ProjectGraph, targetID string, configuration string) types.Entry {
	target, _ := graph.Target(targetID)
	return types.Entry{
		Shape:             types.EntryShapeTarget,
		ProjectPath:       graph.Path,
		Graph:             graph,
		TargetID:          targetID,
		TargetName:        target.Name,
		ConfigurationName: configuration,
	}
}

func closureNames(tree *DependencyTree) []string {
	var names []string
	for _, node := range tree.Closure() {
		names = append(names, node.TargetName)
	}
	return names
}

func TestDependencyTreeClosureOrder(t *testing.T) {
	graph := newTestGraph(testProjectPath).
		target("APP", "App", "EXT", "WIDGET").
		target("EXT", "Extension", "SHARED").
		target("WIDGET", "Widget", "SHARED").
		target("SHARED", "Shared").
		graph

	tree, err := NewDependencyTreeBuilder(nil, "").Build(t.Context(), entryFor(graph, "APP", "Release"))
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"App", "Extension", "Shared", "Widget"}, closureNames(tree)); diff != "" {
		t.Fatalf("unexpected closure (-want +got):\n%s", diff)
	}
	require.Len(t, tree.Children, 2)
	assert.Same(t, tree.Children[0].Children[0], tree.Children[1].Children[0])
	assert.Equal(t, "/work", tree.ProjectDir)
	assert.Equal(t, "/work", tree.Children[1].ProjectDir)
}

func TestDependencyTreeDetectsCycles(t *testing.T) {
	tests := []struct {
		name  string
		graph types.ProjectGraph
		root  string
		cycle string
	}{
		{
			name: "two targets",
			graph: newTestGraph(testProjectPath).
				target("A", "Alpha", "B").
				target("B", "Beta", "A").
				graph,
			root:  "A",
			cycle: "Alpha -> Beta -> Alpha",
		},
		{
			name: "self dependency",
			graph: newTestGraph(testProjectPath).
				target("A", "Alpha", "A").
				graph,
			root:  "A",
			cycle: "Alpha -> Alpha",
		},
		{
			name: "cycle below the root",
			graph: newTestGraph(testProjectPath).
				target("APP", "App", "B").
				target("B", "Beta", "C").
				target("C", "Gamma", "B").
				graph,
			root:  "APP",
			cycle: "Beta -> Gamma -> Beta",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDependencyTreeBuilder(nil, "").Build(t.Context(), entryFor(tt.graph, tt.root, "Release"))
			require.Error(t, err)
			require.True(t, errors.Is(err, types.ErrCyclicDependency))
			cycle, ok := types.Detail(err, "cycle")
			require.True(t, ok)
			assert.Equal(t, tt.cycle, cycle)
		})
	}
}

func TestDependencyTreeSkipsUnresolvableDependencies(t *testing.T) {
	graph := newTestGraph(testProjectPath).
		target("APP", "App", "GONE", "EXT").
		target("EXT", "Extension").
		danglingDependency("APP", "NO_SUCH_OBJECT").
		graph

	tree, err := NewDependencyTreeBuilder(nil, "").Build(t.Context(), entryFor(graph, "APP", "Release"))
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"App", "Extension"}, closureNames(tree)); diff != "" {
		t.Fatalf("unexpected closure (-want +got):\n%s", diff)
	}
}

func TestDependencyTreeMissingRoot(t *testing.T) {
	graph := newTestGraph(testProjectPath).target("APP", "App").graph
	entry := entryFor(graph, "APP", "Release")
	entry.TargetID = "MISSING"

	_, err := NewDependencyTreeBuilder(nil, "").Build(t.Context(), entry)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestDependencyTreeMergesProjectAndTargetSettings(t *testing.T) {
	graph := newTestGraph(testProjectPath).
		target("APP", "App", "EXT").
		target("EXT", "Extension").
		projectConfiguration("Release", map[string]any{
			"DEVELOPMENT_TEAM":   "TEAM",
			"CODE_SIGN_IDENTITY": "Apple Distribution",
			"OTHER_FLAGS":        "-project",
		}).
		projectConfiguration("Debug", map[string]any{
			"DEVELOPMENT_TEAM": "DEBUG_TEAM",
		}).
		targetConfiguration("APP", "Release", map[string]any{
			"PRODUCT_BUNDLE_IDENTIFIER": "com.example.app",
			"CODE_SIGN_IDENTITY":        "iPhone Distribution",
			"OTHER_FLAGS":               "$(inherited) -target",
		}).
		targetConfiguration("APP", "Debug", map[string]any{
			"PRODUCT_BUNDLE_IDENTIFIER": "com.example.app.debug",
		}).
		graph

	tree, err := NewDependencyTreeBuilder(nil, "").Build(t.Context(), entryFor(graph, "APP", "Release"))
	require.NoError(t, err)

	want := map[string]any{
		"DEVELOPMENT_TEAM":          "TEAM",
		"CODE_SIGN_IDENTITY":        "iPhone Distribution",
		"OTHER_FLAGS":               "-project -target",
		"PRODUCT_BUNDLE_IDENTIFIER": "com.example.app",
	}
	if diff := cmp.Diff(want, tree.Settings.Map()); diff != "" {
		t.Fatalf("unexpected settings (-want +got):\n%s", diff)
	}

	// The extension has no Release configuration of its own.
	require.Len(t, tree.Children, 1)
	assert.Equal(t, 0, tree.Children[0].Settings.Len())
}

func TestDependencyTreeAppliesBaseConfiguration(t *testing.T) {
	graph := newTestGraph(testProjectPath).
		target("APP", "App").
		file("XCCONFIG", "/work/Config/Release.xcconfig").
		configure("APP_LIST", "Release", map[string]any{
			"PRODUCT_BUNDLE_IDENTIFIER": "$(BUNDLE_PREFIX).app",
			"SWIFT_FLAGS":               []any{"$(FLAG)", "-Onone"},
			"PRODUCT_NAME":              "$(TARGET_NAME)",
		}, "XCCONFIG").
		graph
	xcconfig := fakeXCConfig{tables: map[string]map[string]string{
		"/work/Config/Release.xcconfig": {
			"BUNDLE_PREFIX":    "com.example",
			"DEVELOPMENT_TEAM": "$(TEAM_ID)",
			"TEAM_ID":          "ABCDE12345",
			"FLAG":             "-DRELEASE",
		},
	}}

	tree, err := NewDependencyTreeBuilder(xcconfig, "").Build(t.Context(), entryFor(graph, "APP", "Release"))
	require.NoError(t, err)

	want := map[string]any{
		"BUNDLE_PREFIX":             "com.example",
		"DEVELOPMENT_TEAM":          "ABCDE12345",
		"TEAM_ID":                   "ABCDE12345",
		"FLAG":                      "-DRELEASE",
		"PRODUCT_BUNDLE_IDENTIFIER": "com.example.app",
		"SWIFT_FLAGS":               []any{"-DRELEASE", "-Onone"},
		"PRODUCT_NAME":              "$(TARGET_NAME)",
	}
	if diff := cmp.Diff(want, tree.Settings.Map()); diff != "" {
		t.Fatalf("unexpected settings (-want +got):\n%s", diff)
	}
}

func TestDependencyTreeUnreadableBaseConfiguration(t *testing.T) {
	graph := newTestGraph(testProjectPath).
		target("APP", "App").
		file("XCCONFIG", "/work/Config/Missing.xcconfig").
		configure("APP_LIST", "Release", map[string]any{
			"PRODUCT_BUNDLE_IDENTIFIER": "$(BUNDLE_PREFIX).app",
		}, "XCCONFIG").
		graph

	builder := NewDependencyTreeBuilder(fakeXCConfig{}, "")
	tree, err := builder.Build(t.Context(), entryFor(graph, "APP", "Release"))
	require.NoError(t, err)

	bundleID, ok := tree.Settings.BundleIdentifier()
	require.True(t, ok)
	assert.Equal(t, "$(BUNDLE_PREFIX).app", bundleID)
}

func TestDependencyTreeUsesSDKPlatform(t *testing.T) {
	graph := newTestGraph(testProjectPath).
		target("APP", "App").
		targetConfiguration("APP", "Release", map[string]any{
			"CODE_SIGN_IDENTITY":              "Apple Development",
			"CODE_SIGN_IDENTITY[sdk=macosx*]": "Developer ID Application",
		}).
		graph

	tree, err := NewDependencyTreeBuilder(nil, "macosx").Build(t.Context(), entryFor(graph, "APP", "Release"))
	require.NoError(t, err)

	identity, ok := tree.Settings.CodeSignIdentity()
	require.True(t, ok)
	assert.Equal(t, "Developer ID Application", identity)
}

func TestMergeLayerInherited(t *testing.T) {
	merged := map[string]any{"FLAGS": "-a"}
	mergeLayer(merged, map[string]any{
		"FLAGS": "$(inherited) -b",
		"NEW":   "$(inherited) -c",
	})
	assert.Equal(t, "-a -b", merged["FLAGS"])
	assert.Equal(t, "-c", merged["NEW"])
}
