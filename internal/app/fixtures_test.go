package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"xcsign/internal/testutil"
)

// sampleApp is an app with one extension, a shared release xcconfig, a
// shared scheme and a workspace, all under Dir.
type sampleApp struct {
	Dir       string
	Project   string
	Workspace string
}

func writeSampleApp(t *testing.T, appOverrides map[string]string) sampleApp {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "Config", "Release.xcconfig"), `// Shared release settings
BUNDLE_PREFIX = com.example
DEVELOPMENT_TEAM = ABCDE12345
`)
	testutil.WriteEntitlements(t, filepath.Join(dir, "App", "App.entitlements"), map[string]string{
		"com.apple.developer.icloud-container-environment": "Production",
	})

	appSettings := map[string]string{
		"PRODUCT_BUNDLE_IDENTIFIER":                     "$(BUNDLE_PREFIX).app",
		"PROVISIONING_PROFILE_SPECIFIER[sdk=iphoneos*]": "App Store Profile",
		"CODE_SIGN_IDENTITY[sdk=iphoneos*]":             "iPhone Distribution",
		"CODE_SIGN_STYLE":                               "Manual",
		"CODE_SIGN_ENTITLEMENTS":                        "App/App.entitlements",
	}
	for key, value := range appOverrides {
		if value == "" {
			delete(appSettings, key)
			continue
		}
		appSettings[key] = value
	}

	base := map[string]string{"Release": "XCCONFIG_RELEASE"}
	project := testutil.WriteProject(t, dir, "App", testutil.ProjectFixture{
		Configurations: map[string]map[string]string{
			"Debug":   {"CODE_SIGN_STYLE": "Automatic"},
			"Release": {"SWIFT_COMPILATION_MODE": "wholemodule"},
		},
		Files: []testutil.FileFixture{{ID: "XCCONFIG_RELEASE", Path: "Config/Release.xcconfig"}},
		Targets: []testutil.TargetFixture{
			{
				ID:                 "APP",
				Name:               "App",
				Dependencies:       []string{"EXT"},
				BaseConfigurations: base,
				Configurations: map[string]map[string]string{
					"Release": appSettings,
					"Debug":   {"PRODUCT_BUNDLE_IDENTIFIER": "com.example.app.debug"},
				},
			},
			{
				ID:                 "EXT",
				Name:               "Extension",
				ProductType:        "com.apple.product-type.app-extension",
				BaseConfigurations: base,
				Configurations: map[string]map[string]string{
					"Release": {
						"PRODUCT_BUNDLE_IDENTIFIER":      "$(BUNDLE_PREFIX).app.extension",
						"PROVISIONING_PROFILE_SPECIFIER": "Extension Profile",
						"CODE_SIGN_IDENTITY":             "iPhone Distribution",
					},
				},
			},
		},
	})
	testutil.WriteScheme(t, project, "App", testutil.SchemeFixture{
		BuildableName:        "App.app",
		BlueprintIdentifier:  "APP",
		BlueprintName:        "App",
		ArchiveConfiguration: "Release",
		ExtraReferences:      [][3]string{{"Extension.appex", "EXT", "Extension"}},
	})
	workspace := testutil.WriteWorkspace(t, dir, "App", "group:App.xcodeproj", "group:Pods/Pods.xcodeproj")
	return sampleApp{Dir: dir, Project: project, Workspace: workspace}
}

func newTestService(t *testing.T) Service {
	t.Helper()
	service, err := NewService()
	require.NoError(t, err)
	return service
}
