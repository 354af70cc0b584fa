package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcsign/internal/adapters"
	"xcsign/internal/types"
)

func sampleDocument(method string) types.ExportDocument {
	return types.ExportDocument{
		TeamID:             "ABCDE12345",
		SigningStyle:       "manual",
		SigningCertificate: "iPhone Distribution",
		UploadBitcode:      false,
		CompileBitcode:     true,
		UploadSymbols:      true,
		ProvisioningProfiles: map[string]string{
			"com.example.app":           "App Store Profile",
			"com.example.app.extension": "Extension Profile",
		},
		ICloudContainerEnvironment: "Production",
		Method:                     method,
	}
}

func TestExportWritesDocumentForTarget(t *testing.T) {
	sample := writeSampleApp(t, nil)
	service := newTestService(t)

	result, err := service.Export(t.Context(), ExportRequest{
		ShellScript:        "xcodebuild archive -project App.xcodeproj -target App -configuration Release -sdk iphoneos17.2 -exportOptionsPlist build/ExportOptions.plist",
		DistributionMethod: "app-store",
		WorkDir:            sample.Dir,
	})
	require.NoError(t, err)

	wantPath := filepath.Join(sample.Dir, "build", "ExportOptions.plist")
	assert.Equal(t, wantPath, result.ExportPath)
	assert.False(t, result.DefaultPath)
	assert.Empty(t, result.Hints)
	if diff := cmp.Diff(sampleDocument("app-store"), result.Document); diff != "" {
		t.Fatalf("unexpected document (-want +got):\n%s", diff)
	}
	wantEntry := EntrySummary{
		Shape:         types.EntryShapeTarget,
		Project:       sample.Project,
		Target:        "App",
		Configuration: "Release",
		SDK:           "iphoneos",
	}
	if diff := cmp.Diff(wantEntry, result.Entry); diff != "" {
		t.Fatalf("unexpected entry (-want +got):\n%s", diff)
	}

	written, err := adapters.NewOutputReaderAdapter().ReadExportDocument(wantPath)
	require.NoError(t, err)
	assert.Equal(t, "ABCDE12345", written["teamID"])
	assert.Equal(t, "app-store", written["method"])
	assert.Equal(t, map[string]any{
		"com.example.app":           "App Store Profile",
		"com.example.app.extension": "Extension Profile",
	}, written["provisioningProfiles"])
}

func TestExportThroughWorkspaceUsesDefaultPath(t *testing.T) {
	sample := writeSampleApp(t, nil)
	service := newTestService(t)

	result, err := service.Export(t.Context(), ExportRequest{
		ShellScript:        "xcodebuild archive -workspace App.xcworkspace -scheme App",
		DistributionMethod: "appstore",
		WorkDir:            sample.Dir,
	})
	require.NoError(t, err)

	assert.True(t, result.DefaultPath)
	assert.Equal(t, filepath.Join(sample.Dir, "ExportOptionsPlists", "exportOption.plist"), result.ExportPath)
	assert.Equal(t, types.EntryShapeScheme, result.Entry.Shape)
	assert.Equal(t, "App", result.Entry.Scheme)
	assert.Equal(t, "app-store", result.Document.Method)
	require.Len(t, result.Hints, 2)
	assert.Contains(t, result.Hints[0], "names no export options path")
	assert.Contains(t, result.Hints[1], "legacy spelling")

	_, err = os.Stat(result.ExportPath)
	require.NoError(t, err)
}

func TestExportDryRunWritesNothing(t *testing.T) {
	sample := writeSampleApp(t, nil)
	service := newTestService(t)

	result, err := service.Export(t.Context(), ExportRequest{
		ShellScript:        "xcodebuild archive -project App.xcodeproj -scheme App -exportOptionsPlist out.plist",
		DistributionMethod: "ad-hoc",
		WorkDir:            sample.Dir,
		DryRun:             true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ad-hoc", result.Document.Method)

	_, err = os.Stat(filepath.Join(sample.Dir, "out.plist"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportSDKOverrideHint(t *testing.T) {
	sample := writeSampleApp(t, nil)
	service := newTestService(t)

	result, err := service.Export(t.Context(), ExportRequest{
		ShellScript:        "xcodebuild archive -project App.xcodeproj -target App -sdk iphoneos -exportOptionsPlist out.plist",
		DistributionMethod: "app-store",
		SDK:                "iphoneos",
		WorkDir:            sample.Dir,
		DryRun:             true,
	})
	require.NoError(t, err)
	require.Len(t, result.Hints, 1)
	assert.Contains(t, result.Hints[0], "--sdk")
}

func TestExportRequiresInputs(t *testing.T) {
	service := newTestService(t)

	_, err := service.Export(t.Context(), ExportRequest{ShellScript: "xcodebuild archive -project App.xcodeproj -target App"})
	require.Error(t, err)

	_, err = service.Export(t.Context(), ExportRequest{DistributionMethod: "app-store"})
	require.Error(t, err)
}

func TestExportFailureWritesNoDocument(t *testing.T) {
	sample := writeSampleApp(t, map[string]string{"CODE_SIGN_IDENTITY[sdk=iphoneos*]": ""})
	service := newTestService(t)

	_, err := service.Export(t.Context(), ExportRequest{
		ShellScript:        "xcodebuild archive -project App.xcodeproj -target App -exportOptionsPlist out.plist",
		DistributionMethod: "app-store",
		WorkDir:            sample.Dir,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrIncompleteConfiguration))

	_, statErr := os.Stat(filepath.Join(sample.Dir, "out.plist"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportMissingProject(t *testing.T) {
	service := newTestService(t)
	_, err := service.Export(t.Context(), ExportRequest{
		ShellScript:        "xcodebuild archive -project Missing.xcodeproj -target App",
		DistributionMethod: "app-store",
		WorkDir:            t.TempDir(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestExportUndefinedSettingFailsValidation(t *testing.T) {
	sample := writeSampleApp(t, map[string]string{"PRODUCT_BUNDLE_IDENTIFIER": "$(BUNDLE_PREFIX).app$(APP_SUFFIX)"})
	service := newTestService(t)

	_, err := service.Export(t.Context(), ExportRequest{
		ShellScript:        "xcodebuild archive -project App.xcodeproj -target App -exportOptionsPlist out.plist",
		DistributionMethod: "app-store",
		WorkDir:            sample.Dir,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrValidationFailed))

	value, ok := types.Detail(err, "value")
	require.True(t, ok)
	assert.Equal(t, "com.example.app$(APP_SUFFIX)", value)

	_, statErr := os.Stat(filepath.Join(sample.Dir, "out.plist"))
	assert.True(t, os.IsNotExist(statErr))
}
