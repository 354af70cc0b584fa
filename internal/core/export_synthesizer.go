package core

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

var bundleIdentifierPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// ExportSynthesizer turns a resolved dependency tree into the export
// options document.
type ExportSynthesizer struct {
	Entitlements ports.EntitlementsPort
	Policy       ports.ExportPolicyPort
}

func NewExportSynthesizer(entitlements ports.EntitlementsPort, policy ports.ExportPolicyPort) ExportSynthesizer {
	return ExportSynthesizer{
		Entitlements: entitlements,
		Policy:       policy,
	}
}

func (s ExportSynthesizer) Synthesize(ctx context.Context, tree *DependencyTree, method string) (types.ExportDocument, error) {
	logger := log.Ctx(ctx)
	settings := tree.Settings
	team, hasTeam := settings.DevelopmentTeam()
	identity, hasIdentity := settings.CodeSignIdentity()
	style := settings.CodeSignStyle()
	if !hasTeam || !hasIdentity || style == "" {
		return types.ExportDocument{}, types.Fail(types.ErrIncompleteConfiguration, "build configuration is missing signing settings",
			"target", tree.TargetName,
			"team", team,
			"identity", identity,
			"style", style,
		)
	}

	document := types.ExportDocument{
		TeamID:             team,
		SigningStyle:       style,
		SigningCertificate: identity,
	}
	s.Policy.Apply(&document)

	profiles, err := provisioningProfiles(ctx, tree)
	if err != nil {
		return types.ExportDocument{}, err
	}
	document.ProvisioningProfiles = profiles
	document.ICloudContainerEnvironment = s.iCloudContainerEnvironment(ctx, tree)

	resolved, err := s.Policy.ResolveMethod(method)
	if err != nil {
		return types.ExportDocument{}, err
	}
	document.Method = string(resolved)

	if err := ValidateExportDocument(document); err != nil {
		return types.ExportDocument{}, err
	}
	logger.Info().
		Str("target", tree.TargetName).
		Str("method", document.Method).
		Int("profiles", len(document.ProvisioningProfiles)).
		Msg("export options synthesized")
	return document, nil
}

// provisioningProfiles maps bundle ids to profile specifiers across the
// closure. Later nodes overwrite earlier ones.
func provisioningProfiles(ctx context.Context, tree *DependencyTree) (map[string]string, error) {
	profiles := map[string]string{}
	for _, node := range tree.Closure() {
		bundleID, hasBundleID := node.Settings.BundleIdentifier()
		specifier, hasSpecifier := node.Settings.ProvisioningProfileSpecifier()
		if !hasBundleID || !hasSpecifier {
			log.Ctx(ctx).Debug().Str("target", node.TargetName).Msg("target declares no provisioning profile")
			continue
		}
		if !HasPlaceholder(bundleID) && !bundleIdentifierPattern.MatchString(bundleID) {
			return nil, types.Fail(types.ErrInvalidIdentifier, "bundle identifier is not valid",
				"target", node.TargetName,
				"bundle_id", bundleID,
			)
		}
		if node != tree {
			team, hasTeam := node.Settings.DevelopmentTeam()
			identity, hasIdentity := node.Settings.CodeSignIdentity()
			if !hasTeam || !hasIdentity {
				return nil, types.Fail(types.ErrIncompleteConfiguration, "build configuration is missing signing settings",
					"target", node.TargetName,
					"team", team,
					"identity", identity,
					"style", node.Settings.CodeSignStyle(),
				)
			}
		}
		profiles[bundleID] = specifier
	}
	return profiles, nil
}

// iCloudContainerEnvironment reads the root entitlements only. Any failure
// is logged and leaves the value empty.
func (s ExportSynthesizer) iCloudContainerEnvironment(ctx context.Context, tree *DependencyTree) string {
	logger := log.Ctx(ctx)
	path, ok := tree.Settings.EntitlementsPath()
	if !ok || s.Entitlements == nil {
		logger.Warn().
			Str("target", tree.TargetName).
			Msg("iCloud container environment not found; safe to ignore when CloudKit is unused")
		return ""
	}
	path = entitlementsFilePath(path, tree.ProjectDir)
	environment, found, err := s.Entitlements.ICloudContainerEnvironment(path)
	if err != nil || !found {
		logger.Warn().
			Err(err).
			Str("target", tree.TargetName).
			Str("entitlements", path).
			Msg("iCloud container environment not found; safe to ignore when CloudKit is unused")
		return ""
	}
	return environment
}

func entitlementsFilePath(path string, projectDir string) string {
	for _, variable := range []string{"SRCROOT", "PROJECT_DIR", "SOURCE_ROOT"} {
		path = strings.ReplaceAll(path, "$("+variable+")", projectDir)
		path = strings.ReplaceAll(path, "${"+variable+"}", projectDir)
	}
	if filepath.IsAbs(path) || projectDir == "" {
		return path
	}
	return filepath.Join(projectDir, path)
}

// ValidateExportDocument fails when any string value or mapping key of the
// document still holds a $(NAME) placeholder.
func ValidateExportDocument(document types.ExportDocument) error {
	for _, entry := range document.Entries() {
		value := entry.Value
		if profiles, ok := value.(map[string]string); ok {
			converted := make(map[string]any, len(profiles))
			for key, specifier := range profiles {
				converted[key] = specifier
			}
			value = converted
		}
		if err := validateExportValue(string(entry.Key), value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateExportValues applies the placeholder check to a decoded export
// options file.
func ValidateExportValues(values map[string]any) error {
	for _, key := range sortedKeys(values) {
		if err := validateExportValue(key, values[key]); err != nil {
			return err
		}
	}
	return nil
}

func validateExportValue(key string, value any) error {
	switch typed := value.(type) {
	case string:
		if HasPlaceholder(typed) {
			return unresolvedPlaceholderError(key, typed)
		}
	case map[string]any:
		for _, nested := range sortedKeys(typed) {
			if HasPlaceholder(nested) {
				return unresolvedPlaceholderError(key, nested)
			}
			if err := validateExportValue(key+"."+nested, typed[nested]); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range typed {
			if err := validateExportValue(fmt.Sprintf("%s[%d]", key, i), item); err != nil {
				return err
			}
		}
	}
	return nil
}

func unresolvedPlaceholderError(key string, value string) error {
	return types.Fail(types.ErrValidationFailed, "export options contain an unresolved build setting",
		"key", key,
		"value", value,
	)
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
