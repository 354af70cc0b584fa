package core

import (
	"fmt"
	"strings"
)

const (
	DefaultSDKPlatform  = "iphoneos"
	DefaultSigningStyle = "manual"

	SettingBundleIdentifier             = "PRODUCT_BUNDLE_IDENTIFIER"
	SettingProvisioningProfileSpecifier = "PROVISIONING_PROFILE_SPECIFIER"
	SettingDevelopmentTeam              = "DEVELOPMENT_TEAM"
	SettingCodeSignIdentity             = "CODE_SIGN_IDENTITY"
	SettingCodeSignStyle                = "CODE_SIGN_STYLE"
	SettingCodeSignEntitlements         = "CODE_SIGN_ENTITLEMENTS"
)

// ResolvedSettings is a read-only view over a target's merged build
// settings for one SDK platform.
type ResolvedSettings struct {
	values   map[string]any
	platform string
}

func NewResolvedSettings(values map[string]any, platform string) ResolvedSettings {
	copied := make(map[string]any, len(values))
	for key, value := range values {
		copied[key] = value
	}
	if strings.TrimSpace(platform) == "" {
		platform = DefaultSDKPlatform
	}
	return ResolvedSettings{values: copied, platform: platform}
}

func (s ResolvedSettings) Platform() string {
	return s.platform
}

func (s ResolvedSettings) Len() int {
	return len(s.values)
}

// Value returns a setting as a string. List-valued settings are joined with
// spaces, the way Xcode expands them.
func (s ResolvedSettings) Value(key string) (string, bool) {
	raw, ok := s.values[key]
	if !ok {
		return "", false
	}
	switch value := raw.(type) {
	case string:
		return value, value != ""
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, fmt.Sprint(item))
		}
		joined := strings.Join(parts, " ")
		return joined, joined != ""
	case nil:
		return "", false
	default:
		text := fmt.Sprint(value)
		return text, text != ""
	}
}

func (s ResolvedSettings) BundleIdentifier() (string, bool) {
	return s.Value(SettingBundleIdentifier)
}

func (s ResolvedSettings) ProvisioningProfileSpecifier() (string, bool) {
	return s.platformValue(SettingProvisioningProfileSpecifier)
}

func (s ResolvedSettings) DevelopmentTeam() (string, bool) {
	return s.platformValue(SettingDevelopmentTeam)
}

func (s ResolvedSettings) CodeSignIdentity() (string, bool) {
	return s.platformValue(SettingCodeSignIdentity)
}

// CodeSignStyle is lower-cased and defaults to manual when unset.
func (s ResolvedSettings) CodeSignStyle() string {
	if value, ok := s.Value(SettingCodeSignStyle); ok {
		return strings.ToLower(value)
	}
	return DefaultSigningStyle
}

func (s ResolvedSettings) EntitlementsPath() (string, bool) {
	return s.Value(SettingCodeSignEntitlements)
}

// Map returns a copy of the merged settings.
func (s ResolvedSettings) Map() map[string]any {
	copied := make(map[string]any, len(s.values))
	for key, value := range s.values {
		copied[key] = value
	}
	return copied
}

// platformValue prefers KEY[sdk=<platform>*] over KEY. Empty values count as
// absent.
func (s ResolvedSettings) platformValue(key string) (string, bool) {
	if value, ok := s.Value(SDKQualifiedKey(key, s.platform)); ok {
		return value, true
	}
	return s.Value(key)
}

func SDKQualifiedKey(key string, platform string) string {
	return fmt.Sprintf("%s[sdk=%s*]", key, platform)
}

// SDKPlatform strips the version from an -sdk value, so iphoneos17.2
// becomes iphoneos.
func SDKPlatform(sdk string) string {
	platform := strings.ToLower(strings.TrimSpace(sdk))
	return strings.TrimRight(platform, "0123456789.")
}
