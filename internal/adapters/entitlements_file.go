package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"howett.net/plist"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

const iCloudContainerEnvironmentKey = "com.apple.developer.icloud-container-environment"

type EntitlementsFileAdapter struct{}

func NewEntitlementsFileAdapter() EntitlementsFileAdapter {
	return EntitlementsFileAdapter{}
}

func (a EntitlementsFileAdapter) ICloudContainerEnvironment(path string) (string, bool, error) {
	entitlements, err := a.load(path)
	if err != nil {
		return "", false, err
	}
	switch value := entitlements[iCloudContainerEnvironmentKey].(type) {
	case string:
		return value, value != "", nil
	case []any:
		for _, item := range value {
			if text, ok := item.(string); ok && text != "" {
				return text, true, nil
			}
		}
	}
	return "", false, nil
}

func (a EntitlementsFileAdapter) load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.FailWithCause(types.ErrNotFound, err, "entitlements file not found",
			"path", path,
		)
	}
	entitlements := map[string]any{}
	if _, err := plist.Unmarshal(data, &entitlements); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid entitlements file: " + path).
			WithCause(err)
	}
	return entitlements, nil
}

var _ ports.EntitlementsPort = EntitlementsFileAdapter{}
