package policies

import (
	"sort"
	"strings"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

var supportedMethods = []types.DistributionMethod{
	types.DistributionMethodAppStore,
	types.DistributionMethodAppStoreConnect,
	types.DistributionMethodAdHoc,
	types.DistributionMethodEnterprise,
	types.DistributionMethodDevelopment,
	types.DistributionMethodDebugging,
	types.DistributionMethodReleaseTesting,
	types.DistributionMethodValidation,
	types.DistributionMethodPackage,
	types.DistributionMethodDeveloperID,
	types.DistributionMethodMacApplication,
}

// Spellings accepted for backwards compatibility with older pipelines.
var methodAliases = map[string]types.DistributionMethod{
	"appstore":       types.DistributionMethodAppStore,
	"adhoc":          types.DistributionMethodAdHoc,
	"development-id": types.DistributionMethodDeveloperID,
}

type ExportPolicy struct {
	UploadBitcode  bool
	CompileBitcode bool
	UploadSymbols  bool
	methods        map[types.DistributionMethod]struct{}
}

func NewExportPolicy() ExportPolicy {
	methods := make(map[types.DistributionMethod]struct{}, len(supportedMethods))
	for _, method := range supportedMethods {
		methods[method] = struct{}{}
	}
	return ExportPolicy{
		UploadBitcode:  false,
		CompileBitcode: true,
		UploadSymbols:  true,
		methods:        methods,
	}
}

func (p ExportPolicy) ResolveMethod(method string) (types.DistributionMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(method))
	if alias, ok := methodAliases[normalized]; ok {
		return alias, nil
	}
	candidate := types.DistributionMethod(normalized)
	if _, ok := p.methods[candidate]; ok {
		return candidate, nil
	}
	return "", types.Fail(types.ErrInputMalformed, "unsupported distribution method",
		"method", method,
		"supported", strings.Join(SupportedMethods(), ", "),
	)
}

func (p ExportPolicy) Apply(document *types.ExportDocument) {
	document.UploadBitcode = p.UploadBitcode
	document.CompileBitcode = p.CompileBitcode
	document.UploadSymbols = p.UploadSymbols
}

// SupportedMethods returns the accepted method names in sorted order.
func SupportedMethods() []string {
	names := make([]string, 0, len(supportedMethods))
	for _, method := range supportedMethods {
		names = append(names, string(method))
	}
	sort.Strings(names)
	return names
}

var _ ports.ExportPolicyPort = ExportPolicy{}
