package types

type BuildOption string

const (
	BuildOptionTarget        BuildOption = "target"
	BuildOptionConfiguration BuildOption = "configuration"
	BuildOptionScheme        BuildOption = "scheme"
	BuildOptionWorkspace     BuildOption = "workspace"
	BuildOptionProject       BuildOption = "project"
	BuildOptionSDK           BuildOption = "sdk"
	BuildOptionExportPlist   BuildOption = "export_plist"
)

type Grammar string

const (
	GrammarNative  Grammar = "native"
	GrammarWrapper Grammar = "wrapper"
)

type EntryShape string

const (
	EntryShapeTarget EntryShape = "target"
	EntryShapeScheme EntryShape = "scheme"
)

type DistributionMethod string

const (
	DistributionMethodAppStore        DistributionMethod = "app-store"
	DistributionMethodAppStoreConnect DistributionMethod = "app-store-connect"
	DistributionMethodAdHoc           DistributionMethod = "ad-hoc"
	DistributionMethodEnterprise      DistributionMethod = "enterprise"
	DistributionMethodDevelopment     DistributionMethod = "development"
	DistributionMethodDebugging       DistributionMethod = "debugging"
	DistributionMethodReleaseTesting  DistributionMethod = "release-testing"
	DistributionMethodValidation      DistributionMethod = "validation"
	DistributionMethodPackage         DistributionMethod = "package"
	DistributionMethodDeveloperID     DistributionMethod = "developer-id"
	DistributionMethodMacApplication  DistributionMethod = "mac-application"
)

type ExportKey string

const (
	ExportKeyTeamID                     ExportKey = "teamID"
	ExportKeySigningStyle               ExportKey = "signingStyle"
	ExportKeySigningCertificate         ExportKey = "signingCertificate"
	ExportKeyUploadBitcode              ExportKey = "uploadBitcode"
	ExportKeyCompileBitcode             ExportKey = "compileBitcode"
	ExportKeyUploadSymbols              ExportKey = "uploadSymbols"
	ExportKeyProvisioningProfiles       ExportKey = "provisioningProfiles"
	ExportKeyICloudContainerEnvironment ExportKey = "iCloudContainerEnvironment"
	ExportKeyMethod                     ExportKey = "method"
)

// ExportKeys lists the export document keys in serialization order.
var ExportKeys = []ExportKey{
	ExportKeyTeamID,
	ExportKeySigningStyle,
	ExportKeySigningCertificate,
	ExportKeyUploadBitcode,
	ExportKeyCompileBitcode,
	ExportKeyUploadSymbols,
	ExportKeyProvisioningProfiles,
	ExportKeyICloudContainerEnvironment,
	ExportKeyMethod,
}
