package ports

import "xcsign/internal/types"

// ExportPolicyPort owns the export values this tool never takes from the
// project.
type ExportPolicyPort interface {
	ResolveMethod(method string) (types.DistributionMethod, error)
	Apply(document *types.ExportDocument)
}
