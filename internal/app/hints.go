package app

import (
	"fmt"
	"strings"

	"xcsign/internal/types"
)

// checkExportHints returns hints for export inputs that work but could be
// simplified or made explicit.
func checkExportHints(req ExportRequest, command types.BuildCommand, document types.ExportDocument) []string {
	requested := strings.TrimSpace(req.DistributionMethod)
	sdk := strings.TrimSpace(req.SDK)
	checks := []struct {
		applies bool
		hint    string
	}{
		{
			applies: command.DefaultExportPath,
			hint: fmt.Sprintf(
				"hint: the build command names no export options path; writing to the default %s",
				command.ExportPlistPath,
			),
		},
		{
			applies: sdk != "" && sdk == command.Options.Value(types.BuildOptionSDK),
			hint:    "hint: --sdk matches the build command's -sdk; you can omit the flag",
		},
		{
			applies: !strings.EqualFold(requested, document.Method),
			hint: fmt.Sprintf(
				"hint: distribution method %q is a legacy spelling; use %q",
				requested, document.Method,
			),
		},
	}

	var hints []string
	for _, c := range checks {
		if c.applies {
			hints = append(hints, c.hint)
		}
	}
	return hints
}
