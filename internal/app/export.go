package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"xcsign/internal/core"
)

func (s Service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	method := strings.TrimSpace(req.DistributionMethod)
	if method == "" {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("distribution method is required")
	}
	resolved, err := s.resolve(ctx, req.ShellScript, req.SDK, req.WorkDir)
	if err != nil {
		return ExportResult{}, err
	}
	synthesizer := core.NewExportSynthesizer(s.Entitlements, s.Policy)
	document, err := synthesizer.Synthesize(ctx, resolved.tree, method)
	if err != nil {
		return ExportResult{}, err
	}

	result := ExportResult{
		ExportPath:  resolved.command.ExportPlistPath,
		DefaultPath: resolved.command.DefaultExportPath,
		Document:    document,
		Entry:       resolved.summary(),
		Hints:       checkExportHints(req, resolved.command, document),
	}
	if req.DryRun {
		log.Ctx(ctx).Info().Str("path", result.ExportPath).Msg("dry run, export options not written")
		return result, nil
	}
	if err := s.ExportWriter.WriteExportDocument(result.ExportPath, document); err != nil {
		return ExportResult{}, err
	}
	log.Ctx(ctx).Info().
		Str("path", result.ExportPath).
		Str("method", document.Method).
		Msg("export options written")
	return result, nil
}
