package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"xcsign/internal/core"
	"xcsign/internal/types"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("export options path is required")
	}
	values, err := s.ExportReader.ReadExportDocument(path)
	if err != nil {
		return ValidateResult{}, err
	}
	if err := core.ValidateExportValues(values); err != nil {
		return ValidateResult{}, err
	}
	result := ValidateResult{Path: path, Keys: len(values)}
	if raw, ok := values[string(types.ExportKeyMethod)]; ok {
		method, _ := raw.(string)
		resolved, err := s.Policy.ResolveMethod(method)
		if err != nil {
			return ValidateResult{}, err
		}
		result.Method = string(resolved)
	}
	log.Ctx(ctx).Debug().Str("path", path).Int("keys", result.Keys).Msg("export options validated")
	return result, nil
}
