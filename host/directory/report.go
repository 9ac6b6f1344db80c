package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stela-engine/scripthost/domain/entities"
	domainerrors "github.com/stela-engine/scripthost/domain/errors"
	"github.com/tetratelabs/wazero/api"
)

// Reporter receives script diagnostics as plain lines, the way script log
// messages reach the host. The coordinator points it at the bridge log.
type Reporter func(ctx context.Context, message string)

// ReportHookError logs a hook failure with the script and hook that raised it,
// and forwards "Error in Script.Hook: cause" to sink when it is set.
func ReportHookError(ctx context.Context, logger *slog.Logger, sink Reporter, err error) {
	var hookErr *domainerrors.HookInvocationError
	if !errors.As(err, &hookErr) {
		logger.ErrorContext(ctx, "directory: script hook failed", "error", err)
		if sink != nil {
			sink(ctx, "Error: "+err.Error())
		}
		return
	}
	logger.ErrorContext(ctx, "directory: script hook failed",
		"script", hookErr.Script,
		"hook", hookErr.Hook,
		"error", hookErr.Err)
	if sink != nil {
		sink(ctx, fmt.Sprintf("Error in %s.%s: %v", hookErr.Script, hookErr.Hook, hookErr.Err))
	}
}

// ReportShape logs a hook disabled for its signature and forwards a warning
// line to sink when it is set.
func ReportShape(ctx context.Context, logger *slog.Logger, sink Reporter, script, hook string, def api.FunctionDefinition) {
	params := valueTypeNames(def.ParamTypes())
	results := valueTypeNames(def.ResultTypes())
	logger.WarnContext(ctx, "directory: hook has unsupported signature, disabled",
		"script", script,
		"hook", hook,
		"params", params,
		"results", results)
	if sink != nil {
		sink(ctx, fmt.Sprintf("Warning: %s.%s(%s) -> (%s) has an unsupported signature, disabled",
			script, hook, strings.Join(params, ", "), strings.Join(results, ", ")))
	}
}

func warnShape(ctx context.Context, cfg *discoverConfig, typ string, hook entities.Hook, def api.FunctionDefinition) {
	ReportShape(ctx, cfg.logger, cfg.sink, typ, string(hook), def)
}

func valueTypeNames(types []api.ValueType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = api.ValueTypeName(t)
	}
	return out
}
