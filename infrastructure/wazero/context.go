package wazero

import (
	"context"

	"github.com/stela-engine/scripthost/hostfuncs"
	"github.com/tetratelabs/wazero/api"
)

// GetScriptName extracts the script name from context, falling back to the module name.
func GetScriptName(ctx context.Context, mod api.Module) string {
	if name, ok := hostfuncs.ScriptNameFromContext(ctx); ok {
		return name
	}
	if mod == nil {
		return ""
	}
	return mod.Name()
}
