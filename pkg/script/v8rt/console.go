package v8rt

import (
	"strings"

	v8 "github.com/tommie/v8go"
	"go.uber.org/zap"
)

// logTemplate backs the global log(...args): arguments are stringified and
// joined with spaces, then written at info level.
func (r *Runtime) logTemplate() *v8.FunctionTemplate {
	return v8.NewFunctionTemplate(r.iso, func(info *v8.FunctionCallbackInfo) *v8.Value {
		args := info.Args()
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, a.String())
			release(a)
		}
		r.log.Info("script log", zap.String("text", strings.Join(parts, " ")))
		return nil
	})
}
