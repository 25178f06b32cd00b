package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jobb/pkg/registry"
	"github.com/mesh-intelligence/jobb/pkg/types"
)

// attachRegistry creates and attaches the configured registry. The caller
// must Detach it.
func attachRegistry(cfg types.Config, logger *zap.Logger) (types.FittingRegistry, error) {
	reg, err := registry.New(cfg, logger)
	if err != nil {
		return nil, userError(fmt.Errorf("registry config: %w", err))
	}
	if err := reg.Attach(cfg); err != nil {
		return nil, sysError(fmt.Errorf("attach registry: %w", err))
	}
	return reg, nil
}

// withRegistry runs fn against an attached registry and detaches it
// afterwards, combining both errors.
func (a *app) withRegistry(fn func(types.FittingRegistry) error) (err error) {
	reg, err := attachRegistry(a.settings.registryConfig(), a.commandLogger())
	if err != nil {
		return err
	}
	defer func() {
		if detachErr := reg.Detach(); detachErr != nil {
			err = multierr.Append(err, sysError(fmt.Errorf("detach registry: %w", detachErr)))
		}
	}()
	return fn(reg)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(w, string(output))
	return nil
}
