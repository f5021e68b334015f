package memplan

import (
	"context"

	"github.com/q0jt/go-memplan/memplan/config"
	"go.uber.org/zap"
)

// StackAlignment is the alignment of the stack base and size.
const StackAlignment = 8

// DefaultHardware returns the hardware constants used when a config does not
// name its hardware. The fast memory sits at the core-coupled RAM window
// 0x10000000; targets with other memory there must supply their own.
func DefaultHardware() config.Hardware {
	return config.Hardware{
		FastMemOrigin:       0x10000000,
		FastMemLength:       0x1000,
		PrivilegedStackSize: 0x20,
	}
}

// LoadConfig evaluates the pkl module at path into a layout config.
func LoadConfig(ctx context.Context, path string) (*config.LayoutConfig, error) {
	cfg, err := config.LoadFromPath(ctx, path)
	if err != nil {
		return nil, &Error{Stage: StageLoad, Kind: KindInvalidData, Param: path, Cause: err}
	}
	Logger().Debug("loaded layout config",
		zap.String("path", path),
		zap.Stringer("mode", cfg.Mode))
	return cfg, nil
}

// Uint returns a pointer to v, for building configs in Go.
func Uint(v uint) *uint {
	return &v
}
