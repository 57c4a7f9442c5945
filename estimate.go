package rawjpeg

import "github.com/rkarls/go-rawjpeg/internal/strip"

// EstimateMemory returns the peak workspace requirement in bytes for
// encoding with cfg. It is a pure function of the config and allocates
// nothing, so callers on constrained targets can size or reject a
// conversion before starting it. Encode applies the same estimate when
// enforcing Config.MemoryLimit.
func EstimateMemory(cfg *Config) (int, error) {
	p, code, msg := cfg.params()
	if code != ErrNone {
		return 0, newError(code, "EstimateMemory", msg)
	}
	n, err := strip.EstimateMemory(p)
	if err != nil {
		return 0, newError(ErrInvalidStride, "EstimateMemory", err.Error())
	}
	return n, nil
}
