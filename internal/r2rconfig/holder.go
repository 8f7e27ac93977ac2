package r2rconfig

import "sync/atomic"

// Holder publishes the current Config. Swaps replace the whole value, so a
// reader sees either the old or the new config, never a mix.
type Holder struct {
	current atomic.Pointer[Config]
}

func NewHolder(cfg *Config) *Holder {
	h := &Holder{}
	h.current.Store(cfg)
	return h
}

// Load returns the current config; it may be nil if none was published.
func (h *Holder) Load() *Config {
	return h.current.Load()
}

// Swap publishes cfg and returns the previous config.
func (h *Holder) Swap(cfg *Config) *Config {
	return h.current.Swap(cfg)
}
