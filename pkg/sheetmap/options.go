package sheetmap

import "time"

// Option configures an Exporter.
type Option func(*config)

type config struct {
	loader          TypeLoader
	location        *time.Location
	presets         StylePresets
	allowUnexported bool
}

func defaultConfig() config {
	return config{
		location:        time.Local,
		allowUnexported: true,
	}
}

// WithTypeLoader sets the loader used to resolve converter and supplier
// references. Without it DefaultRegistry is used.
func WithTypeLoader(loader TypeLoader) Option {
	return func(c *config) {
		c.loader = loader
	}
}

// WithLocation sets the zone timestamps are formatted in.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithStylePresets makes presets available to xlsxstyle:"preset=<name>".
func WithStylePresets(presets StylePresets) Option {
	return func(c *config) {
		c.presets = presets
	}
}

// WithUnexportedFields controls whether tagged unexported fields may be read.
func WithUnexportedFields(allow bool) Option {
	return func(c *config) {
		c.allowUnexported = allow
	}
}
