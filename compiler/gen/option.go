package gen

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithDialect sets the output dialect name. The dialect implementation is
// attached separately on the Generator to avoid an import cycle with the
// dialect packages.
func WithDialect(name string) Option {
	return func(c *Config) error {
		switch name {
		case "c", "cpp":
			c.Dialect = name
			return nil
		default:
			return NewConfigError("Dialect", name, "unsupported dialect; use c or cpp")
		}
	}
}

// WithPluginName overrides the plugin name declared in the document.
func WithPluginName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("Plugin", nil, "plugin name cannot be empty")
		}
		c.Plugin = name
		return nil
	}
}

// WithHeader sets the file header comment added at the top of each
// generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers bounds the number of parallel file writers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "worker count cannot be negative")
		}
		c.Workers = n
		return nil
	}
}
