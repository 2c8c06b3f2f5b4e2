package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	out    io.Writer
	errOut io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where command output (card listings, export paths) is
// written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithErrorOutput sets where command warnings are written. Defaults to
// os.Stderr.
func WithErrorOutput(w io.Writer) Option {
	return func(a *application) {
		a.errOut = w
	}
}
