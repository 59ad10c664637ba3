package output

import "io"

// Option is a functional option for configuring Printer instances.
type Option func(*Printer)

// WithStyles configures the printer to use the provided StyleProvider.
// A nil or unavailable provider leaves the printer plain.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styleProvider = provider
		}
	}
}

// WithWriter configures the printer to write to w. Default is os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(p *Printer) {
		if w != nil {
			p.writer = w
		}
	}
}

// WithMode configures the printer's output mode.
func WithMode(mode Mode) Option {
	return func(p *Printer) {
		p.mode = mode
	}
}

// TestMode forces plain output, ignoring any StyleProvider and later modes, for
// deterministic output in tests and golden runs.
func TestMode() Option {
	return func(p *Printer) {
		p.mode = ModePlain
		p.forcePlain = true
	}
}

// Silent suppresses all output.
func Silent() Option {
	return func(p *Printer) {
		p.silent = true
	}
}
