package save

import "github.com/Outspending/go-ferrumc/nbt"

// Options configures the save readers. Implementations ignore options they
// do not support.
type Options struct {
	dirLister DirLister
	opener    Opener

	// forwarded to every nbt.Parse call the readers make
	parseOpts []nbt.Option
}

// OptionsCopy creates an independent copy of opts.
func OptionsCopy(opts Options) Options {
	cpy := opts
	cpy.parseOpts = make([]nbt.Option, len(opts.parseOpts))
	copy(cpy.parseOpts, opts.parseOpts)
	return cpy
}

// NewOptions applies opts over base. Typically used by tests, as the values
// are private.
func NewOptions(base Options, opts ...Option) Options {
	options := OptionsCopy(base)
	for _, o := range opts {
		o(&options)
	}
	return options
}

type Option func(*Options)

// WithDirLister overrides the directory lister, StdDirLister by default.
func WithDirLister(l DirLister) Option {
	return func(o *Options) {
		o.dirLister = l
	}
}

// WithOpener overrides the file opener, StdOpener by default.
func WithOpener(op Opener) Option {
	return func(o *Options) {
		o.opener = op
	}
}

// WithParseOption forwards an option to every nbt.Parse call made while
// reading save data.
func WithParseOption(opt nbt.Option) Option {
	return func(o *Options) {
		o.parseOpts = append(o.parseOpts, opt)
	}
}
