package nbt

// DefaultMaxDepth is the nesting limit applied when no WithMaxDepth option is
// given. Depth counts List and Compound recursion only. Real world data nests
// shallowly (vanilla chunk data stays under 16); the limit exists so that
// hostile input exhausts a counter rather than the goroutine stack.
const DefaultMaxDepth = 128

type parseOptions struct {
	maxDepth int
}

// Option configures Parse.
type Option func(*parseOptions)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(o *parseOptions) {
		if depth >= 1 {
			o.maxDepth = depth
		}
	}
}

func newParseOptions(opts ...Option) parseOptions {
	o := parseOptions{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
