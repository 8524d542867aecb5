package canframe

// Option tunes a single Encode or Decode call.
type Option func(*callOptions)

type callOptions struct {
	scaling    bool
	choices    bool
	unknownMux func(multiplexer string, id int64)
}

func newCallOptions(opts []Option) callOptions {
	o := callOptions{scaling: true, choices: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithScaling toggles the scale/offset transform (default on). Without it,
// Encode takes raw values and Decode returns raw values.
func WithScaling(on bool) Option {
	return func(o *callOptions) { o.scaling = on }
}

// WithChoices toggles mapping decoded numbers to choice names (default on).
// Encode always accepts choice names.
func WithChoices(on bool) Option {
	return func(o *callOptions) { o.choices = on }
}

// ReportUnknownMultiplexer registers fn to be called when Decode meets a
// multiplexer id that selects no group. Decode still succeeds.
func ReportUnknownMultiplexer(fn func(multiplexer string, id int64)) Option {
	return func(o *callOptions) { o.unknownMux = fn }
}

// flags packs the options that change decoded output; part of cache keys.
func (o callOptions) flags() byte {
	var f byte
	if o.scaling {
		f |= 1
	}
	if o.choices {
		f |= 2
	}
	return f
}
