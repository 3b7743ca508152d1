package pictures

// Option настраивает выборку Filter/ImageURLs.
type Option func(*options)

type options struct {
	publicOnly bool
	safeOnly   bool
	limit      *int
}

// WithPublicOnly — оставлять только is_public=true (по умолчанию включено).
func WithPublicOnly(v bool) Option {
	return func(o *options) { o.publicOnly = v }
}

// WithSafeOnly — оставлять только NEUTRAL/APP_SAFE (по умолчанию включено).
func WithSafeOnly(v bool) Option {
	return func(o *options) { o.safeOnly = v }
}

// WithLimit — не более n URL в результате ImageURLs.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = &n }
}

func newOptions(opts []Option) options {
	o := options{publicOnly: true, safeOnly: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
