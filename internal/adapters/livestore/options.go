package livestore

// Option applies a configuration option to the RedisStore.
type Option func(*RedisStore)

// WithKey overrides the sorted-set key. Tests use this to isolate runs;
// production keeps the fixed default.
func WithKey(key string) Option {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithStream overrides the change-log stream the dual write appends to.
func WithStream(stream string) Option {
	return func(s *RedisStore) {
		if stream != "" {
			s.stream = stream
		}
	}
}

// WithStreamMaxLen caps the change log's approximate length.
func WithStreamMaxLen(maxLen int64) Option {
	return func(s *RedisStore) {
		if maxLen > 0 {
			s.streamMaxLen = maxLen
		}
	}
}
