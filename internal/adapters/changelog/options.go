package changelog

// Option applies a configuration option to the RedisLog.
type Option func(*RedisLog)

// WithStream overrides the stream name. Tests use this to isolate runs;
// production keeps the fixed default.
func WithStream(stream string) Option {
	return func(l *RedisLog) {
		if stream != "" {
			l.stream = stream
		}
	}
}

// WithGroup overrides the consumer group name.
func WithGroup(group string) Option {
	return func(l *RedisLog) {
		if group != "" {
			l.group = group
		}
	}
}
