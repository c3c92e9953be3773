package simulate

import "time"

type FeedOpt func(*Feed)

// WithInterval sets the pause between scripted steps.
func WithInterval(interval time.Duration) FeedOpt {
	return func(f *Feed) {
		f.interval = interval
	}
}

// WithRetryInterval sets the pause between dial attempts.
func WithRetryInterval(interval time.Duration) FeedOpt {
	return func(f *Feed) {
		f.retryInterval = interval
	}
}
