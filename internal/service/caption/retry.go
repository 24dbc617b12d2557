package caption

import "time"

// RetryPolicy controls how the scraping strategy repeats its full language
// sweep. Delay receives the zero-based attempt number that just failed;
// Sleep is injectable so tests can observe backoff without waiting.
type RetryPolicy struct {
	MaxAttempts int
	Delay       func(attempt int) time.Duration
	Sleep       func(d time.Duration)
}

// DefaultRetryPolicy retries the language sweep up to 3 times with
// exponential backoff: attempt k sleeps 2^k seconds before the next round.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt)) * time.Second
		},
		Sleep: time.Sleep,
	}
}
