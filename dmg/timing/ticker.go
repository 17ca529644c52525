package timing

import "time"

// TickerLimiter paces frames off a plain time.Ticker: one channel receive per
// frame, no drift correction. Selected with --frame-timing=ticker on the CLI
// when AdaptiveLimiter's busy-wait isn't wanted (e.g. running many instances
// on a shared, oversubscribed host).
type TickerLimiter struct {
	ticker *time.Ticker
	ch     <-chan time.Time
}

// NewTickerLimiter starts a ticker firing at the DMG's native frame rate.
func NewTickerLimiter() *TickerLimiter {
	ticker := time.NewTicker(FrameDuration())
	return &TickerLimiter{ticker: ticker, ch: ticker.C}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ch
}

// Reset restarts the ticker's period; any in-flight tick is discarded.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration())
}

// Stop releases the underlying ticker. Not part of the Limiter interface
// since NoOpLimiter/AdaptiveLimiter have nothing to release.
func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
