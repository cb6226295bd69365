package metrics

import "time"

// Recorder defines the console's observability hooks. Components hold a
// Recorder and default to NoopRecorder when metrics are not configured.
type Recorder interface {
	IncCacheHit(endpoint string)
	IncCacheMiss(endpoint string)
	IncSharedHit(endpoint string)
	IncFetchError(endpoint string)
	IncRevalidation(endpoint string)
	ObserveUpstream(method string, status int, d time.Duration)
	SetLiveSessions(n int)
	IncPushResult(success bool)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncCacheHit(string)                         {}
func (NoopRecorder) IncCacheMiss(string)                        {}
func (NoopRecorder) IncSharedHit(string)                        {}
func (NoopRecorder) IncFetchError(string)                       {}
func (NoopRecorder) IncRevalidation(string)                     {}
func (NoopRecorder) ObserveUpstream(string, int, time.Duration) {}
func (NoopRecorder) SetLiveSessions(int)                        {}
func (NoopRecorder) IncPushResult(bool)                         {}
