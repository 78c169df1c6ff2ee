package engine

import "time"

// Observer receives engine events. Implementations must be safe for concurrent
// use: HealthChanged may fire from the call watchdog.
type Observer interface {
	CallFinished(route string, kind Kind, d time.Duration)
	QueueDepth(n int)
	Reloaded(routes int, err error)
	HealthChanged(healthy bool)
}

type nopObserver struct{}

func (nopObserver) CallFinished(string, Kind, time.Duration) {}
func (nopObserver) QueueDepth(int)                           {}
func (nopObserver) Reloaded(int, error)                      {}
func (nopObserver) HealthChanged(bool)                       {}
