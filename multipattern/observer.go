package multipattern

import "time"

// Observer is notified about every build a Factory runs.
type Observer interface {
	BuildStarted(mode Mode, patterns int)

	// BuildFinished is called once per BuildStarted. err is nil on success.
	BuildFinished(mode Mode, patterns int, duration time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) BuildStarted(Mode, int)                         {}
func (noopObserver) BuildFinished(Mode, int, time.Duration, error) {}
