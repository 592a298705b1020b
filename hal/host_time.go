package hal

import "time"

type hostClock struct{}

func (hostClock) Now() time.Time { return time.Now() }

func (hostClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// HostClock returns the wall clock used by the desktop drivers.
func HostClock() Clock { return hostClock{} }
