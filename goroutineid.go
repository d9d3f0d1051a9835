package serialexec

import "runtime"

// currentGoroutineID returns the calling goroutine's runtime id, parsed out
// of runtime.Stack's "goroutine N [...]" header. Go has no public API for
// this; the stack-trace scrape is the standard workaround and is cheap
// enough for the once-per-submission inEventLoop check this package uses
// it for (it is never on a hot per-task path).
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
