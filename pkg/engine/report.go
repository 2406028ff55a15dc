package engine

import "sync"

// The engine reports every example it tries through a single report sink.
// The default sink discards lines; the execution adapter installs a capturing
// sink around each invocation and forwards the result to the host runner's
// reporting channel.

var (
	reportMu   sync.Mutex
	reportSink func(string)
)

// Report sends one diagnostic line to the current sink.
func Report(line string) {
	reportMu.Lock()
	sink := reportSink
	reportMu.Unlock()
	if sink != nil {
		sink(line)
	}
}

// CaptureOutput installs a capturing sink for the duration of invoke and
// returns every reported line together with invoke's error. The previous
// sink is restored on every exit path, including panics.
func CaptureOutput(invoke func() error) (lines []string, err error) {
	reportMu.Lock()
	previous := reportSink
	reportSink = func(line string) {
		lines = append(lines, line)
	}
	reportMu.Unlock()

	defer func() {
		reportMu.Lock()
		reportSink = previous
		reportMu.Unlock()
	}()

	err = invoke()
	return lines, err
}
