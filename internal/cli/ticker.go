package cli

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const stepInterval = 4 * time.Second

var (
	institutionSteps = []string{
		"Initiating multi-vector search...",
		"Scanning state university databases...",
		"Checking AISHE registration records...",
		"Retrieving administrative profiles...",
		"Correlating academic stats...",
		"Finalizing results list...",
	}
	companySteps = []string{
		"Auditing corporate directories...",
		"Validating active HR leadership...",
		"Locating regional branch clusters...",
		"Extracting verifiable proof documents...",
		"Synthesizing direct contact leads...",
	}
	eventSteps = []string{
		"Scanning campus announcements...",
		"Checking fest and hackathon listings...",
		"Finalizing event list...",
	}
)

// startSteps prints the first step now and advances one step every interval,
// holding on the last. The returned stop blocks until printing has ended.
// The messages are cosmetic and say nothing about real progress.
func startSteps(w io.Writer, steps []string, interval time.Duration) (stop func()) {
	if len(steps) == 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Fprintln(w, steps[0])

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		step := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if step < len(steps)-1 {
					step++
					fmt.Fprintln(w, steps[step])
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
