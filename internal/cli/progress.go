package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/fastsearch/internal/events"
)

// barReporter renders the orchestrator's and content indexer's throttled
// progress events as terminal progress bars. The source of truth is the
// shared events.Bus rather than direct callbacks, so the same reporter
// works whether a scan was kicked by this CLI or by the orchestrator's own
// background content-indexing follow-up.
type barReporter struct {
	quiet   bool
	scanBar *progressbar.ProgressBar
	idxBar  *progressbar.ProgressBar
}

func newBarReporter(quiet bool) *barReporter {
	return &barReporter{quiet: quiet}
}

// watch subscribes to bus and renders bars until stop is closed. It is
// meant to run in its own goroutine for the duration of one command.
func (r *barReporter) watch(stop <-chan struct{}, bus *events.Bus) {
	ch, unsubscribe := bus.Subscribe(64)
	defer unsubscribe()

	for {
		select {
		case <-stop:
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			r.handle(evt)
		}
	}
}

func (r *barReporter) handle(evt events.Event) {
	if r.quiet {
		return
	}
	switch evt.Name {
	case events.ScanStarted:
		fmt.Println("scanning...")
	case events.ScanProgress:
		payload, _ := evt.Payload.(map[string]interface{})
		if msg, ok := payload["message"].(string); ok {
			fmt.Printf("\r%s", msg)
		}
	case events.ScanCollected:
		payload, _ := evt.Payload.(map[string]interface{})
		total, _ := payload["total"].(int)
		r.scanBar = progressbar.Default(int64(total), "inserting")
	case events.ScanInsertProgress:
		payload, _ := evt.Payload.(map[string]interface{})
		processed, _ := payload["processed"].(int)
		if r.scanBar != nil {
			r.scanBar.Set(processed)
		}
	case events.ScanFinished:
		if r.scanBar != nil {
			r.scanBar.Finish()
		}
		payload, _ := evt.Payload.(map[string]interface{})
		if msg, ok := payload["message"].(string); ok {
			fmt.Printf("\nscan: %s\n", msg)
		}
	case events.ScanError:
		payload, _ := evt.Payload.(map[string]interface{})
		if msg, ok := payload["message"].(string); ok {
			fmt.Printf("\nscan error: %s\n", msg)
		}
	case events.IndexStarted:
		r.idxBar = progressbar.Default(-1, "indexing content")
	case events.IndexProgress:
		payload, _ := evt.Payload.(map[string]interface{})
		processed, _ := payload["processed"].(int)
		total, _ := payload["total"].(int)
		if r.idxBar != nil {
			if total > 0 {
				r.idxBar.ChangeMax(total)
			}
			r.idxBar.Set(processed)
		}
	case events.IndexFinished:
		if r.idxBar != nil {
			r.idxBar.Finish()
		}
	case events.IndexError:
		fmt.Printf("\nindex error: %v\n", evt.Payload)
	}
}
