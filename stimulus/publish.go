package stimulus

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
)

// Publish POSTs records as CSV to a collector URL, e.g. the lab's
// run-archive service.  Collectors are routinely restarted between
// runs, so transient connection failures are retried with an
// exponential backoff before giving up.
func Publish(url string, recs []Record) error {
	buf := &bytes.Buffer{}
	if err := WriteCSV(buf, recs); err != nil {
		return err
	}
	body := buf.Bytes()
	op := func() error {
		resp, err := http.Post(url, "text/csv", bytes.NewReader(body))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			// the collector rejected the payload; retrying will not help
			return backoff.Permanent(fmt.Errorf("stimulus: collector returned %s", resp.Status))
		}
		return nil
	}
	return backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0.,
		Multiplier:          2.,
		MaxInterval:         1 * time.Second,
		MaxElapsedTime:      3 * time.Second,
		Clock:               backoff.SystemClock})
}
