// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batchquery turns an arbitrary identifier list into a durable
// id->record map by querying a remote batch endpoint one batch at a time. It
// resumes from a JSON checkpoint, so interrupted or rate-limited runs never
// re-fetch identifiers that already have an answer, and it adapts its pace to
// whatever rate limit the server is enforcing.
package batchquery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/citegraph/internal/httputil"
	"github.com/pdiddy/citegraph/pkg/types"
)

// maxConsecutiveTimeouts bounds how often the same batch may time out before
// the run is aborted instead of retried.
const maxConsecutiveTimeouts = 5

// Transform converts one raw response record into the value stored in the
// checkpoint. Callers own the result shape; the engine never inspects it.
// Returning nil stores the identifier as absent. A transform error is fatal
// for the whole run: masking it would let a malformed assumption about the
// API surface silently corrupt the checkpoint.
type Transform func(raw json.RawMessage) (any, error)

// RemoteError is the fatal outcome of a non-2xx response whose body contains
// the configured error marker. Throttling responses never surface as errors;
// this does.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote endpoint returned HTTP %d: %s", e.StatusCode, e.Body)
}

// RunResult summarizes one engine run for reporting. The checkpoint file is
// the durable output; these counters are observability only.
type RunResult struct {
	// Requested is the total number of identifiers asked for.
	Requested int

	// AlreadyResolved is how many of them the checkpoint had before the run.
	AlreadyResolved int

	// Resolved is how many identifiers gained a record during the run.
	Resolved int

	// Absent is how many identifiers the server had no data for during the run.
	Absent int

	// Requests is the number of HTTP requests issued, including retries.
	Requests int

	// FinalDelay is the limiter's delay when the run ended.
	FinalDelay time.Duration

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Run fetches records for ids from endpoint in batches, applying transform to
// each returned record and merging the results into the checkpoint at path.
//
// The loop is strictly sequential: one request in flight, a limiter-paced
// pause after every batch. A non-2xx response without cfg.ErrorMarker in the
// body is throttling: the delay grows and the same batch is retried in full.
// A non-2xx response with the marker aborts the run with a *RemoteError. A
// null entry in a 2xx response marks its identifier absent without calling
// transform. The checkpoint is dumped every cfg.DumpInterval batches and once
// unconditionally at the end, so a crash loses at most one dump interval of
// work. Cancelling ctx stops the run at the next pause or request boundary;
// the last dump stays valid and a re-run resumes behind it.
func Run(ctx context.Context, client *http.Client, path string, ids []string, fields, endpoint string, transform Transform, cfg types.BatchQueryConfig, w io.Writer) (RunResult, error) {
	var res RunResult
	if len(ids) == 0 {
		return res, fmt.Errorf("no identifiers to query")
	}
	if cfg.BatchSize <= 0 {
		return res, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.DumpInterval <= 0 {
		cfg.DumpInterval = DefaultDumpInterval
	}

	ck, err := Load(path)
	if err != nil {
		return res, err
	}

	pending := Pending(ids, ck)
	res.Requested = len(ids)
	res.AlreadyResolved = len(ids) - len(pending)
	fmt.Fprintf(w, "requested ids: %d\n", len(ids))
	fmt.Fprintf(w, "ids without records: %d\n", len(pending))

	limiter := NewLimiter(cfg.BaseDelay, cfg.DelayMultiplier)
	dumpEvery := cfg.BatchSize * cfg.DumpInterval
	reqURL, err := batchURL(endpoint, fields)
	if err != nil {
		return res, err
	}
	header := requestHeader(cfg)

	start := time.Now()
	timeouts := 0
	idx := 0
	for idx < len(pending) {
		end := idx + cfg.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[idx:end]

		status, body, err := httputil.PostJSON(ctx, client, reqURL, batchRequest{IDs: batch}, header)
		res.Requests++
		if err != nil {
			if ctx.Err() != nil {
				res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
				return res, ctx.Err()
			}
			if !isTimeout(err) {
				res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
				return res, fmt.Errorf("batch request: %w", err)
			}
			// A timeout behaves like throttling, but a batch that times out
			// over and over is escalated rather than retried forever.
			timeouts++
			if timeouts >= maxConsecutiveTimeouts {
				res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
				return res, fmt.Errorf("batch request timed out %d times in a row: %w", timeouts, err)
			}
			limiter.Throttled()
			fmt.Fprintf(w, " - request timed out, sleeping for %v\n", limiter.Delay())
			if err := sleep(ctx, limiter.Delay()); err != nil {
				res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
				return res, err
			}
			continue
		}

		if status < 200 || status > 299 {
			if cfg.ErrorMarker != "" && strings.Contains(string(body), cfg.ErrorMarker) {
				res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
				return res, &RemoteError{StatusCode: status, Body: string(body)}
			}
			limiter.Throttled()
			fmt.Fprintf(w, " - throttled (HTTP %d), sleeping for %v\n", status, limiter.Delay())
			if err := sleep(ctx, limiter.Delay()); err != nil {
				res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
				return res, err
			}
			continue
		}
		timeouts = 0

		var entries []json.RawMessage
		if err := json.Unmarshal(body, &entries); err != nil {
			res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
			return res, fmt.Errorf("parsing batch response: %w", err)
		}

		// Entries align positionally with the batch. A response shorter than
		// the batch leaves the tail unresolved for the next run.
		n := len(batch)
		if len(entries) < n {
			n = len(entries)
		}
		for i := 0; i < n; i++ {
			id := batch[i]
			if isJSONNull(entries[i]) {
				fmt.Fprintf(w, "%s returned no record\n", id)
				ck.Put(id, nil)
				res.Absent++
				continue
			}
			record, err := transform(entries[i])
			if err != nil {
				res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
				return res, fmt.Errorf("transforming record for %s: %w", id, err)
			}
			if record == nil {
				ck.Put(id, nil)
				res.Absent++
			} else {
				ck.Put(id, record)
				res.Resolved++
			}
		}

		idx += len(batch)
		limiter.Success()

		if idx%dumpEvery == 0 {
			fmt.Fprintf(w, "dumping checkpoint to %s\n", path)
			if err := ck.Save(path); err != nil {
				res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
				return res, err
			}
		}
		fmt.Fprintf(w, "progress: %d/%d (delay %v)\n", res.AlreadyResolved+idx, len(ids), limiter.Delay())

		if err := sleep(ctx, limiter.Delay()); err != nil {
			res.FinalDelay, res.Duration = limiter.Delay(), time.Since(start)
			return res, err
		}
	}

	if err := ck.Save(path); err != nil {
		return res, err
	}
	res.FinalDelay = limiter.Delay()
	res.Duration = time.Since(start)
	fmt.Fprintf(w, "\nrun complete: %d resolved, %d absent, %d already known (requests: %d)\n",
		res.Resolved, res.Absent, res.AlreadyResolved, res.Requests)
	return res, nil
}

// batchRequest is the wire shape of one batch POST body.
type batchRequest struct {
	IDs []string `json:"ids"`
}

// batchURL attaches the query-field specification to the endpoint.
func batchURL(endpoint, fields string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint URL %q: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("fields", fields)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func requestHeader(cfg types.BatchQueryConfig) http.Header {
	header := make(http.Header)
	if cfg.UserAgent != "" {
		header.Set("User-Agent", cfg.UserAgent)
	}
	if cfg.APIKey != "" {
		header.Set("x-api-key", cfg.APIKey)
	}
	return header
}

// sleep pauses for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
