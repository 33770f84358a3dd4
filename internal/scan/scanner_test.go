package scan

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdh8316/gitlabenum/internal/httpx"
	"github.com/tdh8316/gitlabenum/internal/probe"
)

type fakeProber struct {
	mu     sync.Mutex
	calls  map[string]int
	exists map[string]bool
	fail   map[string]bool
}

func newFakeProber(exists ...string) *fakeProber {
	f := &fakeProber{
		calls:  map[string]int{},
		exists: map[string]bool{},
		fail:   map[string]bool{},
	}
	for _, e := range exists {
		f.exists[e] = true
	}
	return f
}

func (f *fakeProber) Probe(_ context.Context, candidate string) probe.Result {
	f.mu.Lock()
	f.calls[candidate]++
	f.mu.Unlock()

	res := probe.Result{Candidate: candidate, Outcome: probe.NotFound}
	switch {
	case f.fail[candidate]:
		res.Outcome = probe.Failed
		res.Err = &probe.Error{Candidate: candidate, Reason: "boom"}
	case f.exists[candidate]:
		res.Outcome = probe.Exists
		res.StatusCode = http.StatusOK
	}
	return res
}

type recordingObserver struct {
	mu       sync.Mutex
	indexes  []int
	totals   []int
	found    [][]string
	errors   []string
	doneSeen int
}

func (o *recordingObserver) Attempt(index, total int, _ string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.indexes = append(o.indexes, index)
	o.totals = append(o.totals, total)
}

func (o *recordingObserver) Found(found []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.found = append(o.found, found)
}

func (o *recordingObserver) Error(res probe.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors = append(o.errors, res.Candidate)
}

func (o *recordingObserver) Done() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.doneSeen++
}

func wordlist(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("user%03d", i)
	}
	return out
}

func TestRunProbesEachCandidateOnce(t *testing.T) {
	words := wordlist(300)
	fp := newFakeProber()
	obs := &recordingObserver{}

	sum := NewDispatcher(fp, Config{Threads: 16}, obs, nil).Run(context.Background(), words)

	assert.Equal(t, 300, sum.Total)
	assert.Equal(t, 300, sum.Attempted)
	assert.Equal(t, 300, sum.NotFound)
	require.Len(t, fp.calls, 300)
	for _, w := range words {
		assert.Equal(t, 1, fp.calls[w], w)
	}

	sort.Ints(obs.indexes)
	for i, idx := range obs.indexes {
		assert.Equal(t, i+1, idx)
	}
	for _, total := range obs.totals {
		assert.Equal(t, 300, total)
	}
	assert.Equal(t, 1, obs.doneSeen)
}

func TestRunFoundSetIndependentOfThreads(t *testing.T) {
	words := wordlist(120)
	want := []string{"user007", "user042", "user099", "user119"}

	for _, threads := range []int{1, 5, 50} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			fp := newFakeProber(want...)
			sum := NewDispatcher(fp, Config{Threads: threads}, nil, nil).Run(context.Background(), words)
			assert.ElementsMatch(t, want, sum.Found)
			assert.Equal(t, len(words)-len(want), sum.NotFound)
		})
	}
}

func TestRunSingleThreadKeepsInputOrder(t *testing.T) {
	fp := newFakeProber("c", "a")
	sum := NewDispatcher(fp, Config{Threads: 1}, nil, nil).Run(context.Background(), []string{"a", "b", "c"})
	assert.Equal(t, []string{"a", "c"}, sum.Found)
}

func TestRunErrorsAreReportedAndNonFatal(t *testing.T) {
	fp := newFakeProber("bob")
	fp.fail["alice"] = true
	obs := &recordingObserver{}

	sum := NewDispatcher(fp, Config{Threads: 3}, obs, nil).Run(context.Background(), []string{"alice", "bob", "carol"})

	assert.Equal(t, []string{"bob"}, sum.Found)
	assert.Equal(t, 1, sum.Errors)
	assert.Equal(t, 1, sum.NotFound)
	assert.Equal(t, []string{"alice"}, obs.errors)
	require.Len(t, obs.found, 1)
	assert.Equal(t, []string{"bob"}, obs.found[0])
}

func TestRunMoreThreadsThanCandidates(t *testing.T) {
	fp := newFakeProber("x")

	done := make(chan Summary)
	go func() {
		done <- NewDispatcher(fp, Config{Threads: 64}, nil, nil).Run(context.Background(), []string{"x", "y"})
	}()

	select {
	case sum := <-done:
		assert.Equal(t, []string{"x"}, sum.Found)
		assert.Equal(t, 2, sum.Attempted)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not terminate")
	}
}

func TestRunEmptyWordlist(t *testing.T) {
	fp := newFakeProber()
	obs := &recordingObserver{}

	sum := NewDispatcher(fp, Config{Threads: 4}, obs, nil).Run(context.Background(), nil)

	assert.Equal(t, 0, sum.Total)
	assert.Equal(t, 0, sum.Attempted)
	assert.Empty(t, sum.Found)
	assert.Empty(t, fp.calls)
	assert.Equal(t, 1, obs.doneSeen)
}

func TestRunDuplicatesAreProbedEachTime(t *testing.T) {
	fp := newFakeProber("root")
	sum := NewDispatcher(fp, Config{Threads: 2}, nil, nil).Run(context.Background(), []string{"root", "root"})

	assert.Equal(t, 2, fp.calls["root"])
	assert.Equal(t, []string{"root", "root"}, sum.Found)
}

func TestRunDefaultsThreads(t *testing.T) {
	d := NewDispatcher(newFakeProber(), Config{}, nil, nil)
	assert.Equal(t, DefaultThreads, d.cfg.Threads)
}

func TestRunRateLimited(t *testing.T) {
	fp := newFakeProber()
	start := time.Now()
	NewDispatcher(fp, Config{Threads: 4, Rate: 20}, nil, nil).Run(context.Background(), wordlist(5))

	// burst of 1, then 4 more tokens at 20/s.
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	assert.Len(t, fp.calls, 5)
}

func TestRunAgainstHTTPServer(t *testing.T) {
	var (
		mu   sync.Mutex
		hits = map[string]int{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		mu.Lock()
		hits[name]++
		mu.Unlock()
		if name == "bob" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/users/sign_in", http.StatusFound)
	}))
	defer srv.Close()

	client, err := httpx.NewClient(httpx.ClientConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	p, err := probe.New(client, probe.Config{BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	for _, threads := range []int{1, 5, 50} {
		mu.Lock()
		hits = map[string]int{}
		mu.Unlock()

		sum := NewDispatcher(p, Config{Threads: threads}, nil, nil).Run(context.Background(), []string{"alice", "bob", "carol"})
		assert.Equal(t, []string{"bob"}, sum.Found)

		mu.Lock()
		assert.Equal(t, map[string]int{"alice": 1, "bob": 1, "carol": 1}, hits)
		mu.Unlock()
	}
}

func TestRunUnreachableTarget(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client, err := httpx.NewClient(httpx.ClientConfig{Timeout: 2 * time.Second})
	require.NoError(t, err)
	p, err := probe.New(client, probe.Config{BaseURL: "http://" + addr}, nil)
	require.NoError(t, err)
	obs := &recordingObserver{}

	sum := NewDispatcher(p, Config{Threads: 3}, obs, nil).Run(context.Background(), []string{"alice", "bob", "carol"})

	assert.Empty(t, sum.Found)
	assert.Equal(t, 3, sum.Errors)
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, obs.errors)
}
