package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tdh8316/gitlabenum/internal/httpx"
)

// Prober sends one HEAD request per candidate against a fixed base URL.
type Prober struct {
	client httpx.Doer
	cfg    Config
	base   string
	re     *regexp2.Regexp
	log    logrus.FieldLogger
}

func New(client httpx.Doer, cfg Config, log logrus.FieldLogger) (*Prober, error) {
	if client == nil {
		return nil, errors.New("probe: nil http client")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("probe: empty base url")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = httpx.DefaultUserAgent
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}

	p := &Prober{
		client: client,
		cfg:    cfg,
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		log:    log,
	}

	if cfg.RegexCheck != "" {
		re, err := regexp2.Compile(cfg.RegexCheck, 0)
		if err != nil {
			return nil, errors.Wrap(err, "invalid regex check")
		}
		re.MatchTimeout = time.Second
		p.re = re
	}
	return p, nil
}

// URL returns the address probed for candidate.
func (p *Prober) URL(candidate string) string {
	return p.base + "/" + url.PathEscape(candidate)
}

func (p *Prober) Probe(ctx context.Context, candidate string) Result {
	res := Result{
		Candidate: candidate,
		URL:       p.URL(candidate),
		Outcome:   NotFound,
	}

	if p.re != nil {
		ok, err := p.re.MatchString(candidate)
		if err != nil {
			res.Outcome = Failed
			res.Err = &Error{Candidate: candidate, Reason: "regex check: " + err.Error(), cause: err}
			return res
		}
		if !ok {
			// Not a valid username for the instance, so it cannot exist.
			res.Skipped = true
			return res
		}
	}

	req, err := httpx.NewRequest(ctx, http.MethodHead, res.URL, nil, p.cfg.UserAgent)
	if err != nil {
		res.Outcome = Failed
		res.Err = &Error{Candidate: candidate, Reason: "build request: " + err.Error(), cause: err}
		return res
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Outcome = Failed
		res.Err = transportError(candidate, err)
		p.log.WithFields(logrus.Fields{
			"candidate": candidate,
			"elapsed":   res.Elapsed,
		}).WithError(err).Debug("probe failed")
		return res
	}
	resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.Outcome = Classify(resp.StatusCode)

	p.log.WithFields(logrus.Fields{
		"candidate": candidate,
		"status":    resp.StatusCode,
		"elapsed":   res.Elapsed,
	}).Debug("probe done")
	return res
}

// Classify maps an HTTP status code to an outcome. Only 200 means the
// user exists; redirects to the sign-in page and 404s are both NotFound.
func Classify(status int) Outcome {
	if status == http.StatusOK {
		return Exists
	}
	return NotFound
}

func transportError(candidate string, err error) *Error {
	if httpx.IsTimeout(err) {
		return &Error{
			Candidate: candidate,
			Reason:    fmt.Sprintf("timeout: %v", err),
			timeout:   true,
			cause:     err,
		}
	}
	return &Error{Candidate: candidate, Reason: err.Error(), cause: err}
}
