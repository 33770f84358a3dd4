package cli

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/spf13/cobra"

	"github.com/tdh8316/gitlabenum/internal/httpx"
	"github.com/tdh8316/gitlabenum/internal/output"
)

var ErrHelp = errors.New("help requested")

const (
	defaultThreads  = 10
	defaultTimeoutS = 10
)

// ConfigError reports missing or invalid run configuration.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type Options struct {
	URL        string
	Wordlist   string
	Threads    int
	Timeout    time.Duration
	Proxy      string
	Output     string
	ConfigFile string
	Rate       float64
	RegexCheck string
	UserAgent  string

	Insecure    bool
	ProgressBar bool
	NoColor     bool
	Verbose     bool
}

const longHelp = `Enumerate valid usernames on a self-hosted GitLab instance.

Every candidate in the wordlist is probed with a HEAD request against
<url>/<candidate>. A 200 response means the user exists. Confirmed
usernames are written one per line to the output file, which is
overwritten on every run.`

// Parse parses args into Options. Values from --config are applied first and
// any flag given on the command line overrides them.
func Parse(args []string, stdout, stderr io.Writer) (Options, error) {
	var (
		opts     Options
		timeoutS int
		ran      bool
	)

	cmd := &cobra.Command{
		Use:           "gitlabenum -u URL -w WORDLIST [flags]",
		Short:         "GitLab user enumeration",
		Long:          longHelp,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ran = true
			return nil
		},
	}
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.URL, "url", "u", "", "the URL of the GitLab instance (required)")
	f.StringVarP(&opts.Wordlist, "wordlist", "w", "", "path to the username wordlist (required)")
	f.IntVarP(&opts.Threads, "threads", "t", defaultThreads, "number of concurrent workers")
	f.IntVarP(&timeoutS, "timeout", "T", defaultTimeoutS, "request timeout in seconds")
	f.StringVarP(&opts.Proxy, "proxies", "p", "", "proxy for http and https, e.g. http://127.0.0.1:8080 or socks5://127.0.0.1:9050")
	f.StringVarP(&opts.Output, "output", "o", output.DefaultFileName, "file confirmed usernames are written to")
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "YAML file with default values for these flags")
	f.Float64VarP(&opts.Rate, "rate", "r", 0, "max requests per second across all workers (0 = unlimited)")
	f.StringVar(&opts.RegexCheck, "regex-check", "", "skip candidates that do not match this username pattern")
	f.StringVar(&opts.UserAgent, "user-agent", httpx.DefaultUserAgent, "User-Agent header")
	f.BoolVarP(&opts.Insecure, "insecure", "k", false, "skip TLS certificate verification")
	f.BoolVar(&opts.ProgressBar, "progress-bar", false, "show a progress bar instead of attempt lines")
	f.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")

	if err := cmd.Execute(); err != nil {
		return Options{}, &ConfigError{Err: err}
	}
	if !ran {
		return Options{}, ErrHelp
	}

	if opts.ConfigFile != "" {
		fc, err := LoadFile(opts.ConfigFile)
		if err != nil {
			return Options{}, &ConfigError{Field: "config", Err: err}
		}
		fc.apply(&opts, &timeoutS, f.Changed)
	}
	opts.Timeout = time.Duration(timeoutS) * time.Second

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks required fields and value ranges.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.URL) == "" {
		return &ConfigError{Field: "url", Err: errors.New("required flag --url/-u not set")}
	}
	u, err := url.Parse(o.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "url", Err: fmt.Errorf("%q is not an http(s) URL", o.URL)}
	}
	if strings.TrimSpace(o.Wordlist) == "" {
		return &ConfigError{Field: "wordlist", Err: errors.New("required flag --wordlist/-w not set")}
	}
	if o.Threads <= 0 {
		return &ConfigError{Field: "threads", Err: fmt.Errorf("must be positive, got %d", o.Threads)}
	}
	if o.Timeout <= 0 {
		return &ConfigError{Field: "timeout", Err: fmt.Errorf("must be positive, got %s", o.Timeout)}
	}
	if o.Rate < 0 {
		return &ConfigError{Field: "rate", Err: fmt.Errorf("must not be negative, got %g", o.Rate)}
	}
	if o.Proxy != "" {
		if _, err := httpx.ParseProxy(o.Proxy); err != nil {
			return &ConfigError{Field: "proxies", Err: err}
		}
	}
	if o.RegexCheck != "" {
		if _, err := regexp2.Compile(o.RegexCheck, 0); err != nil {
			return &ConfigError{Field: "regex-check", Err: err}
		}
	}
	if o.Output == "" {
		o.Output = output.DefaultFileName
	}
	return nil
}
