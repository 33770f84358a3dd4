package cli

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML form of Options. Unset keys leave flag defaults alone.
type FileConfig struct {
	URL        *string  `yaml:"url"`
	Wordlist   *string  `yaml:"wordlist"`
	Threads    *int     `yaml:"threads"`
	Timeout    *int     `yaml:"timeout"`
	Proxies    *string  `yaml:"proxies"`
	Output     *string  `yaml:"output"`
	Rate       *float64 `yaml:"rate"`
	RegexCheck *string  `yaml:"regex_check"`
	UserAgent  *string  `yaml:"user_agent"`

	Insecure    *bool `yaml:"insecure"`
	ProgressBar *bool `yaml:"progress_bar"`
	NoColor     *bool `yaml:"no_color"`
	Verbose     *bool `yaml:"verbose"`
}

func LoadFile(path string) (*FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		// A file without a document decodes to io.EOF.
		if errors.Is(err, io.EOF) {
			return &fc, nil
		}
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &fc, nil
}

func (fc *FileConfig) apply(opts *Options, timeoutS *int, changed func(string) bool) {
	setString(&opts.URL, fc.URL, "url", changed)
	setString(&opts.Wordlist, fc.Wordlist, "wordlist", changed)
	setString(&opts.Proxy, fc.Proxies, "proxies", changed)
	setString(&opts.Output, fc.Output, "output", changed)
	setString(&opts.RegexCheck, fc.RegexCheck, "regex-check", changed)
	setString(&opts.UserAgent, fc.UserAgent, "user-agent", changed)

	if fc.Threads != nil && !changed("threads") {
		opts.Threads = *fc.Threads
	}
	if fc.Timeout != nil && !changed("timeout") {
		*timeoutS = *fc.Timeout
	}
	if fc.Rate != nil && !changed("rate") {
		opts.Rate = *fc.Rate
	}

	setBool(&opts.Insecure, fc.Insecure, "insecure", changed)
	setBool(&opts.ProgressBar, fc.ProgressBar, "progress-bar", changed)
	setBool(&opts.NoColor, fc.NoColor, "no-color", changed)
	setBool(&opts.Verbose, fc.Verbose, "verbose", changed)
}

func setString(dst *string, v *string, flag string, changed func(string) bool) {
	if v != nil && !changed(flag) {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool, flag string, changed func(string) bool) {
	if v != nil && !changed(flag) {
		*dst = *v
	}
}
