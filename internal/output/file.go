package output

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// DefaultFileName is the result file written in the working directory.
const DefaultFileName = "gitlabUserEnumValidUsers.txt"

// WriteUsernames truncates path and writes one username per line.
func WriteUsernames(path string, usernames []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}

	w := bufio.NewWriter(f)
	for _, u := range usernames {
		if _, err := w.WriteString(u + "\n"); err != nil {
			f.Close()
			return errors.Wrapf(err, "write %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
