package hrrembed

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger at level ("" means info) writing to out
// (nil means stderr).
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	l := logrus.New()
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.SetLevel(lvl)
	if out != nil {
		l.SetOutput(out)
	}
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l, nil
}
