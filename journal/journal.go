// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/siemens/pdknockr/knock"
	"github.com/siemens/pdknockr/types"
)

// FilenameLayout is the time layout for naming journal files.
const FilenameLayout = "pdk_2006-01-02_15-04-05.log"

// Journal records knock events as structured log entries.
type Journal struct {
	logger *logrus.Logger
	closer io.Closer
	path   string
}

var _ knock.EventSink = (*Journal)(nil)

// New creates the specified directory if necessary, and then a new journal
// file inside it, named after the current time.
func New(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create journal directory: %w", err)
	}
	path := filepath.Join(dir, time.Now().Format(FilenameLayout))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot create journal: %w", err)
	}
	j := NewWithWriter(f)
	j.closer = f
	j.path = path
	return j, nil
}

// NewWithWriter returns a new Journal writing to the specified writer.
func NewWithWriter(w io.Writer) *Journal {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	logger.SetLevel(logrus.InfoLevel)
	return &Journal{logger: logger}
}

// Path returns the journal's file path, if any.
func (j *Journal) Path() string {
	return j.path
}

// Record writes the specified knock event to the journal.
func (j *Journal) Record(ev types.Event) {
	entry := j.logger.WithFields(logrus.Fields{
		"target":   ev.Target,
		"resolver": ev.Resolver,
		"type":     string(ev.Type),
		"outcome":  ev.Outcome.String(),
	}).WithTime(ev.Time)
	if ev.Err != nil {
		entry = entry.WithField("error", ev.Err.Error())
		entry.Warn("knock failed")
		return
	}
	entry.Info("knock sent")
}

// Close the journal's file, if any.
func (j *Journal) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}
