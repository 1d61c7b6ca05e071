package config_test

import (
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/careops-lab/panacea/pkg/cli/config"
)

func TestLoggerConfigure(t *testing.T) {
	var l config.Logger
	l.SetOptions("debug", "json", "-")

	closer := gt.R1(l.Configure()).NoError(t)
	closer()
}

func TestLoggerConfigureFile(t *testing.T) {
	var l config.Logger
	path := filepath.Join(t.TempDir(), "panacea.log")
	l.SetOptions("info", "console", path)

	closer := gt.R1(l.Configure()).NoError(t)
	closer()
}

func TestLoggerInvalidLevel(t *testing.T) {
	var l config.Logger
	l.SetOptions("verbose", "console", "-")

	_, err := l.Configure()
	gt.Error(t, err)
}

func TestLoggerInvalidFormat(t *testing.T) {
	var l config.Logger
	l.SetOptions("info", "xml", "-")

	_, err := l.Configure()
	gt.Error(t, err)
}
