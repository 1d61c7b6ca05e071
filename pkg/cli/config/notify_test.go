package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/careops-lab/panacea/pkg/cli/config"
)

func TestNotifyConfigureDisabled(t *testing.T) {
	var n config.Notify
	d := gt.R1(n.Configure()).NoError(t)
	gt.Value(t, d).Nil()
}

func TestNotifyConfigureWebhook(t *testing.T) {
	var n config.Notify
	n.SetWebhook("https://hooks.example.com/default", []string{
		"NURSING=https://hooks.example.com/nursing",
	})

	d := gt.R1(n.Configure()).NoError(t)
	gt.Value(t, d).NotNil()
}

func TestNotifyConfigureBadTypeURL(t *testing.T) {
	var n config.Notify

	n.SetWebhook("", []string{"no-separator"})
	_, err := n.Configure()
	gt.Error(t, err)

	n.SetWebhook("", []string{"BOGUS_TYPE=https://hooks.example.com"})
	_, err = n.Configure()
	gt.Error(t, err)
}
