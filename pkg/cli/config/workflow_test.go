package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/careops-lab/panacea/pkg/cli/config"
	"github.com/careops-lab/panacea/pkg/domain/types"
)

func writeWorkflowFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestWorkflowConfigureDefaults(t *testing.T) {
	var w config.Workflow
	ttl := gt.R1(w.Configure(7 * 24 * time.Hour)).NoError(t)
	gt.Equal(t, ttl, 7*24*time.Hour)
}

func TestWorkflowOutcomeOverride(t *testing.T) {
	orig := types.OutcomeEquipmentFailure.Requirement()
	t.Cleanup(func() {
		types.SetOutcomeRequirement(types.OutcomeEquipmentFailure, orig)
	})

	path := writeWorkflowFile(t, `
confirmation_ttl = "48h"

[[outcome]]
tag = "EQUIPMENT_FAILURE"
requires_capa = false
requires_external_notification = true
`)

	var w config.Workflow
	w.SetPath(path)

	ttl := gt.R1(w.Configure(7 * 24 * time.Hour)).NoError(t)
	gt.Equal(t, ttl, 48*time.Hour)

	req := types.OutcomeEquipmentFailure.Requirement()
	gt.False(t, req.RequiresCAPA)
	gt.True(t, req.RequiresExternalNotification)
}

func TestWorkflowUnknownTag(t *testing.T) {
	path := writeWorkflowFile(t, `
[[outcome]]
tag = "NOT_A_TAG"
requires_capa = true
`)

	var w config.Workflow
	w.SetPath(path)

	_, err := w.Configure(time.Hour)
	gt.Error(t, err)
}

func TestWorkflowInvalidTTL(t *testing.T) {
	path := writeWorkflowFile(t, `confirmation_ttl = "soon"`)

	var w config.Workflow
	w.SetPath(path)

	_, err := w.Configure(time.Hour)
	gt.Error(t, err)
}

func TestWorkflowMissingFile(t *testing.T) {
	var w config.Workflow
	w.SetPath("/no/such/workflow.toml")

	_, err := w.Configure(time.Hour)
	gt.Error(t, err)
}
