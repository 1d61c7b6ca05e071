package types_test

import (
	"testing"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestOutcomeTag_Requirement(t *testing.T) {
	tests := []struct {
		name         string
		tag          types.OutcomeTag
		wantExtNotif bool
		wantCAPA     bool
	}{
		{
			name: "no action carries no requirements",
			tag:  types.OutcomeNoAction,
		},
		{
			name: "guidance carries no requirements",
			tag:  types.OutcomeGuidance,
		},
		{
			name:     "process failure requires CAPA",
			tag:      types.OutcomeProcessFailure,
			wantCAPA: true,
		},
		{
			name:     "equipment failure requires CAPA",
			tag:      types.OutcomeEquipmentFailure,
			wantCAPA: true,
		},
		{
			name:         "regulatory notify requires external notification",
			tag:          types.OutcomeRegulatoryNotify,
			wantExtNotif: true,
		},
		{
			name:         "sentinel event requires both",
			tag:          types.OutcomeSentinelEvent,
			wantExtNotif: true,
			wantCAPA:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.tag.Requirement()
			gt.V(t, req.RequiresExternalNotification).Equal(tt.wantExtNotif)
			gt.V(t, req.RequiresCAPA).Equal(tt.wantCAPA)
		})
	}
}

func TestResolveOutcomeRequirements(t *testing.T) {
	t.Run("empty set carries no requirements", func(t *testing.T) {
		req := types.ResolveOutcomeRequirements(nil)
		gt.B(t, req.RequiresExternalNotification).False()
		gt.B(t, req.RequiresCAPA).False()
	})

	t.Run("union across mixed tags", func(t *testing.T) {
		req := types.ResolveOutcomeRequirements([]types.OutcomeTag{
			types.OutcomeNoAction,
			types.OutcomeProcessFailure,
			types.OutcomeRegulatoryNotify,
		})
		gt.B(t, req.RequiresExternalNotification).True()
		gt.B(t, req.RequiresCAPA).True()
	})

	t.Run("benign tags resolve to nothing required", func(t *testing.T) {
		req := types.ResolveOutcomeRequirements([]types.OutcomeTag{
			types.OutcomeNoAction,
			types.OutcomeGuidance,
		})
		gt.B(t, req.RequiresExternalNotification).False()
		gt.B(t, req.RequiresCAPA).False()
	})
}

func TestParseOutcomeTag(t *testing.T) {
	got, err := types.ParseOutcomeTag("SENTINEL_EVENT")
	gt.NoError(t, err)
	gt.V(t, got).Equal(types.OutcomeSentinelEvent)

	_, err = types.ParseOutcomeTag("UNKNOWN_TAG")
	gt.Error(t, err)
}

func TestAllOutcomeTags(t *testing.T) {
	tags := types.AllOutcomeTags()
	gt.A(t, tags).Length(6)
	for _, tag := range tags {
		gt.B(t, tag.IsValid()).
			Describef("Tag %s should be valid", tag).
			True()
	}
}
