package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestPerformanceBand(t *testing.T) {
	tests := []struct {
		name  string
		score *float64
		want  string
	}{
		{"top of scale", floatPtr(5.0), BandSuperior},
		{"superior threshold", floatPtr(4.5), BandSuperior},
		{"just below superior", floatPtr(4.4999), BandAlto},
		{"alto threshold", floatPtr(4.0), BandAlto},
		{"just below alto", floatPtr(3.99), BandBasico},
		{"basico threshold", floatPtr(3.0), BandBasico},
		{"just below basico", floatPtr(2.99), BandBajo},
		{"zero", floatPtr(0.0), BandBajo},
		{"no score", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PerformanceBand(tt.score))
		})
	}
}

func TestActionCapability(t *testing.T) {
	tests := []struct {
		action Action
		want   Capability
	}{
		{ActionView, CanView},
		{ActionCreate, CanCreate},
		{ActionEdit, CanEdit},
		{ActionDelete, CanDelete},
		{ActionImport, CanCreate},
		{ActionExport, CanView},
		{ActionPrint, CanView},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			got, err := tt.action.Capability()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionCapability_Unknown(t *testing.T) {
	_, err := Action("volar").Capability()
	assert.Error(t, err)
}

func TestPermissionAllows(t *testing.T) {
	p := Permission{CanView: true, CanEdit: true}

	assert.True(t, p.Allows(CanView))
	assert.True(t, p.Allows(CanEdit))
	assert.False(t, p.Allows(CanCreate))
	assert.False(t, p.Allows(CanDelete))
}

func TestGroupScope(t *testing.T) {
	assert.True(t, ScopeAllGroups().AllGroups())
	assert.False(t, ScopeGroup(7).AllGroups())

	wildcard := TeacherAssignment{SubjectID: 1}
	assert.True(t, wildcard.Scope().AllGroups())

	gid := int64(7)
	anchored := TeacherAssignment{SubjectID: 1, GroupID: &gid}
	assert.False(t, anchored.Scope().AllGroups())
}
