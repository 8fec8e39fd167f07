package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangedPasswordAfter(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		changedAt *time.Time
		issuedAt  time.Time
		want      bool
	}{
		{
			name:      "never changed",
			changedAt: nil,
			issuedAt:  base,
			want:      false,
		},
		{
			name:      "changed after issuance",
			changedAt: ptr(base.Add(time.Hour)),
			issuedAt:  base,
			want:      true,
		},
		{
			name:      "changed before issuance",
			changedAt: ptr(base.Add(-time.Hour)),
			issuedAt:  base,
			want:      false,
		},
		{
			name:      "same second counts as not after",
			changedAt: ptr(base.Add(300 * time.Millisecond)),
			issuedAt:  base,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{PasswordChangedAt: tt.changedAt}
			assert.Equal(t, tt.want, u.ChangedPasswordAfter(tt.issuedAt))
		})
	}
}

func TestHasRole(t *testing.T) {
	u := User{Role: RoleLeadGuide}

	assert.True(t, u.HasRole(RoleLeadGuide))
	assert.True(t, u.HasRole(RoleAdmin, RoleLeadGuide))
	assert.False(t, u.HasRole(RoleAdmin))
	assert.False(t, u.HasRole())
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin} {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func ptr[T any](v T) *T { return &v }
