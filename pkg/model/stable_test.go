package model

import "testing"

func TestStable_MemberRole(t *testing.T) {
	stable := &Stable{
		OwnerPhone: "+14155550100",
		Members: []StableMember{
			{Name: "Riley Chen", Phone: "+14155550122", Role: "admin"},
			{Name: "Dana Brooks", Phone: "+14155550111", Role: "member"},
		},
	}

	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{
			name:  "owner phone without member record",
			phone: "+14155550100",
			want:  "owner",
		},
		{
			name:  "admin member",
			phone: "+14155550122",
			want:  "admin",
		},
		{
			name:  "plain member",
			phone: "+14155550111",
			want:  "member",
		},
		{
			name:  "unknown phone",
			phone: "+14155550199",
			want:  "",
		},
		{
			name:  "empty phone",
			phone: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stable.MemberRole(tt.phone); got != tt.want {
				t.Errorf("MemberRole(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}
