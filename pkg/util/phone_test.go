package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidVNPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{name: "Local format", phone: "0912345678", want: true},
		{name: "International format", phone: "+84912345678", want: true},
		{name: "Too short", phone: "091234567", want: false},
		{name: "Too long", phone: "09123456789", want: false},
		{name: "Missing prefix", phone: "912345678", want: false},
		{name: "Letters", phone: "091234567a", want: false},
		{name: "Empty", phone: "", want: false},
		{name: "Plus without country code", phone: "+0912345678", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidVNPhone(tt.phone))
		})
	}
}
