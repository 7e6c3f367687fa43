package models

import (
	"fmt"
	"testing"
)

func TestStringerMethods(t *testing.T) {
	tests := []struct {
		name string
		val  fmt.Stringer
		want string
	}{
		{"BlockKind", KindMethod, "method"},
		{"FixStatus", FixApplied, "applied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.String(); got != tt.want {
				t.Errorf("%s.String() = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
