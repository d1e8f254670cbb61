package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		region string
		want   string
		ok     bool
	}{
		{name: "national us number", input: "(201) 555-0123", region: "US", want: "+12015550123", ok: true},
		{name: "already international", input: "+44 121 234 5678", region: "US", want: "+441212345678", ok: true},
		{name: "empty region falls back", input: "201-555-0123", region: "", want: "+12015550123", ok: true},
		{name: "garbage", input: "call me maybe", region: "US", ok: false},
		{name: "blank", input: "   ", region: "US", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeE164(tc.input, tc.region)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
