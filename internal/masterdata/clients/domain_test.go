package clients

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"José Pérez":       "jose perez",
		"  MARÍA   López ": "maria lopez",
		"nuñez":            "nunez",
		"plain name":       "plain name",
		"":                 "",
	}
	for in, want := range cases {
		require.Equal(t, want, Normalize(in), "input %q", in)
	}
}
