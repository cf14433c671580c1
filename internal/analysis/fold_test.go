package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"plain ascii", "plain ascii"},
		{"Ångström", "Angstrom"},
		{"Æsir œuvre", "AEsir oeuvre"},
		{"Łódź", "Lodz"},
		{"straße", "strasse"},
		{"façade naïve", "facade naive"},
		// combining sequence (e + U+0301) folds like precomposed é
		{"cafe\u0301", "cafe"},
		// no ASCII equivalent: unchanged
		{"日本", "日本"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Fold(tc.in))
		})
	}
}
