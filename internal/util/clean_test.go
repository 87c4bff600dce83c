package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanReason(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "sick leave", "sick leave"},
		{"empty", "", ""},
		{"bom", "\xEF\xBB\xBFsick leave", "sick leave"},
		{"curly quotes", "\u201Cmother\u2019s surgery\u201D", "\"mother's surgery\""},
		{"dash and nbsp", "exam\u00a0\u2013 prep", "exam - prep"},
		{"invalid utf8", "flu\xff day", "flu\uFFFD day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanReason(tt.in))
		})
	}
}
