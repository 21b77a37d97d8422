package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain term", "math", "math"},
		{"percent treated literally", "100%", `100\%`},
		{"underscore treated literally", "room_a", `room\_a`},
		{"backslash escaped first", `c:\math`, `c:\\math`},
		{"mixed metacharacters", `%_\`, `\%\_\\`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, escapeLike(tc.in))
		})
	}
}

func TestLessonPatchEmpty(t *testing.T) {
	assert.True(t, LessonPatch{}.Empty())

	subject := "Mathematics"
	assert.False(t, LessonPatch{Subject: &subject}.Empty())

	spaces := int64(0)
	assert.False(t, LessonPatch{Spaces: &spaces}.Empty())
}
