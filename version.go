package portal

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

// ParseGLVersion extracts the version from a GL_VERSION string such as
// "4.6.0 NVIDIA 535.113.01", "4.6 (Core Profile) Mesa 23.2.1" or "OpenGL ES 3.2 Mesa".
func ParseGLVersion(s string) (Version, error) {
	for _, field := range strings.Fields(s) {
		if field == "" || !unicode.IsDigit(rune(field[0])) {
			continue
		}
		v, err := semver.NewVersion(field)
		if err != nil {
			break
		}
		return Version{Major: int(v.Major()), Minor: int(v.Minor())}, nil
	}
	return Version{}, fmt.Errorf("no version in GL_VERSION %q", s)
}
