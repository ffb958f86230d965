package pdf

import "fmt"

// Version identifies a PDF version, used to gate fields whose presence
// requires a minimum version (Field.MinVersion) and to select the encoding
// filters use for version-dependent behaviour.
type Version int

// The PDF versions this package knows about. V1_0 is deliberately the
// smallest non-zero value, so the zero Version (no version set) always
// compares less than every real version.
const (
	_ Version = iota
	V1_0
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

var versionStrings = map[Version]string{
	V1_0: "1.0",
	V1_1: "1.1",
	V1_2: "1.2",
	V1_3: "1.3",
	V1_4: "1.4",
	V1_5: "1.5",
	V1_6: "1.6",
	V1_7: "1.7",
	V2_0: "2.0",
}

var stringVersions = func() map[string]Version {
	m := make(map[string]Version, len(versionStrings))
	for v, s := range versionStrings {
		m[s] = v
	}
	return m
}()

// ParseVersion parses a version string of the form "1.7" or "2.0".
func ParseVersion(s string) (Version, error) {
	v, ok := stringVersions[s]
	if !ok {
		return 0, fmt.Errorf("pdf: invalid version %q", s)
	}
	return v, nil
}

// ToString renders the version in the "1.7" form used in PDF file headers
// and in the /Version entry of the document catalog.
func (v Version) ToString() (string, error) {
	s, ok := versionStrings[v]
	if !ok {
		return "", fmt.Errorf("pdf: invalid version %d", int(v))
	}
	return s, nil
}

func (v Version) String() string {
	s, err := v.ToString()
	if err != nil {
		return fmt.Sprintf("Version(%d)", int(v))
	}
	return s
}
