package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	cases := map[string]string{
		"Hello World":                  "hello-world",
		"Go 1.23 Release Notes":        "go-1-23-release-notes",
		"  Trimmed  ":                  "trimmed",
		"Café au Lait":                 "cafe-au-lait",
		"C++ vs. Go!":                  "c-vs-go",
		"already-slugged":              "already-slugged",
		"Multiple---Hyphens   Spaces":  "multiple-hyphens-spaces",
		"ÅNGSTRÖM":                     "angstrom",
	}

	for input, want := range cases {
		assert.Equal(t, want, From(input), "input=%q", input)
	}
}

func TestFrom_EmptyResults(t *testing.T) {
	assert.Equal(t, "", From(""))
	assert.Equal(t, "", From("!!!"))
}
