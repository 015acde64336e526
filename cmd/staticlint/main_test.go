package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

func TestAllAnalyzers(t *testing.T) {
	analyzers := allAnalyzers()

	names := make(map[string]bool, len(analyzers))
	for _, a := range analyzers {
		require.NotNil(t, a)
		assert.False(t, names[a.Name], "duplicate analyzer %s", a.Name)
		names[a.Name] = true
	}

	for _, want := range []string{"printf", "shadow", "SA1000", "S1008", "ST1005", "ineffassign", "noosexit"} {
		assert.True(t, names[want], "missing analyzer %s", want)
	}
}

func TestSelectStaticcheck(t *testing.T) {
	got := selectStaticcheck(map[string]bool{"S1008": true}, staticcheck.Analyzers, simple.Analyzers, stylecheck.Analyzers)

	var sa int
	for _, a := range staticcheck.Analyzers {
		if a.Analyzer.Name[:2] == "SA" {
			sa++
		}
	}
	assert.Len(t, got, sa+1)
	assert.Equal(t, "S1008", got[len(got)-1].Name)
}
