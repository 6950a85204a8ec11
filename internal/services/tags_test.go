package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTagsLongestFirst(t *testing.T) {
	tags := extractTags("Environmental impact assessment", "Preliminary review of the riverbank development")

	assert.Equal(t, []string{"environmental", "preliminary", "development", "assessment", "riverbank"}, tags)
}

func TestExtractTagsSkipsStopwordsAndShortTokens(t *testing.T) {
	tags := extractTags("The report about it", "This was for them")

	assert.Equal(t, []string{"report"}, tags)
}

func TestExtractTagsDeduplicates(t *testing.T) {
	tags := extractTags("Budget budget BUDGET", "budget revision")

	assert.Equal(t, []string{"revision", "budget"}, tags)
}

func TestExtractTagsCapsAtFive(t *testing.T) {
	tags := extractTags("alpha bravo charlie delta echo foxtrot golf", "")

	assert.Len(t, tags, 5)
	assert.NotContains(t, tags, "echo", "shorter tokens lose to longer ones")
}

func TestExtractTagsDeterministicOnTies(t *testing.T) {
	first := extractTags("one two six ten", "")
	second := extractTags("one two six ten", "")

	assert.Equal(t, first, second)
}

func TestExtractTagsEmptyInput(t *testing.T) {
	assert.Empty(t, extractTags("", ""))
}
