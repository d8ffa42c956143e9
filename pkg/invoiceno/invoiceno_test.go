package invoiceno

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(year int) time.Time {
	return time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func TestNextIncrementsWithinYear(t *testing.T) {
	assert.Equal(t, "INV/2024/0000000008", Next("INV/2024/0000000007", at(2024)))
}

func TestNextRollsOverOnNewYear(t *testing.T) {
	assert.Equal(t, "INV/2024/0000000001", Next("INV/2023/0000000007", at(2024)))
}

func TestNextStartsAtOneWithoutPrior(t *testing.T) {
	assert.Equal(t, "INV/2024/0000000001", Next("", at(2024)))
}

func TestNextResetsOnMalformedLatest(t *testing.T) {
	for _, latest := range []string{
		"INV/2024/seven",
		"INV-2024-0000000007",
		"2024/0000000007",
		"INV/2024/07", // not zero padded to width
		"garbage",
	} {
		assert.Equal(t, "INV/2024/0000000001", Next(latest, at(2024)), "latest=%q", latest)
	}
}

func TestNextZeroSequenceResets(t *testing.T) {
	assert.Equal(t, "INV/2024/0000000001", Next("INV/2024/0000000000", at(2024)))
}

func TestFormatPadsSequence(t *testing.T) {
	assert.Equal(t, "INV/2026/0000000042", Format(2026, 42))
}

func TestPatternAcceptsExactShapeOnly(t *testing.T) {
	assert.True(t, Pattern.MatchString("INV/2026/0000000001"))
	assert.False(t, Pattern.MatchString("INV/2026/001"))
	assert.False(t, Pattern.MatchString("inv/2026/0000000001"))
	assert.False(t, Pattern.MatchString("INV/2026/0000000001x"))
}

func TestYearPrefix(t *testing.T) {
	assert.Equal(t, "INV/2026/", YearPrefix(2026))
}
