package timeindex

import (
	"math"
	"testing"

	"github.com/hupe1980/attrstore/internal/errcat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval_Validate(t *testing.T) {
	tests := []struct {
		name string
		iv   Interval
		ok   bool
	}{
		{"timestamp", Timestamp(3), true},
		{"interval", Span(1, 2), true},
		{"infinite constant", Infinite, true},
		{"inverted", Span(2, 1), false},
		{"nan", Timestamp(math.NaN()), false},
		{"inf", Span(0, math.Inf(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.iv.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, errcat.Argument)
		})
	}
}

func TestInterval_Overlaps(t *testing.T) {
	assert.True(t, Span(1, 3).Overlaps(Span(3, 5)))
	assert.True(t, Timestamp(2).Overlaps(Span(1, 3)))
	assert.False(t, Span(1, 2).Overlaps(Span(2.5, 3)))
	assert.False(t, Timestamp(4).Overlaps(Timestamp(5)))
}

func TestInterval_StringParse(t *testing.T) {
	for _, iv := range []Interval{Timestamp(1.5), Span(-2, 7)} {
		parsed, err := ParseInterval(iv.String())
		require.NoError(t, err)
		assert.Equal(t, iv, parsed)
	}

	_, err := ParseInterval("[3, 1]")
	assert.ErrorIs(t, err, errcat.Argument)
	_, err = ParseInterval("[3]")
	assert.Error(t, err)
	_, err = ParseInterval("soon")
	assert.Error(t, err)
}

func TestRepresentation(t *testing.T) {
	require.NoError(t, RepresentationTimestamp.Check(Timestamp(1)))

	err := RepresentationTimestamp.Check(Span(1, 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, errcat.Argument)
	var re *RepresentationError
	assert.ErrorAs(t, err, &re)

	assert.NoError(t, RepresentationInterval.Check(Span(1, 2)))
	assert.NoError(t, RepresentationInterval.Check(Timestamp(1)))

	var r Representation
	require.NoError(t, r.UnmarshalText([]byte("Interval")))
	assert.Equal(t, RepresentationInterval, r)
	text, err := r.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "interval", string(text))
	assert.Error(t, r.UnmarshalText([]byte("epoch")))
}
