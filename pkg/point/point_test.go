package point

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse("(52.52, 13.405)")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 52.52, Y: 13.405}, p)

	p, err = Parse("1,-2")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1, Y: -2}, p)

	for _, bad := range []string{"", "(1)", "(a,b)", "(1,2,3)", "(NaN,1)", "(Inf,1)"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidPoint, bad)
	}
}

func TestValueScanRoundTrip(t *testing.T) {
	v, err := Point{X: 1.5, Y: -3}.Value()
	require.NoError(t, err)
	assert.Equal(t, "(1.5,-3)", v)

	var p Point
	require.NoError(t, p.Scan([]byte("(1.5,-3)")))
	assert.Equal(t, Point{X: 1.5, Y: -3}, p)

	assert.Error(t, p.Scan(42))
}

func TestBoxContains(t *testing.T) {
	b := Box{Min: Point{X: 0, Y: 0}, Max: Point{X: 10, Y: 10}}
	assert.True(t, b.Contains(Point{X: 0, Y: 10}))
	assert.True(t, b.Contains(Point{X: 5, Y: 5}))
	assert.False(t, b.Contains(Point{X: 10.1, Y: 5}))
}

func TestScan_Null(t *testing.T) {
	p := Point{X: 7, Y: 8}

	err := p.Scan(nil)
	assert.ErrorIs(t, err, ErrInvalidPoint)
	assert.Equal(t, Point{X: 7, Y: 8}, p, "a NULL never becomes a location")
}
