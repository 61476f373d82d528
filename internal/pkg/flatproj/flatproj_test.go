package flatproj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectUnprojectRoundTrip(t *testing.T) {
	p := New(37.7765494, -122.4195418)

	lat, lng := p.Unproject(p.Project(37.78, -122.41))
	assert.InDelta(t, 37.78, lat, 1e-9)
	assert.InDelta(t, -122.41, lng, 1e-9)
}

func TestUnprojectMovesNorthAndEast(t *testing.T) {
	p := New(37.7765494, -122.4195418)

	lat, lng := p.Unproject(Point{X: 1, Y: 1})
	assert.Greater(t, lat, 37.7765494)
	assert.Greater(t, lng, -122.4195418)

	// One kilometer north is about 0.009 degrees of latitude.
	assert.InDelta(t, 37.7765494+0.00899, lat, 0.0005)
}

func TestOriginProjectsToZero(t *testing.T) {
	p := New(52.0, 13.0)
	pt := p.Project(52.0, 13.0)
	assert.InDelta(t, 0, pt.X, 1e-12)
	assert.InDelta(t, 0, pt.Y, 1e-12)
}
