package deltacamera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-9

func rotationY(deg float64) *mat.Dense {
	s, c := math.Sincos(deg * math.Pi / 180)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func testCamera(t *testing.T, opts ...Option) *Camera {
	t.Helper()
	base := []Option{WithIntrinsics(NewIntrinsics(1000, 1000, 640, 360))}
	cam, err := NewCamera(append(base, opts...)...)
	require.NoError(t, err)
	return cam
}

func assertVecInDelta(t *testing.T, want, got r3.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "X")
	assert.InDelta(t, want.Y, got.Y, delta, "Y")
	assert.InDelta(t, want.Z, got.Z, delta, "Z")
}

func TestNewCamera_Defaults(t *testing.T) {
	cam, err := NewCamera()
	require.NoError(t, err)

	assert.True(t, mat.Equal(identity3(), cam.Intrinsics()))
	assert.True(t, mat.Equal(identity3(), cam.Rotation()))
	assert.Equal(t, r3.Vec{}, cam.OpticalCenter())
	assert.Equal(t, r3.Vec{Y: -1}, cam.WorldUp())
	assert.False(t, cam.HasDistortion())
	assert.Equal(t, Distortion{}, cam.Distortion())
}

func TestNewCamera_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
		want string
	}{
		{"zero focal length", WithIntrinsics(NewIntrinsics(0, 1000, 640, 360)), "focal lengths"},
		{"negative fy", WithIntrinsics(NewIntrinsics(1000, -1, 640, 360)), "focal lengths"},
		{"bad bottom row", WithIntrinsics(mat.NewDense(3, 3, []float64{1000, 0, 640, 0, 1000, 360, 0, 0, 2})), "upper triangular"},
		{"wrong intrinsic shape", WithIntrinsics(mat.NewDense(2, 2, []float64{1, 0, 0, 1})), "want 3x3"},
		{"scaled rotation", WithRotation(mat.NewDense(3, 3, []float64{2, 0, 0, 0, 2, 0, 0, 0, 2})), "not orthonormal"},
		{"reflection", WithRotation(mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, -1})), "determinant"},
		{"wrong rotation shape", WithRotation(mat.NewDense(2, 3, make([]float64, 6))), "want 3x3"},
		{"zero up", WithWorldUp(r3.Vec{}), "world up"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cam, err := NewCamera(tt.opt)
			require.ErrorIs(t, err, ErrInvalidCamera)
			assert.Contains(t, err.Error(), tt.want)
			assert.Nil(t, cam)
		})
	}
}

func TestNewCamera_CopiesMatrices(t *testing.T) {
	k := NewIntrinsics(1000, 1000, 640, 360)
	cam := testCamera(t, WithIntrinsics(k))

	k.Set(0, 0, 1)
	assert.Equal(t, 1000.0, cam.Intrinsics().At(0, 0))

	got := cam.Intrinsics()
	got.Set(0, 2, 0)
	assert.Equal(t, 640.0, cam.Intrinsics().At(0, 2))
}

func TestCamera_WorldToImage(t *testing.T) {
	cam := testCamera(t)

	pixels, valid := cam.WorldToImage([]r3.Vec{
		{X: 1, Y: 0.5, Z: 10},
		{X: 0, Y: 0, Z: 5},
		{X: 1, Y: 1, Z: -2},
		{X: 1, Y: 1, Z: 0},
	})

	require.Len(t, pixels, 4)
	assert.Equal(t, []bool{true, true, false, false}, valid)
	assert.InDelta(t, 740, pixels[0].X, eps)
	assert.InDelta(t, 410, pixels[0].Y, eps)
	assert.InDelta(t, 640, pixels[1].X, eps)
	assert.InDelta(t, 360, pixels[1].Y, eps)
	assert.True(t, math.IsNaN(pixels[2].X) && math.IsNaN(pixels[2].Y))
	assert.True(t, math.IsNaN(pixels[3].X))
}

func TestCamera_WorldCameraRoundTrip(t *testing.T) {
	cam := testCamera(t,
		WithRotation(rotationY(30)),
		WithOpticalCenter(r3.Vec{X: 2, Y: -1, Z: 0.5}),
	)

	world := []r3.Vec{{X: 1, Y: 2, Z: 3}, {X: -4, Y: 0, Z: 12}, {}}
	back := cam.CameraToWorld(cam.WorldToCamera(world))

	for i := range world {
		assertVecInDelta(t, world[i], back[i], eps)
	}

	// The optical center maps to the camera origin.
	assertVecInDelta(t, r3.Vec{}, cam.WorldToCamera([]r3.Vec{cam.OpticalCenter()})[0], eps)
}

func TestCamera_ImageToCameraInvertsProjection(t *testing.T) {
	cam := testCamera(t, WithDistortion(Distortion{-0.25, 0.08, 0.001, -0.0007, -0.01}))
	require.True(t, cam.HasDistortion())

	points := []r3.Vec{
		{X: 0, Y: 0, Z: 4},
		{X: 1, Y: 0.5, Z: 6},
		{X: -1.2, Y: 0.8, Z: 5},
		{X: 0.3, Y: -0.9, Z: 3},
	}
	pixels, valid := cam.CameraToImage(points)
	rays := cam.ImageToCamera(pixels)

	for i, p := range points {
		require.True(t, valid[i])
		assert.InDelta(t, p.X/p.Z, rays[i].X, 1e-8)
		assert.InDelta(t, p.Y/p.Z, rays[i].Y, 1e-8)
		assert.Equal(t, 1.0, rays[i].Z)
	}
}

func TestCamera_ImageToWorldRay(t *testing.T) {
	center := r3.Vec{X: 1, Y: 2, Z: 3}
	cam := testCamera(t, WithRotation(rotationY(90)), WithOpticalCenter(center))

	origin, dir := cam.ImageToWorldRay(Point2{X: 640, Y: 360})

	assert.Equal(t, center, origin)
	// Camera +Z expressed in world coordinates is the third row of R.
	assertVecInDelta(t, r3.Vec{X: -1, Y: 0, Z: 0}, dir, eps)
	assert.InDelta(t, 1, r3.Norm(dir), eps)
}

func TestCamera_ScaleOutput(t *testing.T) {
	cam := testCamera(t)
	cam.ScaleOutput(0.5)

	k := cam.Intrinsics()
	assert.Equal(t, 500.0, k.At(0, 0))
	assert.Equal(t, 500.0, k.At(1, 1))
	assert.Equal(t, 320.0, k.At(0, 2))
	assert.Equal(t, 180.0, k.At(1, 2))
	assert.Equal(t, 1.0, k.At(2, 2))

	cam.ScaleOutput(-2)
	assert.Equal(t, 500.0, cam.Intrinsics().At(0, 0), "non-positive factor is ignored")

	pixels, _ := cam.CameraToImage([]r3.Vec{{X: 1, Y: 0.5, Z: 10}})
	assert.InDelta(t, 370, pixels[0].X, eps)
	assert.InDelta(t, 205, pixels[0].Y, eps)
}

func TestCamera_ShiftImageAndCopy(t *testing.T) {
	cam := testCamera(t, WithDistortion(Distortion{0.1}))
	cp := cam.Copy()
	cp.ShiftImage(-100, 20)

	assert.Equal(t, 540.0, cp.Intrinsics().At(0, 2))
	assert.Equal(t, 380.0, cp.Intrinsics().At(1, 2))
	assert.Equal(t, 640.0, cam.Intrinsics().At(0, 2), "copy must not share intrinsics")
	assert.Equal(t, cam.Distortion(), cp.Distortion())
	assert.True(t, mat.Equal(cam.Rotation(), cp.Rotation()))
}

func TestDistortUndistort(t *testing.T) {
	t.Parallel()

	d := Distortion{-0.2, 0.05, 0.001, -0.0005, 0}
	for _, p := range []Point2{{0, 0}, {0.1, -0.2}, {0.4, 0.3}, {-0.35, 0.05}} {
		got := Undistort(d, Distort(d, p), DefaultUndistortIterations)
		assert.InDelta(t, p.X, got.X, eps)
		assert.InDelta(t, p.Y, got.Y, eps)
	}
}

func TestDistort_Radial(t *testing.T) {
	// Barrel distortion pulls points toward the center.
	got := Distort(Distortion{-0.1}, Point2{X: 0.5, Y: 0})
	assert.InDelta(t, 0.5*(1-0.1*0.25), got.X, eps)
	assert.Equal(t, 0.0, got.Y)

	assert.Equal(t, Point2{X: 0.3, Y: 0.4}, Distort(Distortion{}, Point2{X: 0.3, Y: 0.4}))
}

func TestUndistort_NoIterations(t *testing.T) {
	p := Point2{X: 0.3, Y: -0.1}
	assert.Equal(t, p, Undistort(Distortion{0.5}, p, 0))
}
