package deltacamera

// DefaultUndistortIterations is the fixed-point iteration count used when
// removing distortion.
const DefaultUndistortIterations = 20

// Distortion holds Brown-Conrady coefficients in OpenCV order:
// k1, k2, p1, p2, k3.
type Distortion [5]float64

// IsZero reports whether all coefficients are zero.
func (d Distortion) IsZero() bool {
	return d == Distortion{}
}

// Distort applies d to a point in normalised image coordinates.
func Distort(d Distortion, p Point2) Point2 {
	k1, k2, p1, p2, k3 := d[0], d[1], d[2], d[3], d[4]
	r2 := p.X*p.X + p.Y*p.Y
	radial := 1 + r2*(k1+r2*(k2+r2*k3))
	return Point2{
		X: p.X*radial + 2*p1*p.X*p.Y + p2*(r2+2*p.X*p.X),
		Y: p.Y*radial + p1*(r2+2*p.Y*p.Y) + 2*p2*p.X*p.Y,
	}
}

// Undistort inverts Distort by fixed-point iteration. It converges for the
// moderate distortion of ordinary lenses; iterations < 1 returns p.
func Undistort(d Distortion, p Point2, iterations int) Point2 {
	k1, k2, p1, p2, k3 := d[0], d[1], d[2], d[3], d[4]
	x, y := p.X, p.Y
	for i := 0; i < iterations; i++ {
		r2 := x*x + y*y
		radial := 1 + r2*(k1+r2*(k2+r2*k3))
		dx := 2*p1*x*y + p2*(r2+2*x*x)
		dy := p1*(r2+2*y*y) + 2*p2*x*y
		x = (p.X - dx) / radial
		y = (p.Y - dy) / radial
	}
	return Point2{X: x, Y: y}
}
