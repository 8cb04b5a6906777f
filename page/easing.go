package page

import "github.com/chewxy/math32"

// easeOutCubic maps linear progress onto the deceleration curve used for
// reveal and stroke transitions.
func easeOutCubic(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return 1 - math32.Pow(1-t, 3)
}

// lerp interpolates between a and b at eased progress t.
func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// polylineLength sums the segment lengths of a point sequence. It backs the
// dash length of synthesized and demo paths.
func polylineLength(points [][2]float32) float32 {
	var total float32
	for i := 1; i < len(points); i++ {
		dx := points[i][0] - points[i-1][0]
		dy := points[i][1] - points[i-1][1]
		total += math32.Hypot(dx, dy)
	}
	return total
}

// wavePoints builds the zigzag polyline used for synthesized stroke paths.
func wavePoints(width, amplitude float32, segments int) [][2]float32 {
	if segments < 1 {
		segments = 1
	}
	points := make([][2]float32, 0, segments+1)
	step := width / float32(segments)
	for i := 0; i <= segments; i++ {
		y := amplitude
		if i%2 == 1 {
			y = -amplitude
		}
		points = append(points, [2]float32{float32(i) * step, y})
	}
	return points
}
