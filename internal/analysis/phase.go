package analysis

import "strings"

type Point struct{ X, Y float64 }

// Trajectory zips two equally long series into points.
func Trajectory(xs, ys []float64) []Point {
	n := min(len(xs), len(ys))
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		out[i] = Point{xs[i], ys[i]}
	}
	return out
}

// TrajectoryToASCII plots points on a width x height grid. Early samples
// are drawn as '.', the middle third as 'o' and the last third as '•'.
func TrajectoryToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case i < len(points)/3:
			canvas[row][col] = '.'
		case i < 2*len(points)/3:
			canvas[row][col] = 'o'
		default:
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
