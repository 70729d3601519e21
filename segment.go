package imagehash

import "image"

// findAllSegments partitions the intensity grid into 4-connected regions of
// pixels lying on the same side of the brightness threshold, a two-level
// watershed of bright hills and dark valleys. Regions holding fewer than
// minSize pixels are discarded. Segments are returned in scan discovery
// order.
func findAllSegments(pixels [][]float64, threshold float64, minSize int) [][]image.Point {
	height := len(pixels)
	if height == 0 {
		return nil
	}
	width := len(pixels[0])
	visited := make([][]bool, height)
	for row := range visited {
		visited[row] = make([]bool, width)
	}

	var segments [][]image.Point
	for row := 0; row < height; row++ {
		for column := 0; column < width; column++ {
			if visited[row][column] {
				continue
			}
			bright := pixels[row][column] > threshold
			segment := floodRegion(pixels, visited, image.Pt(column, row), threshold, bright)
			if len(segment) >= minSize {
				segments = append(segments, segment)
			}
		}
	}
	return segments
}

// floodRegion grows a region from the start pixel with a breadth-first
// flood fill, collecting every reachable unvisited pixel on the same side
// of the threshold.
func floodRegion(pixels [][]float64, visited [][]bool, start image.Point, threshold float64, bright bool) []image.Point {
	height := len(pixels)
	width := len(pixels[0])
	visited[start.Y][start.X] = true
	queue := []image.Point{start}
	var segment []image.Point
	for len(queue) > 0 {
		pixel := queue[0]
		queue = queue[1:]
		segment = append(segment, pixel)
		neighbors := [4]image.Point{
			{pixel.X - 1, pixel.Y},
			{pixel.X + 1, pixel.Y},
			{pixel.X, pixel.Y - 1},
			{pixel.X, pixel.Y + 1},
		}
		for _, neighbor := range neighbors {
			if neighbor.X < 0 || neighbor.X >= width || neighbor.Y < 0 || neighbor.Y >= height {
				continue
			}
			if visited[neighbor.Y][neighbor.X] {
				continue
			}
			if (pixels[neighbor.Y][neighbor.X] > threshold) != bright {
				continue
			}
			visited[neighbor.Y][neighbor.X] = true
			queue = append(queue, neighbor)
		}
	}
	return segment
}

// boundingBox returns the smallest rectangle containing every pixel of the
// segment. The maximum edges are exclusive.
func boundingBox(segment []image.Point) image.Rectangle {
	box := image.Rectangle{Min: segment[0], Max: segment[0]}
	for _, pixel := range segment[1:] {
		if pixel.X < box.Min.X {
			box.Min.X = pixel.X
		}
		if pixel.X > box.Max.X {
			box.Max.X = pixel.X
		}
		if pixel.Y < box.Min.Y {
			box.Min.Y = pixel.Y
		}
		if pixel.Y > box.Max.Y {
			box.Max.Y = pixel.Y
		}
	}
	box.Max.X++
	box.Max.Y++
	return box
}
