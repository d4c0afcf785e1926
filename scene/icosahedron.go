package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	phi = (1 + math32.Sqrt(5)) / 2

	icoVertices = []mgl32.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}

	icoFaces = [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// NewIcosahedron builds a non-indexed icosphere. Every face of the
// icosahedron is split into (detail+1)^2 triangles whose vertices are
// projected onto the sphere of the given radius, giving
// 60*(detail+1)^2 vertices.
func NewIcosahedron(radius float32, detail int) *Geometry {
	if detail < 0 {
		detail = 0
	}
	cols := detail + 1
	pos := make([]float32, 0, 60*cols*cols*3)

	push := func(v mgl32.Vec3) {
		v = v.Normalize().Mul(radius)
		pos = append(pos, v[0], v[1], v[2])
	}

	for _, f := range icoFaces {
		a, b, c := icoVertices[f[0]], icoVertices[f[1]], icoVertices[f[2]]

		v := make([][]mgl32.Vec3, cols+1)
		for i := 0; i <= cols; i++ {
			t := float32(i) / float32(cols)
			aj := lerp(a, c, t)
			bj := lerp(b, c, t)
			rows := cols - i
			v[i] = make([]mgl32.Vec3, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					v[i][j] = aj
					continue
				}
				v[i][j] = lerp(aj, bj, float32(j)/float32(rows))
			}
		}

		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					push(v[i][k+1])
					push(v[i+1][k])
					push(v[i][k])
				} else {
					push(v[i][k+1])
					push(v[i+1][k+1])
					push(v[i+1][k])
				}
			}
		}
	}

	return NewGeometry(pos)
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
