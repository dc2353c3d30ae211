package md6

import "wolf2-tools/internal/mathutil"

// Transforms selects which geometry passes Apply runs. The pass order is
// fixed: rotation, UV flip, winding flip, then normals, so that normals
// are computed from final positions and final winding.
type Transforms struct {
	RotateX       bool // -90° about X
	FlipUV        bool
	FlipWinding   bool
	SmoothNormals bool
}

// DefaultTransforms matches the conversion the game assets need.
var DefaultTransforms = Transforms{
	RotateX:       true,
	FlipUV:        true,
	FlipWinding:   true,
	SmoothNormals: true,
}

// Apply runs the enabled passes in order. When SmoothNormals is off the
// part carries no normals at all.
func (t Transforms) Apply(p *Part) {
	if t.RotateX {
		RotateXMinus90(p.Verts)
	}
	if t.FlipUV {
		FlipUVs(p.UVs)
	}
	if t.FlipWinding {
		FlipWinding(p.Faces)
	}
	if t.SmoothNormals {
		p.Normals = SmoothNormals(p.Verts, p.Faces)
	} else {
		p.Normals = nil
	}
}

// RotateXMinus90 maps (x, y, z) to (x, z, -y) in place. An exact
// coordinate permutation, no trigonometric error.
func RotateXMinus90(verts [][3]float32) {
	for i, v := range verts {
		verts[i] = [3]float32{v[0], v[2], -v[1]}
	}
}

// FlipUVs maps (u, v) to (u, 1-v) in place, converting between
// top-left-origin and bottom-left-origin texture conventions.
func FlipUVs(uvs [][2]float32) {
	for i, uv := range uvs {
		uvs[i] = [2]float32{uv[0], 1 - uv[1]}
	}
}

// FlipWinding swaps the second and third index of every face in place,
// reversing the front-facing direction.
func FlipWinding(faces [][3]uint16) {
	for i, f := range faces {
		faces[i] = [3]uint16{f[0], f[2], f[1]}
	}
}

// SmoothNormals accumulates each face's unnormalized cross product into
// its three vertices and normalizes the sums. A vertex referenced by no
// face gets the +Z unit normal rather than a NaN.
func SmoothNormals(verts [][3]float32, faces [][3]uint16) [][3]float32 {
	sums := make([]mathutil.Vec3, len(verts))

	for _, f := range faces {
		v0 := vec3(verts[f[0]])
		v1 := vec3(verts[f[1]])
		v2 := vec3(verts[f[2]])
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		for _, idx := range f {
			sums[idx] = sums[idx].Add(n)
		}
	}

	normals := make([][3]float32, len(verts))
	for i, s := range sums {
		if s.Len() > 0 {
			s = s.Normalize()
			normals[i] = [3]float32{float32(s[0]), float32(s[1]), float32(s[2])}
		} else {
			normals[i] = [3]float32{0, 0, 1}
		}
	}
	return normals
}

func vec3(v [3]float32) mathutil.Vec3 {
	return mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
