package md6

// Part holds the decoded geometry of one marker-delimited section of an
// MD6 mesh container. Verts and UVs are index-aligned; Normals, when
// present, aligns with Verts as well. Face indices are 0-based.
type Part struct {
	Verts   [][3]float32
	UVs     [][2]float32
	Faces   [][3]uint16
	Normals [][3]float32 // nil unless smooth shading was applied
}
