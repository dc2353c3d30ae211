package obj

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wolf2-tools/internal/md6"
)

func TestWriteWithNormals(t *testing.T) {
	t.Parallel()

	p := md6.Part{
		Verts:   [][3]float32{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
		UVs:     [][2]float32{{0.5, 0.25}, {0, 1}, {1, 0}},
		Faces:   [][3]uint16{{0, 2, 1}},
		Normals: [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, p))

	want := `# Extracted from MD6 mesh container
# Vertices: 3
# Faces: 1
# Smooth shading: ON

v 1.000000 2.000000 3.000000
v 4.000000 5.000000 6.000000
v 7.000000 8.000000 9.000000

vn 0.000000 0.000000 1.000000
vn 0.000000 0.000000 1.000000
vn 0.000000 0.000000 1.000000

vt 0.500000 0.250000
vt 0.000000 1.000000
vt 1.000000 0.000000

f 1/1/1 3/3/3 2/2/2
`
	assert.Equal(t, want, sb.String())
}

func TestWriteWithoutNormals(t *testing.T) {
	t.Parallel()

	p := md6.Part{
		Verts: [][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		UVs:   [][2]float32{{0, 0}, {1, 0}, {1, 1}},
		Faces: [][3]uint16{{0, 1, 2}},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, p))

	out := sb.String()
	assert.NotContains(t, out, "vn ")
	assert.NotContains(t, out, "Smooth shading")
	assert.Contains(t, out, "f 1/1 2/2 3/3\n")
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	p := md6.Part{
		Verts: [][3]float32{{0, 0, 0}},
		UVs:   [][2]float32{{0, 0}},
	}
	path := filepath.Join(t.TempDir(), "part.obj")
	require.NoError(t, WriteFile(path, p))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "v 0.000000 0.000000 0.000000\n")
}
