package mesh

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

const objCommentChar = "#"

// NewFromFile reads a mesh from a Wavefront OBJ file.
func NewFromFile(fn string) (*Mesh, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	m, err := ReadOBJ(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", fn)
	}
	return m, nil
}

// ReadOBJ parses the geometry of a Wavefront OBJ stream: "v" and "f" records. Polygons are fan
// triangulated, negative (relative) indices are resolved and texture/normal references are ignored,
// as is every other record type.
func ReadOBJ(inRaw io.Reader) (*Mesh, error) {
	in := bufio.NewReader(inRaw)
	var vertices []r3.Vector
	var faces []Face
	for lineNum := 1; ; lineNum++ {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		atEOF := err != nil

		line, _, _ = strings.Cut(line, objCommentChar)
		tokens := strings.Fields(line)
		if len(tokens) > 0 {
			switch tokens[0] {
			case "v":
				v, err := parseOBJVertex(tokens[1:])
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNum)
				}
				vertices = append(vertices, v)
			case "f":
				polygon, err := parseOBJFace(tokens[1:], len(vertices))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNum)
				}
				for i := 1; i+1 < len(polygon); i++ {
					faces = append(faces, Face{polygon[0], polygon[i], polygon[i+1]})
				}
			}
		}
		if atEOF {
			break
		}
	}
	return New(vertices, faces)
}

func parseOBJVertex(tokens []string) (r3.Vector, error) {
	// an optional w component is allowed and ignored
	if len(tokens) < 3 {
		return r3.Vector{}, errors.Errorf("vertex needs 3 coordinates, got %d", len(tokens))
	}
	var coords [3]float64
	for i := range coords {
		val, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "invalid vertex coordinate %q", tokens[i])
		}
		coords[i] = val
	}
	return r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func parseOBJFace(tokens []string, numVertices int) ([]VertexID, error) {
	if len(tokens) < 3 {
		return nil, errors.Errorf("face needs at least 3 corners, got %d", len(tokens))
	}
	ret := make([]VertexID, 0, len(tokens))
	for _, token := range tokens {
		ref, _, _ := strings.Cut(token, "/")
		idx, err := strconv.Atoi(ref)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid face corner %q", token)
		}
		switch {
		case idx > 0:
			idx--
		case idx < 0:
			idx += numVertices
		default:
			return nil, errors.New("face corner index 0 is not valid")
		}
		if idx < 0 || idx >= numVertices {
			return nil, errors.Errorf("face corner %q refers to a vertex not yet defined", token)
		}
		ret = append(ret, VertexID(idx))
	}
	return ret, nil
}

// WriteOBJ writes the vertices and faces as a Wavefront OBJ stream.
func WriteOBJ(m *Mesh, out io.Writer) error {
	w := bufio.NewWriter(out)
	for _, v := range m.vertices {
		if _, err := w.WriteString("v " + formatFloat(v.X) + " " + formatFloat(v.Y) + " " + formatFloat(v.Z) + "\n"); err != nil {
			return err
		}
	}
	for _, f := range m.faces {
		line := "f " + strconv.Itoa(int(f[0])+1) + " " + strconv.Itoa(int(f[1])+1) + " " + strconv.Itoa(int(f[2])+1) + "\n"
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return w.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
