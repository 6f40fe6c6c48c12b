package pointcloud

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// requiredFields is the field layout the reader and writer agree on.
var requiredFields = []string{"x", "y", "z", "normal_x", "normal_y", "normal_z"}

// ReadPCD parses an ASCII PCD stream carrying positions and normals.
// Binary PCD data is not supported.
func ReadPCD(in io.Reader) (*Cloud, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fieldCol := map[string]int{}
	expected := -1
	inHeader := true
	var positions, normals []r3.Vector

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		if inHeader {
			switch tokens[0] {
			case "FIELDS":
				for i, name := range tokens[1:] {
					fieldCol[name] = i
				}
			case "POINTS":
				n, err := strconv.Atoi(tokens[1])
				if err != nil {
					return nil, errors.Wrap(err, "malformed POINTS header")
				}
				expected = n
			case "DATA":
				if len(tokens) < 2 || tokens[1] != "ascii" {
					return nil, errors.Errorf("unsupported PCD data format %q", strings.Join(tokens[1:], " "))
				}
				for _, name := range requiredFields {
					if _, ok := fieldCol[name]; !ok {
						return nil, errors.Errorf("PCD header missing field %q", name)
					}
				}
				inHeader = false
			}
			continue
		}
		values := make([]float64, len(tokens))
		for i, tok := range tokens {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "malformed point on line %d of data", len(positions)+1)
			}
			values[i] = v
		}
		if len(values) < len(fieldCol) {
			return nil, errors.Errorf("point %d has %d fields, want %d", len(positions), len(values), len(fieldCol))
		}
		positions = append(positions, r3.Vector{
			X: values[fieldCol["x"]],
			Y: values[fieldCol["y"]],
			Z: values[fieldCol["z"]],
		})
		normals = append(normals, r3.Vector{
			X: values[fieldCol["normal_x"]],
			Y: values[fieldCol["normal_y"]],
			Z: values[fieldCol["normal_z"]],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if inHeader {
		return nil, errors.New("PCD stream ended before DATA header")
	}
	if expected >= 0 && expected != len(positions) {
		return nil, errors.Errorf("PCD header promised %d points, got %d", expected, len(positions))
	}
	return New(positions, normals)
}

// WritePCD writes the cloud as ASCII PCD with normals.
func WritePCD(cloud *Cloud, out io.Writer) error {
	w := bufio.NewWriter(out)
	n := cloud.Size()
	header := fmt.Sprintf(`VERSION .7
FIELDS %s
SIZE 4 4 4 4 4 4
TYPE F F F F F F
COUNT 1 1 1 1 1 1
WIDTH %d
HEIGHT 1
VIEWPOINT 0 0 0 1 0 0 0
POINTS %d
DATA ascii
`, strings.Join(requiredFields, " "), n, n)
	if _, err := w.WriteString(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		p, nv := cloud.At(i), cloud.Normal(i)
		if _, err := fmt.Fprintf(w, "%v %v %v %v %v %v\n", p.X, p.Y, p.Z, nv.X, nv.Y, nv.Z); err != nil {
			return err
		}
	}
	return w.Flush()
}
