package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/ember/pkg/math3d"
)

// OBJLoader reads Wavefront OBJ geometry: v, vt, vn and f records.
// Polygons are fan-triangulated and identical v/vt/vn triples share one
// vertex.
type OBJLoader struct {
	// FlipV converts OBJ's bottom-left texture origin to the top-left
	// origin textures are sampled with.
	FlipV bool
	// LeftHanded mirrors Z and reverses winding after loading.
	LeftHanded bool
	// CalculateTangents derives tangents from UVs.
	CalculateTangents bool
}

// NewOBJLoader creates an OBJ loader with default options.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		FlipV:             true,
		LeftHanded:        true,
		CalculateTangents: true,
	}
}

// LoadOBJ loads an OBJ file with default options.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().Load(path)
}

// Load opens and parses an OBJ file.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := l.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return mesh, nil
}

// Parse reads OBJ records from r.
func (l *OBJLoader) Parse(r io.Reader, name string) (*Mesh, error) {
	var (
		positions []math3d.Vec3
		uvs       []math3d.Vec2
		normals   []math3d.Vec3
		vertices  []Vertex
		indices   []uint32
	)
	lookup := make(map[[3]int]uint32)

	resolve := func(ref string) (uint32, error) {
		var key [3]int
		parts := strings.Split(ref, "/")
		for i := 0; i < len(parts) && i < 3; i++ {
			if parts[i] == "" {
				continue
			}
			n, err := strconv.Atoi(parts[i])
			if err != nil {
				return 0, fmt.Errorf("face reference %q: %w", ref, err)
			}
			key[i] = n
		}
		if idx, ok := lookup[key]; ok {
			return idx, nil
		}

		var v Vertex
		p, ok := objIndex(key[0], len(positions))
		if !ok {
			return 0, fmt.Errorf("position %d: %w", key[0], ErrIndexRange)
		}
		v.Position = positions[p]
		if key[1] != 0 {
			t, ok := objIndex(key[1], len(uvs))
			if !ok {
				return 0, fmt.Errorf("texcoord %d: %w", key[1], ErrIndexRange)
			}
			v.UV = uvs[t]
		}
		if key[2] != 0 {
			n, ok := objIndex(key[2], len(normals))
			if !ok {
				return 0, fmt.Errorf("normal %d: %w", key[2], ErrIndexRange)
			}
			v.Normal = normals[n]
		}

		idx := uint32(len(vertices))
		vertices = append(vertices, v)
		lookup[key] = idx
		return idx, nil
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v", "vn":
			vals, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			v := math3d.V3(vals[0], vals[1], vals[2])
			if fields[0] == "v" {
				positions = append(positions, v)
			} else {
				normals = append(normals, v)
			}
		case "vt":
			vals, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if l.FlipV {
				vals[1] = 1 - vals[1]
			}
			uvs = append(uvs, math3d.V2(vals[0], vals[1]))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs 3 vertices, got %d", line, len(fields)-1)
			}
			first, err := resolve(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			prev, err := resolve(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			for _, ref := range fields[3:] {
				cur, err := resolve(ref)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				indices = append(indices, first, prev, cur)
				prev = cur
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(indices) == 0 {
		return nil, ErrNoGeometry
	}

	mesh := NewMesh(name, vertices, indices, TriangleList)
	if l.LeftHanded {
		mesh.ToLeftHanded()
	}
	// Computed normals follow winding, so only after conversion
	if len(normals) == 0 {
		mesh.CalculateSmoothNormals()
	}
	if l.CalculateTangents {
		mesh.CalculateTangents()
	}
	return mesh, nil
}

// objIndex resolves a 1-based or negative (relative) OBJ index.
func objIndex(n, count int) (int, bool) {
	switch {
	case n > 0 && n <= count:
		return n - 1, true
	case n < 0 && -n <= count:
		return count + n, true
	}
	return 0, false
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	vals := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", fields[i], err)
		}
		vals[i] = v
	}
	return vals, nil
}
