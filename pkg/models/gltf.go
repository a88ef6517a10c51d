package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/ember/pkg/math3d"
	_ "golang.org/x/image/webp"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
//
// TRIANGLES and TRIANGLE_STRIP primitives are read; other modes are
// skipped. A document holding exactly one strip primitive keeps its strip
// topology. Anything else is merged into a single triangle list.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals when the file has none.
	CalculateNormals bool
	// CalculateTangents fills in tangents when the file has none.
	CalculateTangents bool
	// LeftHanded converts from glTF's right-handed, counterclockwise
	// convention.
	LeftHanded bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals:  true,
		CalculateTangents: true,
		LeftHanded:        true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.LoadDocument(doc, filepath.Base(path))
}

type primitiveData struct {
	vertices    []Vertex
	indices     []uint32
	topology    Topology
	hasNormals  bool
	hasTangents bool
}

// LoadDocument converts every triangle primitive of an already decoded
// document into one mesh.
func (l *GLTFLoader) LoadDocument(doc *gltf.Document, name string) (*Mesh, error) {
	var prims []primitiveData
	for _, m := range doc.Meshes {
		for i, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != gltf.PrimitiveTriangleStrip {
				// Skip lines, points, fans
				continue
			}
			data, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
			}
			if len(data.vertices) == 0 {
				continue
			}
			prims = append(prims, data)
		}
	}
	if len(prims) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}

	var (
		mesh        *Mesh
		hasNormals  = true
		hasTangents = true
	)
	if len(prims) == 1 && prims[0].topology == TriangleStrip {
		p := prims[0]
		mesh = NewMesh(name, p.vertices, p.indices, TriangleStrip)
		hasNormals, hasTangents = p.hasNormals, p.hasTangents
	} else {
		mesh = NewMesh(name, nil, nil, TriangleList)
		for _, p := range prims {
			base := uint32(len(mesh.Vertices))
			mesh.Vertices = append(mesh.Vertices, p.vertices...)
			tri := NewMesh("", p.vertices, p.indices, p.topology)
			tri.ForEachTriangle(func(i0, i1, i2 uint32) {
				mesh.Indices = append(mesh.Indices, base+i0, base+i1, base+i2)
			})
			hasNormals = hasNormals && p.hasNormals
			hasTangents = hasTangents && p.hasTangents
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	if l.LeftHanded {
		mesh.ToLeftHanded()
	}
	if l.CalculateNormals && !hasNormals {
		mesh.CalculateSmoothNormals()
	}
	if l.CalculateTangents && !hasTangents {
		mesh.CalculateTangents()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", idx, ErrIndexRange)
	}
	return doc.Accessors[idx], nil
}

// readPrimitive extracts the vertex attributes and indices of prim.
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (primitiveData, error) {
	data := primitiveData{topology: TriangleList}
	if prim.Mode == gltf.PrimitiveTriangleStrip {
		data.topology = TriangleStrip
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return data, nil
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return data, err
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return data, fmt.Errorf("read positions: %w", err)
	}

	data.vertices = make([]Vertex, len(positions))
	for i, p := range positions {
		data.vertices[i].Position = math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return data, err
		}
		normals, err := modeler.ReadNormal(doc, acr, nil)
		if err != nil {
			return data, fmt.Errorf("read normals: %w", err)
		}
		for i := 0; i < len(normals) && i < len(data.vertices); i++ {
			n := normals[i]
			data.vertices[i].Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
		}
		data.hasNormals = len(normals) >= len(data.vertices)
	}

	if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return data, err
		}
		tangents, err := modeler.ReadTangent(doc, acr, nil)
		if err != nil {
			return data, fmt.Errorf("read tangents: %w", err)
		}
		// W holds bitangent handedness; the shader rebuilds it from N x T
		for i := 0; i < len(tangents) && i < len(data.vertices); i++ {
			t := tangents[i]
			data.vertices[i].Tangent = math3d.V3(float64(t[0]), float64(t[1]), float64(t[2]))
		}
		data.hasTangents = len(tangents) >= len(data.vertices)
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return data, err
		}
		uvs, err := modeler.ReadTextureCoord(doc, acr, nil)
		if err != nil {
			return data, fmt.Errorf("read uvs: %w", err)
		}
		// GLTF already uses the top-left texture origin the sampler expects
		for i := 0; i < len(uvs) && i < len(data.vertices); i++ {
			data.vertices[i].UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
		}
	}

	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return data, err
		}
		data.indices, err = modeler.ReadIndices(doc, acr, nil)
		if err != nil {
			return data, fmt.Errorf("read indices: %w", err)
		}
	} else {
		// Non-indexed: vertices are consumed in order
		data.indices = make([]uint32, len(data.vertices))
		for i := range data.indices {
			data.indices[i] = uint32(i)
		}
	}

	return data, nil
}

// LoadGLBWithTextures loads a GLTF or GLB file and returns the mesh along
// with the base color texture of the first textured material, if any.
func LoadGLBWithTextures(path string) (*Mesh, *Material, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := NewGLTFLoader().LoadDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	return mesh, extractMaterial(doc, filepath.Dir(path)), nil
}

// extractMaterial returns the first material with a decodable base color
// texture, or nil.
func extractMaterial(doc *gltf.Document, dir string) *Material {
	for _, mat := range doc.Materials {
		pbr := mat.PBRMetallicRoughness
		if pbr == nil || pbr.BaseColorTexture == nil {
			continue
		}
		img, err := decodeTexture(doc, pbr.BaseColorTexture.Index, dir)
		if err != nil {
			continue
		}
		return &Material{
			Name:      mat.Name,
			BaseColor: [4]float64{1, 1, 1, 1},
			BaseMap:   img,
		}
	}
	return nil
}

// decodeTexture resolves a texture index to its decoded source image.
// Images live either in a buffer view (GLB) or beside the document.
func decodeTexture(doc *gltf.Document, texIdx int, dir string) (image.Image, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return nil, fmt.Errorf("texture %d: %w", texIdx, ErrIndexRange)
	}
	imgIdx := *doc.Textures[texIdx].Source
	if imgIdx < 0 || imgIdx >= len(doc.Images) {
		return nil, fmt.Errorf("image %d: %w", imgIdx, ErrIndexRange)
	}
	img := doc.Images[imgIdx]

	var raw []byte
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			return nil, fmt.Errorf("image %d buffer view: %w", imgIdx, ErrIndexRange)
		}
		raw = buf.Data[bv.ByteOffset:end]
	case img.URI != "":
		data, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		raw = data
	default:
		return nil, fmt.Errorf("image %d has no data", imgIdx)
	}

	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image %d: %w", imgIdx, err)
	}
	return decoded, nil
}
