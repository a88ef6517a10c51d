package scene

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/models"
	"github.com/taigrr/ember/pkg/render"
)

// Fallback asset dimensions.
const (
	fallbackVehicleSize = 20
	fireWidth           = 24
	fireHeight          = 12
	fireSegments        = 4
)

// loadMesh picks a loader by file extension.
func loadMesh(path string) (*models.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".obj":
		return models.NewOBJLoader().Load(path)
	case isGLTF(path):
		return models.NewGLTFLoader().Load(path)
	default:
		return nil, fmt.Errorf("load mesh %s: unsupported format %q", path, ext)
	}
}

func isGLTF(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".glb" || ext == ".gltf"
}

// meshOrFallback loads path, or builds the fallback when path is empty
// or fails to load.
func meshOrFallback(log *slog.Logger, role, path string, fallback func() *models.Mesh) *models.Mesh {
	if path == "" {
		return fallback()
	}
	mesh, err := loadMesh(path)
	if err != nil {
		log.Warn("mesh unavailable, using fallback", "role", role, "path", path, "error", err)
		return fallback()
	}
	log.Info("mesh loaded", "role", role, "path", path,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount(), "topology", mesh.Topology)
	return mesh
}

// textureLoader loads textures and caps their size.
type textureLoader struct {
	log     *slog.Logger
	maxSize int
}

// load returns the texture at path, or fallback when path is empty or
// the file cannot be decoded.
func (l textureLoader) load(role, path string, fallback *render.Texture) *render.Texture {
	if path == "" {
		return fallback
	}
	tex, err := render.LoadTexture(path)
	if err != nil {
		l.log.Warn("texture unavailable, using fallback", "role", role, "path", path, "error", err)
		return fallback
	}
	return l.limit(role, tex)
}

// limit downsizes tex so neither side exceeds maxSize, keeping the
// aspect ratio.
func (l textureLoader) limit(role string, tex *render.Texture) *render.Texture {
	longest := max(tex.Width, tex.Height)
	if l.maxSize <= 0 || longest <= l.maxSize {
		return tex
	}
	w := max(tex.Width*l.maxSize/longest, 1)
	h := max(tex.Height*l.maxSize/longest, 1)
	l.log.Info("texture downsized", "role", role, "from", fmt.Sprintf("%dx%d", tex.Width, tex.Height), "to", fmt.Sprintf("%dx%d", w, h))
	return tex.Resized(w, h)
}

func fallbackVehicle() *models.Mesh {
	return models.NewCube(fallbackVehicleSize)
}

// fallbackFire is a band of flame floating above the fallback vehicle.
func fallbackFire() *models.Mesh {
	mesh := models.NewBillboardStrip(fireWidth, fireHeight, fireSegments)
	mesh.Name = "fire"
	mesh.Transform(math3d.Translate(math3d.V3(0, fallbackVehicleSize/2+fireHeight/2, 0)))
	return mesh
}

func fallbackDiffuse() *render.Texture {
	return render.NewCheckerTexture(64, 64, 8,
		color.NRGBA{200, 120, 40, 255},
		color.NRGBA{60, 60, 70, 255})
}

func fallbackSpecular() *render.Texture {
	return render.NewSolidTexture(color.NRGBA{128, 128, 128, 255})
}

func fallbackGlossiness() *render.Texture {
	return render.NewSolidTexture(color.NRGBA{255, 255, 255, 255})
}

// fallbackFlame fades from transparent yellow at the top to a denser
// orange at the base.
func fallbackFlame() *render.Texture {
	return render.NewVerticalGradientTexture(8, 32,
		color.NRGBA{255, 220, 80, 0},
		color.NRGBA{255, 80, 0, 220})
}
