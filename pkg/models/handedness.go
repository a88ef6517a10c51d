package models

// ToLeftHanded converts a mesh authored in a right-handed, counterclockwise
// convention (glTF, most OBJ exporters) into the left-handed, clockwise
// convention the renderer uses. Z is mirrored and every triangle's winding
// is reversed.
func (m *Mesh) ToLeftHanded() {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position.Z = -v.Position.Z
		v.Normal.Z = -v.Normal.Z
		v.Tangent.Z = -v.Tangent.Z
	}

	switch m.Topology {
	case TriangleStrip:
		// A repeated leading index shifts every triangle by one slot, which
		// swaps its parity and so its winding.
		if len(m.Indices) > 0 {
			m.Indices = append([]uint32{m.Indices[0]}, m.Indices...)
		}
	default:
		for i := 0; i+2 < len(m.Indices); i += 3 {
			m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
		}
	}
	m.CalculateBounds()
}
