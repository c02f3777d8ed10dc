package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/skinview/pkg/encoding"
)

// RSM format errors.
var (
	ErrInvalidRSMMagic       = errors.New("invalid RSM magic: expected 'GRSM'")
	ErrUnsupportedRSMVersion = errors.New("unsupported RSM version")
	ErrTruncatedRSMData      = errors.New("truncated RSM data")
	ErrInvalidNodeCount      = errors.New("invalid RSM node count")
	ErrInvalidRSMCount       = errors.New("invalid RSM element count")
)

// Sanity limits for counts read from the file.
const (
	maxRSMNodes     = 10000
	maxRSMTextures  = 1000
	maxRSMElements  = 100000
	maxRSMKeyframes = 10000
	rsmNameLength   = 40
)

// RSMVersion represents the RSM file version.
type RSMVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v RSMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast returns true if version is >= major.minor.
func (v RSMVersion) AtLeast(major, minor uint8) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// RSMTexCoord is a texture coordinate with its vertex color.
type RSMTexCoord struct {
	Color [4]uint8 // BGRA; white before v1.2
	U, V  float32
}

// RSMFace is a triangle referencing vertices and texcoords of its node.
type RSMFace struct {
	VertexIDs   [3]uint16
	TexCoordIDs [3]uint16
	TextureID   uint16 // index into the node's TextureIDs
	TwoSide     int32
	SmoothGroup int32
}

// RSMPosKeyframe is a position keyframe (v < 1.5).
type RSMPosKeyframe struct {
	Frame    int32 // milliseconds
	Position [3]float32
}

// RSMRotKeyframe is a rotation keyframe.
type RSMRotKeyframe struct {
	Frame      int32      // milliseconds
	Quaternion [4]float32 // X, Y, Z, W
}

// RSMScaleKeyframe is a scale keyframe (v >= 1.5).
type RSMScaleKeyframe struct {
	Frame int32 // milliseconds
	Scale [3]float32
}

// RSMNode represents a node in the model hierarchy.
type RSMNode struct {
	Name       string
	Parent     string  // empty for the root
	TextureIDs []int32 // indices into RSM.Textures

	// Matrix and Offset transform this node's vertices only; children do not inherit them.
	Matrix   [9]float32
	Offset   [3]float32
	Position [3]float32
	RotAngle float32 // radians
	RotAxis  [3]float32
	Scale    [3]float32

	Vertices  [][3]float32
	TexCoords []RSMTexCoord
	Faces     []RSMFace

	PosKeys   []RSMPosKeyframe
	RotKeys   []RSMRotKeyframe
	ScaleKeys []RSMScaleKeyframe
}

// RSM represents a parsed RSM (Resource Model) file.
type RSM struct {
	Version    RSMVersion
	AnimLength int32 // milliseconds
	Shading    int32
	Alpha      float32
	Textures   []string
	RootNode   string
	Nodes      []RSMNode
}

// rsmReader is a little-endian reader that remembers the first error.
type rsmReader struct {
	r   *bytes.Reader
	err error
}

func (rr *rsmReader) read(v any) {
	if rr.err != nil {
		return
	}
	if err := binary.Read(rr.r, binary.LittleEndian, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrTruncatedRSMData
		}
		rr.err = err
	}
}

func (rr *rsmReader) i32() int32 {
	var v int32
	rr.read(&v)
	return v
}

func (rr *rsmReader) name() string {
	buf := make([]byte, rsmNameLength)
	rr.read(buf)
	return encoding.FixedStringToUTF8(buf)
}

// count reads an element count and checks it against limit.
func (rr *rsmReader) count(what string, limit int32) int {
	n := rr.i32()
	if rr.err == nil && (n < 0 || n > limit) {
		rr.err = fmt.Errorf("%w: %d %s", ErrInvalidRSMCount, n, what)
	}
	if rr.err != nil {
		return 0
	}
	return int(n)
}

// ParseRSM parses RSM data from a byte slice.
func ParseRSM(data []byte) (*RSM, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedRSMData
	}
	if string(data[:4]) != "GRSM" {
		return nil, ErrInvalidRSMMagic
	}

	rsm := &RSM{Version: RSMVersion{Major: data[4], Minor: data[5]}, Alpha: 1}
	if rsm.Version.Major < 1 || rsm.Version.Major > 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, rsm.Version)
	}

	rr := &rsmReader{r: bytes.NewReader(data[6:])}
	rsm.AnimLength = rr.i32()
	rsm.Shading = rr.i32()
	if rsm.Version.AtLeast(1, 4) {
		var alpha uint8
		rr.read(&alpha)
		rsm.Alpha = float32(alpha) / 255
	}
	var reserved [16]byte
	rr.read(&reserved)

	rsm.Textures = make([]string, rr.count("textures", maxRSMTextures))
	for i := range rsm.Textures {
		rsm.Textures[i] = rr.name()
	}
	rsm.RootNode = rr.name()

	nodeCount := rr.i32()
	if rr.err != nil {
		return nil, rr.err
	}
	if nodeCount < 0 || nodeCount > maxRSMNodes {
		return nil, ErrInvalidNodeCount
	}

	rsm.Nodes = make([]RSMNode, nodeCount)
	for i := range rsm.Nodes {
		parseRSMNode(rr, rsm.Version, &rsm.Nodes[i])
		if rr.err != nil {
			return nil, fmt.Errorf("parsing node %d: %w", i, rr.err)
		}
	}

	return rsm, nil
}

func parseRSMNode(rr *rsmReader, version RSMVersion, node *RSMNode) {
	node.Name = rr.name()
	node.Parent = rr.name()

	node.TextureIDs = make([]int32, rr.count("texture ids", maxRSMTextures))
	rr.read(node.TextureIDs)

	rr.read(&node.Matrix)
	rr.read(&node.Offset)
	rr.read(&node.Position)
	rr.read(&node.RotAngle)
	rr.read(&node.RotAxis)
	rr.read(&node.Scale)

	node.Vertices = make([][3]float32, rr.count("vertices", maxRSMElements))
	rr.read(node.Vertices)

	node.TexCoords = make([]RSMTexCoord, rr.count("texcoords", maxRSMElements))
	for i := range node.TexCoords {
		tc := &node.TexCoords[i]
		if version.AtLeast(1, 2) {
			rr.read(&tc.Color)
		} else {
			tc.Color = [4]uint8{255, 255, 255, 255}
		}
		rr.read(&tc.U)
		rr.read(&tc.V)
	}

	node.Faces = make([]RSMFace, rr.count("faces", maxRSMElements))
	for i := range node.Faces {
		f := &node.Faces[i]
		var padding uint16
		rr.read(&f.VertexIDs)
		rr.read(&f.TexCoordIDs)
		rr.read(&f.TextureID)
		rr.read(&padding)
		rr.read(&f.TwoSide)
		if version.AtLeast(1, 2) {
			rr.read(&f.SmoothGroup)
		}
	}

	if !version.AtLeast(1, 5) {
		node.PosKeys = make([]RSMPosKeyframe, rr.count("position keys", maxRSMKeyframes))
		for i := range node.PosKeys {
			rr.read(&node.PosKeys[i].Frame)
			rr.read(&node.PosKeys[i].Position)
		}
	}

	node.RotKeys = make([]RSMRotKeyframe, rr.count("rotation keys", maxRSMKeyframes))
	for i := range node.RotKeys {
		rr.read(&node.RotKeys[i].Frame)
		rr.read(&node.RotKeys[i].Quaternion)
	}

	if version.AtLeast(1, 5) {
		node.ScaleKeys = make([]RSMScaleKeyframe, rr.count("scale keys", maxRSMKeyframes))
		for i := range node.ScaleKeys {
			rr.read(&node.ScaleKeys[i].Frame)
			rr.read(&node.ScaleKeys[i].Scale)
		}
	}
}

// ParseRSMFile parses an RSM file from disk.
func ParseRSMFile(path string) (*RSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSM file: %w", err)
	}
	return ParseRSM(data)
}

// GetNodeByName returns a node by its name, or nil if not found.
func (rsm *RSM) GetNodeByName(name string) *RSMNode {
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Name == name {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// GetRootNode returns the root node. Files with a stale root name fall back to
// the first node without a parent.
func (rsm *RSM) GetRootNode() *RSMNode {
	if n := rsm.GetNodeByName(rsm.RootNode); n != nil {
		return n
	}
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Parent == "" {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// GetChildNodes returns all nodes that have the given parent name, excluding
// self-parented nodes.
func (rsm *RSM) GetChildNodes(parentName string) []*RSMNode {
	var children []*RSMNode
	for i := range rsm.Nodes {
		n := &rsm.Nodes[i]
		if n.Parent == parentName && n.Name != parentName {
			children = append(children, n)
		}
	}
	return children
}

// HasAnimation reports whether any node carries keyframes.
func (rsm *RSM) HasAnimation() bool {
	for i := range rsm.Nodes {
		n := &rsm.Nodes[i]
		if len(n.PosKeys) > 0 || len(n.RotKeys) > 0 || len(n.ScaleKeys) > 0 {
			return true
		}
	}
	return false
}
