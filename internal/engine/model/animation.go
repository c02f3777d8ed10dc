package model

import (
	gomath "math"

	"github.com/Faultbox/skinview/pkg/math"
)

// Update poses the model at time t (seconds) of clip index. Time loops over
// the clip duration. Channels naming unknown nodes are skipped. A model
// without animation, or an index out of range, is left untouched.
func (m *Model) Update(t float64, index int) {
	if !m.HasAnim() || index < 0 || index >= len(m.Animations) {
		return
	}
	anim := m.Animations[index]

	current := t
	if anim.Duration > 0 {
		current = gomath.Mod(t, anim.Duration)
		if current < 0 {
			current += anim.Duration
		}
	}

	m.applyChannels(anim, current)
	m.Propagate()
	m.UpdateBones()
}

// applyChannels writes T*R*S into each channel's node.
func (m *Model) applyChannels(anim *Animation, t float64) {
	for _, ch := range anim.Channels {
		node, ok := m.index[ch.NodeName]
		if !ok {
			continue
		}
		node.Matrix = ch.Sample(t)
	}
}

// Sample evaluates the channel at time t as T * R * S.
func (ch *Channel) Sample(t float64) math.Mat4 {
	return math.FromTRS(
		sampleVector(ch.Translation, t, math.Vec3{}),
		sampleQuat(ch.Rotation, t),
		sampleVector(ch.Scaling, t, math.Vec3{X: 1, Y: 1, Z: 1}),
	)
}

// keyIndex returns the key pair surrounding t and the blend factor between
// them. Times outside the keyed range clamp to the first or last key.
func keyIndex(n int, time func(int) float64, t float64) (i, j int, f float32) {
	if n == 1 || t <= time(0) {
		return 0, 0, 0
	}
	if t >= time(n-1) {
		return n - 1, n - 1, 0
	}
	// first key strictly after t
	j = 1
	for j < n-1 && time(j) <= t {
		j++
	}
	i = j - 1
	span := time(j) - time(i)
	if span <= 0 {
		return i, i, 0
	}
	return i, j, float32((t - time(i)) / span)
}

func sampleVector(keys []VectorKey, t float64, fallback math.Vec3) math.Vec3 {
	if len(keys) == 0 {
		return fallback
	}
	i, j, f := keyIndex(len(keys), func(k int) float64 { return keys[k].Time }, t)
	if i == j {
		return keys[i].Value
	}
	return math.LerpVec3(keys[i].Value, keys[j].Value, f)
}

func sampleQuat(keys []QuatKey, t float64) math.Quat {
	if len(keys) == 0 {
		return math.QuatIdentity()
	}
	i, j, f := keyIndex(len(keys), func(k int) float64 { return keys[k].Time }, t)
	if i == j {
		return keys[i].Value.Normalize()
	}
	return keys[i].Value.Slerp(keys[j].Value, f).Normalize()
}

// Propagate recomputes Global and Invert for every node, top-down from the root.
func (m *Model) Propagate() {
	if m.Root != nil {
		propagate(m.Root, math.Identity())
	}
}

func propagate(n *Node, parent math.Mat4) {
	n.Global = parent.Mul(n.Matrix)
	n.Invert = n.Global.Inverse()
	for _, c := range n.Children {
		propagate(c, n.Global)
	}
}

// UpdateBones recomputes the skinning matrix of every bone as
// owner.Invert * target.Global * bone.Offset. Global matrices must be current.
// Bones whose node is missing keep their previous matrix.
func (m *Model) UpdateBones() {
	for _, node := range m.Nodes {
		for _, mesh := range node.Meshes {
			for i, b := range mesh.Bones {
				target, ok := m.index[b.Name]
				if !ok {
					continue
				}
				mesh.BoneMatrices[i] = node.Invert.Mul(target.Global).Mul(b.Offset)
			}
		}
	}
}
