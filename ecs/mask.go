package ecs

// mask is a set of up to 256 component types. Each entity record keeps one so the
// required-type test for a system is a word-wise superset check.
type mask [4]uint64

func (m *mask) set(t ComponentType) {
	m[t>>6] |= uint64(1) << (t & 63)
}

func (m *mask) unset(t ComponentType) {
	m[t>>6] &= ^(uint64(1) << (t & 63))
}

func (m mask) has(t ComponentType) bool {
	return m[t>>6]&(uint64(1)<<(t&63)) != 0
}

// contains reports whether every type in sub is also in m.
func (m mask) contains(sub mask) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

func (m mask) empty() bool {
	return m[0]|m[1]|m[2]|m[3] == 0
}
