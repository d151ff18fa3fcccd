package vdfbinary

import "strings"

const (
	vdfMarkerMap         byte = 0x00
	vdfMarkerString      byte = 0x01
	vdfMarkerNumber      byte = 0x02
	vdfMarkerEndOfMap    byte = 0x08
	vdfMarkerEndOfString byte = 0x00
)

// VdfValue is a node of a parsed document: a map, a string or a 32-bit
// number. Keys are matched case-insensitively.
type VdfValue interface {
	AsMap() (VdfMap, bool)
	AsString() (string, bool)
	AsUint() (uint32, bool)
	GetMap(key string) (VdfMap, bool)
	GetString(key string) (string, bool)
	GetUint(key string) (uint32, bool)
	GetBool(key string) (bool, bool)
}

// VdfMap holds the children of a map node under lower-cased keys.
type VdfMap map[string]VdfValue

type vdfValue struct {
	v any
}

func (v vdfValue) AsMap() (VdfMap, bool) {
	m, ok := v.v.(VdfMap)
	return m, ok
}

func (v vdfValue) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

func (v vdfValue) AsUint() (uint32, bool) {
	n, ok := v.v.(uint32)
	return n, ok
}

func (v vdfValue) child(key string) (VdfValue, bool) {
	m, ok := v.AsMap()
	if !ok {
		return nil, false
	}
	c, ok := m[strings.ToLower(key)]
	return c, ok
}

func (v vdfValue) GetMap(key string) (VdfMap, bool) {
	c, ok := v.child(key)
	if !ok {
		return nil, false
	}
	return c.AsMap()
}

func (v vdfValue) GetString(key string) (string, bool) {
	c, ok := v.child(key)
	if !ok {
		return "", false
	}
	return c.AsString()
}

func (v vdfValue) GetUint(key string) (uint32, bool) {
	c, ok := v.child(key)
	if !ok {
		return 0, false
	}
	return c.AsUint()
}

// GetBool reads a number field as a flag; any non-zero value is true.
func (v vdfValue) GetBool(key string) (value, ok bool) {
	n, ok := v.GetUint(key)
	return n != 0, ok
}
