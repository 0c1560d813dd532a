package timetable

import "hash/fnv"

// Palette is the fixed set of teacher colour tags.
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
}

// ColorFor maps a teacher name to a palette entry using 32-bit FNV-1a, so the
// tag depends on the name alone and is stable across runs.
func ColorFor(teacherName string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(teacherName))
	return Palette[h.Sum32()%uint32(len(Palette))]
}
