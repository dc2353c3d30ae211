package resources

import "strings"

// Build-pipeline tags appended to asset names; everything from the tag
// onward is dropped, except a trailing extension which is kept.
var nameTags = []string{"_lodgroup=", "_streamdb=", "_group="}

var illegalChars = strings.NewReplacer(
	"$", "_",
	"#", "_",
	"<", "_",
	">", "_",
	":", "_",
	"|", "_",
	"?", "_",
	"*", "_",
	`"`, "_",
)

// SanitizeName turns a raw name-table entry into a filesystem-safe
// display name: pipeline tags stripped, variant-tagged extensions
// collapsed to their primary part, illegal path characters replaced.
//
//	"foo#bar.tex_medium"   -> "foo_bar.tex"
//	"model_lodgroup=3.mesh" -> "model.mesh"
func SanitizeName(name string) string {
	for _, tag := range nameTags {
		i := strings.Index(name, tag)
		if i < 0 {
			continue
		}
		if j := strings.LastIndex(name[i:], "."); j >= 0 {
			name = name[:i] + name[i+j:]
		} else {
			name = name[:i]
		}
	}

	if i := strings.LastIndex(name, "."); i >= 0 {
		ext := name[i+1:]
		if j := strings.Index(ext, "_"); j >= 0 {
			name = name[:i] + "." + ext[:j]
		}
	}

	return illegalChars.Replace(name)
}

// garbageSizeLimit is the uncompressed-size threshold below which a
// root-level, extensionless entry is considered build debris.
const garbageSizeLimit = 100

// IsGarbage reports whether an entry looks like build debris: no path
// separator, no extension, and smaller than the threshold. Callers
// apply it only when garbage filtering is enabled.
func IsGarbage(name string, size uint64) bool {
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	if strings.Contains(name, ".") {
		return false
	}
	return size < garbageSizeLimit
}
