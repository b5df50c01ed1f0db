package constants

import "strings"

// DocumentKind tells the lifecycle manager how to acquire a file's content.
type DocumentKind string

const (
	KindPDF     DocumentKind = "PDF"
	KindImage   DocumentKind = "IMAGE"
	KindTabular DocumentKind = "TABULAR"
)

// allowedExtensions maps each category to the file extensions it accepts,
// lowercased without the dot.
var allowedExtensions = map[Category]map[string]struct{}{
	InvoicesReceived:  {"pdf": {}},
	InvoicesIssued:    {"pdf": {}, "png": {}, "jpg": {}, "jpeg": {}},
	PhysicalTickets:   {"xls": {}, "xlsx": {}},
	ElectronicTickets: {"xls": {}, "xlsx": {}},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt reports whether ext (normalized) is eligible for the category.
func AllowedExt(c Category, ext string) bool {
	exts, ok := allowedExtensions[c]
	if !ok {
		return false
	}
	_, ok = exts[NormalizeExt(ext)]
	return ok
}

// MapExtToKind resolves a normalized extension to the acquisition kind.
func MapExtToKind(ext string) DocumentKind {
	switch NormalizeExt(ext) {
	case "pdf":
		return KindPDF
	case "png", "jpg", "jpeg":
		return KindImage
	case "xls", "xlsx":
		return KindTabular
	default:
		return ""
	}
}

// ProcessedFolder is the archive subfolder created under each source folder.
const ProcessedFolder = "PROCESADOS"
