package cloud

import (
	"path/filepath"
	"strings"
)

type ExportFormat struct {
	MimeType  string
	Extension string
}

// Kind describes one placeholder file type written by Google Drive for desktop.
type Kind struct {
	Extension string
	MimeType  string
	Supported bool
	Exports   []ExportFormat
}

var (
	formatPDF  = ExportFormat{MimeType: "application/pdf", Extension: ".pdf"}
	formatDOCX = ExportFormat{MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Extension: ".docx"}
	formatXLSX = ExportFormat{MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Extension: ".xlsx"}
	formatPPTX = ExportFormat{MimeType: "application/vnd.openxmlformats-officedocument.presentationml.presentation", Extension: ".pptx"}
	formatSVG  = ExportFormat{MimeType: "image/svg+xml", Extension: ".svg"}
	formatPNG  = ExportFormat{MimeType: "image/png", Extension: ".png"}
)

// Kinds is the complete list of known placeholder types.
var Kinds = []Kind{
	{Extension: ".gdoc", MimeType: "application/vnd.google-apps.document", Supported: true, Exports: []ExportFormat{formatDOCX, formatPDF}},
	{Extension: ".gsheet", MimeType: "application/vnd.google-apps.spreadsheet", Supported: true, Exports: []ExportFormat{formatXLSX, formatPDF}},
	{Extension: ".gslides", MimeType: "application/vnd.google-apps.presentation", Supported: true, Exports: []ExportFormat{formatPPTX, formatPDF}},
	{Extension: ".gdraw", MimeType: "application/vnd.google-apps.drawing", Supported: true, Exports: []ExportFormat{formatSVG, formatPNG}},
	{Extension: ".gform", MimeType: "application/vnd.google-apps.form"},
	{Extension: ".gmap", MimeType: "application/vnd.google-apps.map"},
	{Extension: ".gsite", MimeType: "application/vnd.google-apps.site"},
	{Extension: ".gtable", MimeType: "application/vnd.google-apps.fusiontable"},
	{Extension: ".gjam", MimeType: "application/vnd.google-apps.jam"},
	{Extension: ".gscript", MimeType: "application/vnd.google-apps.script"},
}

// KindOf returns the placeholder kind for path, matched case-insensitively on the extension.
func KindOf(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, k := range Kinds {
		if k.Extension == ext {
			return k, true
		}
	}
	return Kind{}, false
}

// BackupPath is the sibling file an export of placeholder in format f is written to.
func BackupPath(placeholder string, f ExportFormat) string {
	return strings.TrimSuffix(placeholder, filepath.Ext(placeholder)) + ".bak" + f.Extension
}
