package prompt

import "strings"

// Bundle is the assembled context for one request. Nil fields are absent:
// either not requested or not present in the editor at build time. The
// bundle is owned by the request that built it and never mutated.
type Bundle struct {
	Selection  *string
	ActiveFile *string
	OpenFiles  []File
}

// Empty reports whether the bundle carries no context at all.
func (b Bundle) Empty() bool {
	return b.Selection == nil && b.ActiveFile == nil && len(b.OpenFiles) == 0
}

// Render lays out the context block and the user message as one prompt.
// Section order is fixed: selection, active file, open files (each labeled
// with its path), then the message. Absent sections are omitted entirely;
// a present-but-empty section keeps its header so the model still sees that
// the user pointed at something.
func (b Bundle) Render(message string) string {
	if b.Empty() {
		return message
	}

	var sb strings.Builder

	if b.Selection != nil {
		sb.WriteString("### Selected code\n")
		sb.WriteString(*b.Selection)
		sb.WriteString("\n\n")
	}
	if b.ActiveFile != nil {
		sb.WriteString("### Active file\n")
		sb.WriteString(*b.ActiveFile)
		sb.WriteString("\n\n")
	}
	for _, f := range b.OpenFiles {
		sb.WriteString("### Open file: ")
		sb.WriteString(f.Path)
		sb.WriteString("\n")
		sb.WriteString(f.Text)
		sb.WriteString("\n\n")
	}

	sb.WriteString(message)
	return sb.String()
}
