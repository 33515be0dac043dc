package doc

import (
	"strings"
)

// FormatFile formats a FileDoc for terminal display. Undocumented
// declarations are left out.
func FormatFile(fd *FileDoc) string {
	var sb strings.Builder

	if fd.Doc != "" {
		sb.WriteString(fd.Doc)
		sb.WriteString("\n\n")
	}

	for _, c := range fd.Consts {
		if c.Doc == "" {
			continue
		}
		writeEntry(&sb, constSignature(c), c.Doc)
		sb.WriteString("\n")
	}

	for _, f := range fd.Funcs {
		if f.Doc == "" {
			continue
		}
		writeEntry(&sb, funcSignature(f), f.Doc)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FormatSymbol formats a single symbol lookup result.
func FormatSymbol(docStr, signature string) string {
	var sb strings.Builder
	writeEntry(&sb, signature, docStr)
	return sb.String()
}

func writeEntry(sb *strings.Builder, signature, docStr string) {
	sb.WriteString(signature)
	sb.WriteString("\n")
	if docStr != "" {
		sb.WriteString("    ")
		sb.WriteString(strings.ReplaceAll(docStr, "\n", "\n    "))
		sb.WriteString("\n")
	}
}
