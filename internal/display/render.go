package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText writes snap as an aligned table for terminals.
func WriteText(w io.Writer, snap Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tCATEGORY\tSOLVED")
	for _, src := range snap.Sources {
		for _, slot := range src.Slots {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", src.Name, slot.Category, slot.Value)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, src := range snap.Sources {
		if !src.OK && !src.Pending {
			if _, err := fmt.Fprintf(w, "%s: %s\n", src.Name, src.Reason); err != nil {
				return err
			}
		}
	}
	return nil
}

// Markdown renders snap as one table per source.
func Markdown(snap Snapshot) string {
	var b strings.Builder
	for i, src := range snap.Sources {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", src.Name)
		b.WriteString("| Category | Solved |\n|---|---:|\n")
		for _, slot := range src.Slots {
			fmt.Fprintf(&b, "| %s | %s |\n", slot.Category, slot.Value)
		}
		if !src.OK && !src.Pending && src.Reason != "" {
			fmt.Fprintf(&b, "\n_Unavailable: %s_\n", escapeMarkdown(src.Reason))
		}
	}
	return b.String()
}

func escapeMarkdown(s string) string {
	r := strings.NewReplacer("_", `\_`, "*", `\*`, "|", `\|`, "`", "\\`")
	return r.Replace(s)
}
