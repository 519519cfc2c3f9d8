package export

import (
	"bufio"
	"fmt"
	"io"
)

// WriteText renders doc as plain text, suitable for pasting into a message.
func WriteText(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, doc.Title)
	fmt.Fprintf(bw, "%s: %s\n", issueDateLabel, doc.IssueDate())
	fmt.Fprintf(bw, "%s: %s\n", validUntilLabel, doc.ValidityDate())
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, customerHeading)
	fmt.Fprintf(bw, "%s: %s\n", customerLabel, doc.Customer)
	fmt.Fprintf(bw, "%s: %s\n", partLabel, doc.Part)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, technicalHeading)
	for _, row := range doc.Summary {
		fmt.Fprintf(bw, "- %s: %s\n", row.Label, row.Value)
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%s: %s\n", totalHeading, doc.Total)
	fmt.Fprintln(bw)
	for _, line := range doc.Footer() {
		fmt.Fprintln(bw, line)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write text quote: %w", err)
	}
	return nil
}
