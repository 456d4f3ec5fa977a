package compare

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
)

// maxTextSamples caps per-category sample lists in the text rendering
const maxTextSamples = 10

var (
	headerColor   = color.New(color.Bold)
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
	modifiedColor = color.New(color.FgYellow)
)

// WriteJSON renders the report as an indented JSON document
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return goerr.Wrap(err, "failed to encode comparison report")
	}
	return nil
}

// WriteText renders the human-readable report
func WriteText(w io.Writer, r *Report) error {
	line := strings.Repeat("=", 80)
	section := strings.Repeat("-", 80)

	headerColor.Fprintln(w, line)
	headerColor.Fprintf(w, "%s\n", center("BACKUP COMPARISON REPORT", 80))
	headerColor.Fprintln(w, line)
	fmt.Fprintln(w)
	if r.BeforePath != "" {
		fmt.Fprintf(w, "Before: %s\n", r.BeforePath)
		fmt.Fprintf(w, "After:  %s\n", r.AfterPath)
	}
	fmt.Fprintf(w, "Comparison Date: %s\n", r.ComparisonDate)

	writeUserSection(w, section, &r.Users)
	writeChannelSection(w, section, &r.Channels)
	writeFileSection(w, section, &r.Files)

	headerColor.Fprintln(w, line)
	return nil
}

func writeUserSection(w io.Writer, section string, d *UserDiff) {
	fmt.Fprintln(w)
	headerColor.Fprintln(w, section)
	headerColor.Fprintln(w, "USERS")
	headerColor.Fprintln(w, section)

	fmt.Fprintf(w, "\nTotal Users: %d -> %d\n", d.Stats.TotalBefore, d.Stats.TotalAfter)
	fmt.Fprintf(w, "  Added: %d\n", d.Stats.AddedCount)
	fmt.Fprintf(w, "  Removed: %d\n", d.Stats.RemovedCount)
	fmt.Fprintf(w, "  Modified: %d\n", d.Stats.ModifiedCount)

	if len(d.Added) > 0 {
		addedColor.Fprintf(w, "\nAdded Users (%d):\n", len(d.Added))
		for i, u := range d.Added {
			if i == maxTextSamples {
				break
			}
			fmt.Fprintf(w, "  + %s - %s (%s)\n", u.Name, u.Profile.RealName, u.Profile.Email)
		}
		writeOverflow(w, len(d.Added))
	}

	if len(d.Removed) > 0 {
		removedColor.Fprintf(w, "\nRemoved Users (%d):\n", len(d.Removed))
		for i, u := range d.Removed {
			if i == maxTextSamples {
				break
			}
			fmt.Fprintf(w, "  - %s - %s\n", u.Name, u.Profile.RealName)
		}
		writeOverflow(w, len(d.Removed))
	}

	if len(d.Modified) > 0 {
		modifiedColor.Fprintf(w, "\nModified Users (%d):\n", len(d.Modified))
		for i, u := range d.Modified {
			if i == maxTextSamples {
				break
			}
			fmt.Fprintf(w, "  * %s - %s\n", u.Name, u.RealName)
			writeChanges(w, u.Changes)
		}
		writeOverflow(w, len(d.Modified))
	}
}

func writeChannelSection(w io.Writer, section string, d *ChannelDiff) {
	fmt.Fprintln(w)
	headerColor.Fprintln(w, section)
	headerColor.Fprintln(w, "CHANNELS")
	headerColor.Fprintln(w, section)

	fmt.Fprintf(w, "\nTotal Channels: %d -> %d\n", d.Stats.TotalBefore, d.Stats.TotalAfter)
	fmt.Fprintf(w, "  Added: %d\n", d.Stats.AddedCount)
	fmt.Fprintf(w, "  Removed: %d\n", d.Stats.RemovedCount)
	fmt.Fprintf(w, "  Modified: %d\n", d.Stats.ModifiedCount)

	if len(d.Added) > 0 {
		addedColor.Fprintf(w, "\nAdded Channels (%d):\n", len(d.Added))
		for i, c := range d.Added {
			if i == maxTextSamples {
				break
			}
			fmt.Fprintf(w, "  + #%s\n", c.Name)
		}
		writeOverflow(w, len(d.Added))
	}

	if len(d.Removed) > 0 {
		removedColor.Fprintf(w, "\nRemoved Channels (%d):\n", len(d.Removed))
		for i, c := range d.Removed {
			if i == maxTextSamples {
				break
			}
			fmt.Fprintf(w, "  - #%s\n", c.Name)
		}
		writeOverflow(w, len(d.Removed))
	}

	if len(d.Modified) > 0 {
		modifiedColor.Fprintf(w, "\nModified Channels (%d):\n", len(d.Modified))
		for i, c := range d.Modified {
			if i == maxTextSamples {
				break
			}
			fmt.Fprintf(w, "  * #%s\n", c.Name)
			writeChanges(w, c.Changes)
		}
		writeOverflow(w, len(d.Modified))
	}
}

func writeFileSection(w io.Writer, section string, d *FileDiff) {
	fmt.Fprintln(w)
	headerColor.Fprintln(w, section)
	headerColor.Fprintln(w, "FILES")
	headerColor.Fprintln(w, section)

	s := d.Stats
	fmt.Fprintf(w, "\nTotal Files: %d -> %d\n", s.CountBefore, s.CountAfter)
	fmt.Fprintf(w, "  Difference: %+d\n", s.CountDiff)
	fmt.Fprintf(w, "\nTotal Storage: %s -> %s\n", formatBytes(s.SizeBefore, false), formatBytes(s.SizeAfter, false))
	fmt.Fprintf(w, "  Difference: %s\n", formatBytes(s.SizeDiff, true))
	fmt.Fprintln(w)
}

func writeChanges(w io.Writer, changes map[string]FieldChange) {
	for _, field := range sortedFields(changes) {
		change := changes[field]
		if change.Diff != nil {
			fmt.Fprintf(w, "    - %s: %v -> %v (%+d)\n", field, change.Old, change.New, *change.Diff)
		} else {
			fmt.Fprintf(w, "    - %s: %v -> %v\n", field, change.Old, change.New)
		}
	}
}

func writeOverflow(w io.Writer, total int) {
	if total > maxTextSamples {
		fmt.Fprintf(w, "  ... and %d more\n", total-maxTextSamples)
	}
}

func sortedFields(changes map[string]FieldChange) []string {
	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// changesString flattens a change map for CSV rows
func changesString(changes map[string]FieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, field := range sortedFields(changes) {
		change := changes[field]
		parts = append(parts, fmt.Sprintf("%s: %v -> %v", field, change.Old, change.New))
	}
	return strings.Join(parts, ", ")
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// formatBytes renders a byte count in human-readable units. With signed set,
// positive values carry an explicit plus sign.
func formatBytes(size int64, signed bool) string {
	sign := ""
	if signed && size > 0 {
		sign = "+"
	} else if size < 0 {
		sign = "-"
		size = -size
	}

	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if value < 1024 {
			return fmt.Sprintf("%s%.2f %s", sign, value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%s%.2f PB", sign, value)
}
