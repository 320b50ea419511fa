// Package export renders a computed plan for files and terminals.
package export

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/kilianp07/teamday/core/model"
)

// WriteJSON writes the plan to w in indented JSON format.
func WriteJSON(w io.Writer, plan *model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// WriteText writes the schedule lines, then one block per participant
// ("Name" followed by "  • line" rows) and finally any warnings.
func WriteText(w io.Writer, plan *model.Plan) error {
	bw := bufio.NewWriter(w)
	for _, line := range plan.Lines() {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	for _, a := range plan.Overview {
		bw.WriteByte('\n')
		bw.WriteString(a.Name)
		bw.WriteByte('\n')
		for _, line := range a.Lines {
			bw.WriteString("  • ")
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	}
	if len(plan.Warnings) > 0 {
		bw.WriteByte('\n')
		for _, warn := range plan.Warnings {
			bw.WriteString("warning: ")
			bw.WriteString(warn)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
