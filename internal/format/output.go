package format

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"hearline-admin/internal/filter"
	"hearline-admin/internal/model"
)

// Write writes output in the requested format.
//
// Supported formats:
// - table (default)
// - json
func Write(w io.Writer, sessions []model.Session, format string, pretty bool) error {
	switch format {
	case "", "table":
		return WriteSessionsTable(w, sessions)
	case "json":
		return WriteJSON(w, sessions, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteSessionsTable writes an aligned plain-text table, one session per row.
func WriteSessionsTable(w io.Writer, sessions []model.Session) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tLISTENER\tTOPIC\tSCHEDULED\tSTATUS\tLINK")
	for _, s := range sessions {
		link := s.MeetingLink
		if link == "" {
			link = "-"
		}
		topic := s.Topic
		if topic == "" {
			topic = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			s.User.Name,
			s.Listener.Name,
			topic,
			filter.FormatScheduledDate(s.ScheduledAt),
			s.Status,
			link,
		)
	}
	return tw.Flush()
}
