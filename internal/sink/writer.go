package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"golang.org/x/term"
)

// Output formats accepted by NewWriter.
const (
	FormatAuto  = "auto"
	FormatTable = "table"
	FormatJSON  = "json"
)

// Writer prints frames as a table for terminals or as JSON lines otherwise.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	table  bool
	header bool
	enc    *json.Encoder
}

// NewWriter creates a writer. FormatAuto picks the table when w is a terminal.
func NewWriter(w io.Writer, format string) (*Writer, error) {
	var table bool
	switch format {
	case FormatAuto, "":
		table = isTerminal(w)
	case FormatTable:
		table = true
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return &Writer{w: w, table: table, enc: json.NewEncoder(w)}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func (s *Writer) Write(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.table {
		return s.enc.Encode(f)
	}
	if !s.header {
		s.header = true
		if _, err := fmt.Fprintf(s.w, "%8s %9s %4s %5s %5s %5s  %s\n",
			"tick", "time", "btn", "x", "y", "z", "report"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(s.w, "%8d %9.3f %04x %5d %5d %5d  %s\n",
		f.Tick, f.Time, f.Buttons, f.Accel.X, f.Accel.Y, f.Accel.Z, f.Report)
	return err
}

// Close is a no-op. The caller owns the underlying writer.
func (s *Writer) Close() error {
	return nil
}
