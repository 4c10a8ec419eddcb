// Package session holds the upload-and-detect state machine shared by every front end.
package session

import (
	"fmt"
	"slices"

	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/predict"
)

// User-facing messages
const (
	MsgInvalidFile = "Please upload a valid .json file."
	MsgNoFile      = "Please upload a file first."
	MsgReadFailed  = "Failed to read the file."
	MsgErrorPrefix = "An error occurred: "
)

// MsgTooLarge is shown when a candidate exceeds the size limit
func MsgTooLarge(limit int64) string {
	return fmt.Sprintf("File is too large. Maximum file size: %s.", intake.FormatSize(limit))
}

// Phase is the tag of the session state
type Phase int

const (
	// PhaseIdle has nothing to show besides the selection
	PhaseIdle Phase = iota

	// PhaseLoading means a submission is in flight
	PhaseLoading

	// PhaseSucceeded holds the results of the last submission
	PhaseSucceeded

	// PhaseFailed holds the error of the last submission
	PhaseFailed

	// PhaseRejected holds a local error (bad selection or nothing selected);
	// results from an earlier submission stay visible
	PhaseRejected
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	case PhaseRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the session. Build it only through the
// constructors below: Succeeded never carries a message and Failed never
// carries results.
type State struct {
	Phase   Phase
	File    *intake.File
	Results []predict.Record
	Message string
}

func idle(file *intake.File) State {
	return State{Phase: PhaseIdle, File: file}
}

func loading(file *intake.File) State {
	return State{Phase: PhaseLoading, File: file}
}

func succeeded(file *intake.File, results []predict.Record) State {
	return State{Phase: PhaseSucceeded, File: file, Results: results}
}

func failed(file *intake.File, message string) State {
	return State{Phase: PhaseFailed, File: file, Message: message}
}

func rejected(file *intake.File, message string, prior []predict.Record) State {
	return State{Phase: PhaseRejected, File: file, Message: message, Results: prior}
}

// Loading reports whether a submission is in flight
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// CanSubmit reports whether the detect action is enabled
func (s State) CanSubmit() bool {
	return s.File != nil && s.Phase != PhaseLoading
}

// HasError reports whether there is an error message to show
func (s State) HasError() bool {
	return s.Message != ""
}

// FileName returns the selected file's name, or "" when nothing is selected
func (s State) FileName() string {
	if s.File == nil {
		return ""
	}
	return s.File.Name
}

func (s State) clone() State {
	s.Results = slices.Clone(s.Results)
	return s
}
