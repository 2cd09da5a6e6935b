package domain

import "strings"

// LabelSeparator joins a fault code and its description into the single
// string a technician picks from the cascading selector.
const LabelSeparator = " - "

// NoDataLabel is the sentinel shown when no fault records match the
// current area/type filter. It deliberately contains no LabelSeparator so
// it can never be mistaken for a real combined label, and submissions
// carrying it must be rejected by the caller.
const NoDataLabel = "Sin datos"

// FaultRecord is one immutable row of the fault catalog.
//
// (Area, Type, Code) need not be unique within a catalog load; Code is the
// stable identifier persisted with a report while Description is display
// text reconstructible from the combined label.
type FaultRecord struct {
	Area        string
	Type        string
	Code        string
	Description string
}

// Label returns the combined "<code> - <description>" selector entry.
func (f FaultRecord) Label() string {
	return f.Code + LabelSeparator + f.Description
}

// SplitLabel breaks a combined label at the first separator occurrence.
// Everything before it is the code; everything after, even if it contains
// the separator again, is the description. A label without the separator
// is used as both code and description, matching how free-typed entries
// were stored by earlier form revisions.
func SplitLabel(label string) (code, description string) {
	before, after, found := strings.Cut(label, LabelSeparator)
	if !found {
		return label, label
	}
	return before, after
}

// IsNoData reports whether the label is the sentinel placeholder.
func IsNoData(label string) bool {
	return label == NoDataLabel
}
