package importer

import "strings"

// FindHeaderRow scans the table top to bottom for the row that starts the
// trade data: the first row containing both a "Time" and a "Position"
// cell, compared case-insensitively after trimming. Returns -1 when no
// such row exists anywhere in the table.
func FindHeaderRow(rows [][]string) int {
	for i, row := range rows {
		var hasTime, hasPosition bool
		for _, cell := range row {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "time":
				hasTime = true
			case "position":
				hasPosition = true
			}
		}
		if hasTime && hasPosition {
			return i
		}
	}
	return -1
}
