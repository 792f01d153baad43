// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import (
	"bytes"
)

// matcher accumulates output and searches it for markers.
//
// Markers may arrive split across multiple chunks. Each search only covers the
// part of the buffer that may contain a not yet seen match: the new data plus
// the last maxLen-1 bytes of the previous data.
type matcher struct {
	markers [][]byte
	maxLen  int

	buf      bytes.Buffer
	searched int
}

func newMatcher(markers []string) *matcher {
	m := &matcher{
		markers: make([][]byte, 0, len(markers)),
	}

	for _, marker := range markers {
		m.markers = append(m.markers, []byte(marker))
		m.maxLen = max(m.maxLen, len(marker))
	}

	return m
}

// feed appends the chunk to the accumulated output and returns the index of
// the marker with the earliest occurrence or [NoMarker] if none is found yet.
// On equal positions the lower marker index wins.
func (m *matcher) feed(chunk []byte) int {
	m.buf.Write(chunk)

	data := m.buf.Bytes()
	start := max(0, m.searched-m.maxLen+1)
	window := data[start:]
	m.searched = len(data)

	found, foundPos := NoMarker, len(window)

	for idx, marker := range m.markers {
		pos := bytes.Index(window, marker)
		if pos >= 0 && pos < foundPos {
			found, foundPos = idx, pos
		}
	}

	return found
}

// output returns the accumulated output.
func (m *matcher) output() []byte {
	return m.buf.Bytes()
}
