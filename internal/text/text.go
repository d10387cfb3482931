// Copyright 2025 The ciprobe Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package text defines general text utilities for the output of the program.
package text

import (
	"strings"
	"unicode/utf8"
)

// Wrap wraps the given string to the given width. It wraps each paragraph,
// separated by two newlines, separately. A word longer than width is put on
// its own line.
func Wrap(s string, width int) string {
	paragraphs := make([]string, 0, strings.Count(s, "\n\n")+1)

	for p := range strings.SplitSeq(s, "\n\n") {
		words := strings.Fields(p)
		if len(words) == 0 {
			continue
		}

		var sb strings.Builder

		l := 0

		for _, w := range words {
			n := utf8.RuneCountInString(w)

			if l > 0 && l+1+n > width {
				sb.WriteByte('\n')

				l = 0
			}

			if l > 0 {
				sb.WriteByte(' ')

				l++
			}

			sb.WriteString(w)

			l += n
		}

		paragraphs = append(paragraphs, sb.String())
	}

	if len(paragraphs) == 0 {
		return ""
	}

	return strings.Join(paragraphs, "\n\n") + "\n"
}

// Indent adds prefix to the beginning of every non-empty line in s.
func Indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")

	var sb strings.Builder

	for _, line := range lines {
		if line != "" && line != "\n" {
			sb.WriteString(prefix)
		}

		sb.WriteString(line)
	}

	return sb.String()
}
