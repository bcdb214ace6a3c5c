/*
Copyright © 2021 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bgallie/hill/cryptors/hill"
	"github.com/bgallie/hill/cryptors/matrix"
)

// renderSteps writes a human readable account of trace to w.
func renderSteps(w io.Writer, trace hill.Trace) error {
	var sb strings.Builder

	for _, s := range trace {
		fmt.Fprintf(&sb, "== %s ==\n", s.Title)

		switch p := s.Payload.(type) {
		case hill.PreprocessStep:
			fmt.Fprintf(&sb, "input:   %q\n", p.Original)
			fmt.Fprintf(&sb, "cleaned: %s", p.Cleaned)
			if p.Padding > 0 {
				fmt.Fprintf(&sb, " (%d padding)", p.Padding)
			}
			sb.WriteString("\n")
		case hill.KeyStep:
			writeMatrix(&sb, p.Matrix)
		case hill.InverseStep:
			fmt.Fprintf(&sb, "det mod 26 = %d, det⁻¹ = %d\n", p.Determinant, p.DeterminantInverse)
			sb.WriteString("adjugate:\n")
			writeMatrix(&sb, p.Adjugate)
			sb.WriteString("inverse:\n")
			writeMatrix(&sb, p.Inverse)
		case hill.VectorsStep:
			fmt.Fprintf(&sb, "%s -> %v\n", p.Text, p.Vectors)
		case hill.BlockStep:
			fmt.Fprintf(&sb, "%v -> %v -> %v\n", p.Input, p.Raw, p.Reduced)
		case hill.ResultStep:
			fmt.Fprintf(&sb, "%s\n", p.Text)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeMatrix(sb *strings.Builder, m matrix.Matrix) {
	sb.WriteString(m.String())
	sb.WriteString("\n")
}
