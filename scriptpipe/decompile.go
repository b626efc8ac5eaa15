// Package scriptpipe implements the script pipeline's pass 2 (C9): once
// package xref has built the variable database, every script with
// non-empty compiled bytecode is rendered into a textual representation.
//
// This is deliberately a textual renderer, not a bytecode interpreter:
// spec.md's Non-goals exclude emulating game behavior, and the compiled
// instruction stream's opcode table is undocumented for this format. The
// renderer instead reconstructs the parts of a script's surface a human
// reader actually wants -- its declared variables and the objects/
// variables it references -- from the fields pass 1 already parsed,
// mirroring the teacher's own repcmd.Params(verbose) methods that turn
// opaque compiled command bytes into human-readable text per command,
// generalized here to one function body of text per script.
package scriptpipe

import (
	"fmt"
	"strings"

	"github.com/vaultrecon/semrecon/model"
	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/scankit"
	"github.com/vaultrecon/semrecon/xref"
)

// FormNameResolver resolves a form-id to its best display string. Package
// scriptpipe takes this as a plain function rather than depending on
// formindex directly, so it never needs to know how names are indexed.
type FormNameResolver func(reccore.FormID) (string, bool)

// Decompile implements spec.md §4.9 pass 2: for every script with
// non-empty compiled bytecode, render its textual representation.
// Failures are caught per-script; the surrounding record is always kept.
func Decompile(scripts []*model.Script, vars xref.VariableDatabase, resolveForm FormNameResolver) []scankit.TelemetryEvent {
	var tel []scankit.TelemetryEvent
	for _, s := range scripts {
		if len(s.CompiledBytecode) == 0 {
			continue
		}
		text, err := decompileOne(s, vars, resolveForm)
		if err != nil {
			msg := fmt.Sprintf("; Decompilation failed: %s", err)
			s.DecompiledText = &msg
			tel = append(tel, scankit.TelemetryEvent{Kind: "decompile-failure", FormID: s.FormID, Message: err.Error()})
			continue
		}
		s.DecompiledText = &text
	}
	return tel
}

// decompileOne fails when the script's own header disagrees with the
// bytecode pass 1 actually captured -- the one condition this renderer
// can detect without interpreting the instruction stream itself.
func decompileOne(s *model.Script, vars xref.VariableDatabase, resolveForm FormNameResolver) (string, error) {
	if s.CompiledSize != 0 && int(s.CompiledSize) != len(s.CompiledBytecode) {
		return "", fmt.Errorf("compiled-size %d does not match captured bytecode length %d", s.CompiledSize, len(s.CompiledBytecode))
	}

	var b strings.Builder

	name := "Unnamed"
	if s.EditorID != nil {
		name = *s.EditorID
	}
	fmt.Fprintf(&b, "scn %s\n", name)

	for _, v := range s.Variables {
		kind := "ref"
		if v.IsInteger {
			kind = "short"
		}
		fmt.Fprintf(&b, "%s %s\n", kind, v.Name)
	}

	if len(s.ReferencedObjects) > 0 {
		b.WriteString("\n; referenced objects\n")
		for _, ref := range s.ReferencedObjects {
			if ref.IsVariable {
				if varName, ok := vars.Lookup(s.FormID, int32(ref.VarIndex)); ok {
					fmt.Fprintf(&b, "; var[%d] -> %s\n", ref.VarIndex, varName)
				} else {
					fmt.Fprintf(&b, "; var[%d]\n", ref.VarIndex)
				}
				continue
			}
			if name, ok := resolveForm(ref.FormID); ok {
				fmt.Fprintf(&b, "; %s (%s)\n", name, ref.FormID)
			} else {
				fmt.Fprintf(&b, "; %s\n", ref.FormID)
			}
		}
	}

	fmt.Fprintf(&b, "\n; %d bytes compiled, %s\n", len(s.CompiledBytecode), endianLabel(s.BigEndian))
	if s.SourceText != nil {
		b.WriteString("\n; decompiled from source text (verbatim)\n")
		b.WriteString(*s.SourceText)
		if !strings.HasSuffix(*s.SourceText, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteString("end\n")

	return b.String(), nil
}

func endianLabel(bigEndian bool) string {
	if bigEndian {
		return reccore.BigEndian.String() + "-endian"
	}
	return reccore.LittleEndian.String() + "-endian"
}
