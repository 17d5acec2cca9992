package analyzer

import "testing"

func TestSourceContextValidatePattern_CodeMatch(t *testing.T) {
	src := []byte("const x = try allocator.alloc(u8, 100);\n")
	sc := NewSourceContext(src)
	if !sc.ValidatePattern(1, "const x = try allocator.alloc(u8, 100);", "allocator.alloc") {
		t.Fatalf("expected code-context match")
	}
}

func TestSourceContextValidatePattern_CommentSuppressed(t *testing.T) {
	src := []byte("// const x = try allocator.alloc(u8, 100);\n")
	sc := NewSourceContext(src)
	if sc.ValidatePattern(1, "// const x = try allocator.alloc(u8, 100);", "allocator.alloc") {
		t.Fatalf("expected comment match to be suppressed")
	}
}

func TestSourceContextValidatePattern_StringSuppressed(t *testing.T) {
	src := []byte(`const s = "allocator.alloc(u8, 1)";` + "\n")
	sc := NewSourceContext(src)
	if sc.ValidatePattern(1, `const s = "allocator.alloc(u8, 1)";`, "allocator.alloc") {
		t.Fatalf("expected string-literal match to be suppressed")
	}
}

func TestSourceContextBlockComment(t *testing.T) {
	src := []byte("/* allocator.alloc inside a block comment */\ncode_here();\n")
	sc := NewSourceContext(src)
	if sc.ClassAt(3) != ClassBlockComment {
		t.Fatalf("expected block comment classification")
	}
}

func TestSourceContextUnterminatedStringAtEOF(t *testing.T) {
	src := []byte(`const s = "unterminated`)
	sc := NewSourceContext(src)
	if sc.LineCount() != 1 {
		t.Fatalf("expected single line, got %d", sc.LineCount())
	}
}

func TestSourceContextMultilineString(t *testing.T) {
	src := []byte("const s =\n    \\\\ hello\n    \\\\ world\n;\n")
	sc := NewSourceContext(src)
	off := sc.LineOffset(2)
	if sc.ClassAt(off+4) != ClassMultiline {
		t.Fatalf("expected multiline classification on line 2")
	}
}

func TestSourceContextBOMSkipped(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("const x = 1;\n")...)
	sc := NewSourceContext(src)
	if !sc.IsCode(0) {
		t.Fatalf("expected first byte after BOM to be code")
	}
}
