package analyzer

// lexState is the state of the SourceContext byte-classification walk.
type lexState int

const (
	stateCode lexState = iota
	stateLineComment
	stateBlockComment
	stateString
	stateChar
	stateMultiline
)

// ByteClass tags a single byte's lexical role so pattern matching can
// ignore everything that isn't live code.
type ByteClass uint8

const (
	ClassCode ByteClass = iota
	ClassLineComment
	ClassBlockComment
	ClassString
	ClassChar
	ClassMultiline
)

// SourceContext classifies every byte of a source buffer as code,
// line-comment, block-comment, string, char, or multiline-string, via
// a single left-to-right walk. Nothing downstream may treat an offset
// as code without checking this classification first.
type SourceContext struct {
	src     []byte
	classes []ByteClass
	// lineStart[i] is the byte offset where line i (1-based) begins.
	lineStart []int
}

// NewSourceContext classifies src and returns a ready-to-query index.
func NewSourceContext(src []byte) *SourceContext {
	src = skipBOM(src)
	sc := &SourceContext{
		src:       src,
		classes:   make([]ByteClass, len(src)),
		lineStart: []int{0},
	}
	sc.scan()
	return sc
}

func skipBOM(src []byte) []byte {
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		return src[3:]
	}
	return src
}

func (sc *SourceContext) scan() {
	state := stateCode
	blockDepth := 0
	src := sc.src
	n := len(src)

	atLineStart := true
	for i := 0; i < n; i++ {
		b := src[i]

		if b == '\n' {
			sc.lineStart = append(sc.lineStart, i+1)
			if state == stateLineComment {
				state = stateCode
			}
			if state == stateMultiline {
				// A multiline-string segment only covers its own
				// line; re-evaluate continuation at the next line.
				state = stateCode
			}
			sc.classes[i] = classFor(state, stateCode)
			atLineStart = true
			continue
		}

		switch state {
		case stateCode:
			switch {
			case b == '/' && i+1 < n && src[i+1] == '/':
				state = stateLineComment
				sc.classes[i] = ClassLineComment
				i++
				sc.classes[i] = ClassLineComment
			case b == '/' && i+1 < n && src[i+1] == '*':
				state = stateBlockComment
				blockDepth = 1
				sc.classes[i] = ClassBlockComment
				i++
				sc.classes[i] = ClassBlockComment
			case b == '"':
				state = stateString
				sc.classes[i] = ClassString
			case b == '\'':
				state = stateChar
				sc.classes[i] = ClassChar
			case atLineStart && b == '\\' && i+1 < n && src[i+1] == '\\':
				state = stateMultiline
				sc.classes[i] = ClassMultiline
				i++
				sc.classes[i] = ClassMultiline
			case isWhitespace(b):
				// Leading whitespace keeps atLineStart so an indented
				// `\\` still opens a multiline-string segment.
				sc.classes[i] = ClassCode
				continue
			default:
				sc.classes[i] = ClassCode
				atLineStart = false
				continue
			}
		case stateLineComment:
			sc.classes[i] = ClassLineComment
		case stateBlockComment:
			sc.classes[i] = ClassBlockComment
			if b == '*' && i+1 < n && src[i+1] == '/' {
				blockDepth--
				i++
				sc.classes[i] = ClassBlockComment
				if blockDepth == 0 {
					state = stateCode
				}
			} else if b == '/' && i+1 < n && src[i+1] == '*' {
				blockDepth++
				i++
				sc.classes[i] = ClassBlockComment
			}
		case stateString:
			sc.classes[i] = ClassString
			if b == '\\' && i+1 < n {
				i++
				sc.classes[i] = ClassString
			} else if b == '"' {
				state = stateCode
			}
		case stateChar:
			sc.classes[i] = ClassChar
			if b == '\\' && i+1 < n {
				i++
				sc.classes[i] = ClassChar
			} else if b == '\'' {
				state = stateCode
			}
		case stateMultiline:
			sc.classes[i] = ClassMultiline
		}
		atLineStart = false
	}
}

func classFor(state, fallback lexState) ByteClass {
	switch state {
	case stateLineComment:
		return ClassLineComment
	case stateBlockComment:
		return ClassBlockComment
	case stateString:
		return ClassString
	case stateChar:
		return ClassChar
	case stateMultiline:
		return ClassMultiline
	default:
		return ClassCode
	}
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

// ClassAt returns the byte class at offset, or ClassCode if out of range.
func (sc *SourceContext) ClassAt(offset int) ByteClass {
	if offset < 0 || offset >= len(sc.classes) {
		return ClassCode
	}
	return sc.classes[offset]
}

// IsCode reports whether offset falls inside live code (not comment,
// string, char, or multiline-string content).
func (sc *SourceContext) IsCode(offset int) bool {
	return sc.ClassAt(offset) == ClassCode
}

// ValidatePattern reports whether needle occurs within lineText at a
// position classified as code, by locating lineText's byte range in
// the original buffer and checking every byte of the match.
func (sc *SourceContext) ValidatePattern(lineNo int, lineText string, needle string) bool {
	start := sc.LineOffset(lineNo)
	if start < 0 {
		return false
	}
	idx := indexAllCode(sc, start, lineText, needle)
	return idx >= 0
}

func indexAllCode(sc *SourceContext, lineStart int, lineText, needle string) int {
	from := 0
	for {
		rel := indexString(lineText[from:], needle)
		if rel < 0 {
			return -1
		}
		abs := from + rel
		ok := true
		for k := 0; k < len(needle); k++ {
			if !sc.IsCode(lineStart + abs + k) {
				ok = false
				break
			}
		}
		if ok {
			return abs
		}
		from = abs + 1
		if from >= len(lineText) {
			return -1
		}
	}
}

func indexString(haystack, needle string) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

// LineOffset returns the byte offset where 1-based line lineNo begins,
// or -1 if out of range.
func (sc *SourceContext) LineOffset(lineNo int) int {
	idx := lineNo - 1
	if idx < 0 || idx >= len(sc.lineStart) {
		return -1
	}
	return sc.lineStart[idx]
}

// LineCount returns the number of lines observed (at least 1).
func (sc *SourceContext) LineCount() int {
	return len(sc.lineStart)
}
