package analyzer

import (
	"regexp"
	"strings"
)

var (
	reFuncSig   = regexp.MustCompile(`^(pub\s+)?(export\s+)?(extern\s+)?(inline\s+)?fn\s+([A-Za-z_]\w*)\s*\(`)
	reTestDecl  = regexp.MustCompile(`^test\s+"((?:[^"\\]|\\.)*)"`)
	reVarDecl   = regexp.MustCompile(`^(pub\s+)?(const|var)\s+([A-Za-z_]\w*)\s*(:\s*[^=]+?)?=\s*(.+?);?\s*$`)
	reDefer     = regexp.MustCompile(`^(defer|errdefer)\s+(.+?);?\s*$`)
	reControl   = regexp.MustCompile(`^(if|while|for|switch|comptime)\b`)
	reElse      = regexp.MustCompile(`^\}?\s*else\b`)
	reReturn    = regexp.MustCompile(`^return\s+(.+?);?\s*$`)
	reArenaInit = regexp.MustCompile(`ArenaAllocator\.init\s*\(`)
	reAllocCall = regexp.MustCompile(`\.(alloc|create|dupe|allocPrint|allocSentinel|realloc)\s*\(`)
	reAllocatorOf = regexp.MustCompile(`([A-Za-z_][\w.]*)\.allocator\s*\(\s*\)`)
)

// ScopeTrackerOptions configures ScopeTracker.Build.
type ScopeTrackerOptions struct {
	TrackArenaAllocators     bool
	TrackDeferStatements     bool
	TrackVariableLifecycles  bool
	MaxScopeDepth            int
	LazyParsing              bool // reserved, unused
	OwnershipPatterns        []OwnershipPattern
	// IsAllocatorParam reports whether a parameter name should be
	// treated as a pre-declared allocator-like variable.
	IsAllocatorParam func(name string) bool
}

// DefaultScopeTrackerOptions returns the specification's defaults.
func DefaultScopeTrackerOptions() ScopeTrackerOptions {
	return ScopeTrackerOptions{
		TrackArenaAllocators:    true,
		TrackDeferStatements:    true,
		TrackVariableLifecycles: true,
		MaxScopeDepth:           64,
		OwnershipPatterns:       DefaultOwnershipPatterns(),
		IsAllocatorParam:        defaultIsAllocatorParam,
	}
}

func defaultIsAllocatorParam(name string) bool {
	lower := strings.ToLower(name)
	return lower == "allocator" || strings.HasSuffix(lower, "allocator")
}

// ScopeTracker builds a file's scope tree with a single, brace-counted
// pass over its lines, consulting a SourceContext to ignore non-code
// bytes and a PatternMatcher to attribute allocation origins.
type ScopeTracker struct {
	opts ScopeTrackerOptions
	pm   *PatternMatcher
}

// NewScopeTracker constructs a tracker. A nil PatternMatcher is
// replaced by the default table.
func NewScopeTracker(pm *PatternMatcher, opts ScopeTrackerOptions) *ScopeTracker {
	if opts.MaxScopeDepth <= 0 {
		opts.MaxScopeDepth = 64
	}
	if opts.IsAllocatorParam == nil {
		opts.IsAllocatorParam = defaultIsAllocatorParam
	}
	if pm == nil {
		pm, _ = NewPatternMatcher()
	}
	return &ScopeTracker{opts: opts, pm: pm}
}

// arenaHandle records a variable known to be an ArenaAllocator handle
// and whether it has been torn down via defer.
type arenaHandle struct {
	variable *Variable
	scope    *Scope
}

// Build produces the scope tree rooted at a synthetic file scope.
// It never returns a parse error: malformed input degrades to a
// best-effort tree, per the specification's robustness requirement.
// MaxDepthExceeded is the sole fatal condition.
func (t *ScopeTracker) Build(sc *SourceContext, src []byte) (*Scope, []*arenaHandle, *AnalysisError) {
	file := newScope(ScopeFile, "", 1, 0, 0, nil)
	stack := []*Scope{file}
	var arenas []*arenaHandle
	// arenaVarNames maps a known arena-handle variable name to its record,
	// so `const aa = arena.allocator();` can be recognized as arena-derived.
	arenaVarNames := map[string]*Variable{}

	lines := splitLinesKeepOffsets(src)

	// pendingSig buffers a function/test signature across lines until
	// its opening brace is found (best-effort multi-line support).
	var pendingSig strings.Builder
	inSig := false
	sigStartLine := 0
	sigKind := ScopeFunction
	sigName := ""

	for lineNo := 1; lineNo <= len(lines); lineNo++ {
		ln := lines[lineNo-1]
		lineStart := sc.LineOffset(lineNo)
		trimmed := strings.TrimSpace(ln)
		if trimmed == "" {
			continue
		}
		firstNonWS := leadingWhitespace(ln)
		if !sc.IsCode(lineStart + firstNonWS) {
			// Entire statement begins inside a comment/string/multiline
			// segment; still track braces that are classified as code.
			t.consumeBraces(sc, lineStart, ln, &stack, lineNo)
			continue
		}

		top := stack[len(stack)-1]

		if inSig {
			pendingSig.WriteString(" ")
			pendingSig.WriteString(trimmed)
			if idx := strings.IndexByte(trimmed, '{'); idx >= 0 {
				sigText := pendingSig.String()
				sigText = strings.TrimSuffix(strings.TrimSpace(sigText), "{")
				newS := t.openSignatureScope(sigKind, sigName, sigText, sigStartLine, top, len(stack))
				if len(stack) >= t.opts.MaxScopeDepth {
					return nil, nil, newError(ErrMaxDepthExceeded, "", nil)
				}
				stack = append(stack, newS)
				t.registerParameters(newS)
				inSig = false
				pendingSig.Reset()
				rest := trimmed[idx+1:]
				t.consumeBraces(sc, lineStart+len(ln)-len(rest), rest, &stack, lineNo)
			}
			continue
		}

		switch {
		case reFuncSig.MatchString(trimmed):
			m := reFuncSig.FindStringSubmatch(trimmed)
			name := m[5]
			if idx := matchingParenAndBrace(trimmed); idx >= 0 {
				sigText := strings.TrimSuffix(strings.TrimSpace(trimmed[:idx]), "{")
				newS := t.openSignatureScope(ScopeFunction, name, sigText, lineNo, top, len(stack))
				if len(stack) >= t.opts.MaxScopeDepth {
					return nil, nil, newError(ErrMaxDepthExceeded, "", nil)
				}
				stack = append(stack, newS)
				t.registerParameters(newS)
				rest := trimmed[idx+1:]
				t.consumeBraces(sc, lineStart+len(ln)-len(rest), rest, &stack, lineNo)
			} else {
				inSig = true
				sigKind = ScopeFunction
				sigName = name
				sigStartLine = lineNo
				pendingSig.Reset()
				pendingSig.WriteString(trimmed)
			}

		case reTestDecl.MatchString(trimmed):
			m := reTestDecl.FindStringSubmatch(trimmed)
			name := unescapeZigString(m[1])
			if idx := strings.IndexByte(trimmed, '{'); idx >= 0 {
				newS := newScope(ScopeTestFunction, name, lineNo, len(stack), lineStart, top)
				if len(stack) >= t.opts.MaxScopeDepth {
					return nil, nil, newError(ErrMaxDepthExceeded, "", nil)
				}
				stack = append(stack, newS)
				rest := trimmed[idx+1:]
				t.consumeBraces(sc, lineStart+len(ln)-len(rest), rest, &stack, lineNo)
			} else {
				inSig = true
				sigKind = ScopeTestFunction
				sigName = name
				sigStartLine = lineNo
				pendingSig.Reset()
			}

		case reElse.MatchString(trimmed):
			if idx := strings.IndexByte(trimmed, '{'); idx >= 0 {
				newS := newScope(ScopeElseBlock, "", lineNo, len(stack), lineStart, top)
				stack = append(stack, newS)
				rest := trimmed[idx+1:]
				t.consumeBraces(sc, lineStart+len(ln)-len(rest), rest, &stack, lineNo)
			} else {
				t.consumeBraces(sc, lineStart, ln, &stack, lineNo)
			}

		case reControl.MatchString(trimmed):
			kind := controlScopeType(trimmed)
			if idx := strings.IndexByte(trimmed, '{'); idx >= 0 {
				newS := newScope(kind, "", lineNo, len(stack), lineStart, top)
				stack = append(stack, newS)
				rest := trimmed[idx+1:]
				t.consumeBraces(sc, lineStart+len(ln)-len(rest), rest, &stack, lineNo)
			} else {
				t.consumeBraces(sc, lineStart, ln, &stack, lineNo)
			}

		case reVarDecl.MatchString(trimmed):
			t.handleVarDecl(trimmed, lineNo, firstNonWS, top, arenaVarNames, &arenas)
			t.consumeBraces(sc, lineStart, ln, &stack, lineNo)

		case reDefer.MatchString(trimmed):
			t.handleDefer(trimmed, lineNo, top)
			t.consumeBraces(sc, lineStart, ln, &stack, lineNo)

		case reReturn.MatchString(trimmed):
			t.handleReturn(trimmed, top)
			t.consumeBraces(sc, lineStart, ln, &stack, lineNo)

		default:
			t.consumeBraces(sc, lineStart, ln, &stack, lineNo)
		}

		if len(stack) > t.opts.MaxScopeDepth {
			return nil, nil, newError(ErrMaxDepthExceeded, "", nil)
		}
	}

	// EOF: close whatever remains open at the last observed line,
	// without treating it as a fatal error.
	lastLine := len(lines)
	for len(stack) > 1 {
		s := stack[len(stack)-1]
		if s.EndLine == 0 {
			s.EndLine = lastLine
		}
		stack = stack[:len(stack)-1]
	}
	if file.EndLine == 0 {
		file.EndLine = lastLine
	}

	return file, arenas, nil
}

func (t *ScopeTracker) openSignatureScope(kind ScopeType, name, sigText string, startLine int, parent *Scope, depth int) *Scope {
	params, ret := splitSignature(sigText)
	s := newScope(kind, name, startLine, depth, 0, parent)
	s.Parameters = params
	s.ReturnType = ret
	return s
}

// registerParameters pre-declares allocator-shaped parameters so that
// "disallowed allocator" findings never fire against them.
func (t *ScopeTracker) registerParameters(s *Scope) {
	for _, p := range splitTopLevel(s.Parameters, ',') {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name := p
		typ := ""
		if idx := strings.IndexByte(p, ':'); idx >= 0 {
			name = strings.TrimSpace(p[:idx])
			typ = strings.TrimSpace(p[idx+1:])
		}
		name = strings.TrimPrefix(name, "comptime ")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		// A parameter counts as allocator-like either by its name
		// (the common `allocator`/`*_allocator` convention) or by its
		// declared type (`std.mem.Allocator` and similar) — the type
		// annotation is the more reliable signal when a project uses
		// a short parameter name such as `a`.
		if !t.opts.IsAllocatorParam(name) && !strings.Contains(typ, "Allocator") {
			continue
		}
		s.addVariable(&Variable{
			Name:        name,
			Line:        s.StartLine,
			Origin:      "<parameter:" + name + ">",
			IsParameter: true,
		})
	}
}

func (t *ScopeTracker) handleVarDecl(trimmed string, lineNo, col int, scope *Scope, arenaVarNames map[string]*Variable, arenas *[]*arenaHandle) {
	m := reVarDecl.FindStringSubmatch(trimmed)
	name := m[3]
	expr := m[5]

	if reArenaInit.MatchString(expr) {
		v := &Variable{Name: name, Line: lineNo, Column: col + 1, Origin: t.originOf(expr, "ArenaAllocator.init"), Kind: AllocArenaInit, IsArenaOwner: true}
		scope.addVariable(v)
		arenaVarNames[name] = v
		*arenas = append(*arenas, &arenaHandle{variable: v, scope: scope})
		return
	}

	if am := reAllocatorOf.FindStringSubmatch(expr); am != nil {
		if owner, ok := arenaVarNames[am[1]]; ok {
			v := &Variable{Name: name, Line: lineNo, Column: col + 1, Origin: "<arena:" + owner.Name + ">", IsArenaOwner: true}
			scope.addVariable(v)
			arenaVarNames[name] = owner
			return
		}
	}

	if reAllocCall.MatchString(expr) {
		kind := allocationKindOf(expr)
		origin := t.originOf(expr, allocCallSite(expr))
		fromParam := false
		if origin == UnknownOrigin {
			if owner, ok := arenaVarNames[receiverOf(expr)]; ok {
				origin = "<arena:" + owner.Name + ">"
			} else if param := scope.lookupVariable(receiverOf(expr)); param != nil && param.IsParameter {
				origin = param.Origin
				fromParam = true
			}
		}
		v := &Variable{Name: name, Line: lineNo, Column: col + 1, Origin: origin, Kind: kind, FromParameterAllocator: fromParam}
		scope.addVariable(v)
	}
}

func (t *ScopeTracker) originOf(expr, callSite string) string {
	idx := strings.Index(expr, callSite)
	receiver := expr
	if idx >= 0 {
		receiver = strings.TrimSpace(expr[:idx])
	}
	receiver = strings.TrimPrefix(receiver, "try ")
	receiver = strings.TrimSpace(receiver)
	if name := t.pm.Match(receiver); name != "" {
		return name
	}
	return UnknownOrigin
}

func receiverOf(expr string) string {
	loc := reAllocCall.FindStringIndex(expr)
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(expr[:loc[0]], "try "))
}

func allocCallSite(expr string) string {
	loc := reAllocCall.FindString(expr)
	return loc
}

func allocationKindOf(expr string) AllocationKind {
	m := reAllocCall.FindStringSubmatch(expr)
	if m == nil {
		return AllocAlloc
	}
	switch m[1] {
	case "create":
		return AllocCreate
	case "dupe":
		return AllocDupe
	case "allocPrint":
		return AllocAllocPrint
	case "allocSentinel":
		return AllocAllocSentinel
	case "realloc":
		return AllocRealloc
	default:
		return AllocAlloc
	}
}

func (t *ScopeTracker) handleDefer(trimmed string, lineNo int, scope *Scope) {
	if !t.opts.TrackDeferStatements {
		return
	}
	m := reDefer.FindStringSubmatch(trimmed)
	isErrdefer := m[1] == "errdefer"
	expr := m[2]
	scope.Defers = append(scope.Defers, DeferRecord{VariableName: expr, Line: lineNo, IsErrdefer: isErrdefer})
	for _, v := range scope.Variables {
		if strings.Contains(expr, v.Name) {
			if isErrdefer {
				v.HasErrdefer = true
			} else {
				v.HasDefer = true
			}
			v.DeferLine = lineNo
		}
	}
	// also reach ancestor scopes, per the scope-bounded lookup rule
	for cur := scope.Parent; cur != nil; cur = cur.Parent {
		for _, v := range cur.Variables {
			if strings.Contains(expr, v.Name) && !v.HasDefer && !v.HasErrdefer {
				if isErrdefer {
					v.HasErrdefer = true
				} else {
					v.HasDefer = true
				}
				v.DeferLine = lineNo
			}
		}
	}
}

func (t *ScopeTracker) handleReturn(trimmed string, scope *Scope) {
	m := reReturn.FindStringSubmatch(trimmed)
	expr := m[1]
	fnScope := scope
	for fnScope != nil && fnScope.Type != ScopeFunction && fnScope.Type != ScopeTestFunction {
		fnScope = fnScope.Parent
	}
	if fnScope == nil {
		return
	}
	for cur := scope; cur != nil && cur != fnScope.Parent; cur = cur.Parent {
		for _, v := range cur.Variables {
			if strings.Contains(expr, v.Name) {
				v.MarkTransferred()
			}
		}
	}
	if ownershipMatches(fnScope, t.opts.OwnershipPatterns) {
		for cur := scope; cur != nil && cur != fnScope.Parent; cur = cur.Parent {
			for _, v := range cur.Variables {
				if v.Kind != "" {
					v.MarkTransferred()
				}
			}
		}
	}
}

func ownershipMatches(fnScope *Scope, patterns []OwnershipPattern) bool {
	for _, p := range patterns {
		if p.FunctionPattern != "" && globMatchPrefix(p.FunctionPattern, fnScope.Name) {
			return true
		}
		if p.ReturnTypePattern != "" && strings.Contains(fnScope.ReturnType, p.ReturnTypePattern) {
			return true
		}
	}
	return false
}

func globMatchPrefix(pattern, name string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(name, strings.TrimSuffix(pattern, "*"))
	}
	if strings.HasSuffix(pattern, "$") {
		return name == strings.TrimSuffix(pattern, "$")
	}
	return strings.Contains(name, pattern)
}

// consumeBraces advances the scope stack for every code-classified
// '{' or '}' found in text, which begins at absolute offset start.
func (t *ScopeTracker) consumeBraces(sc *SourceContext, start int, text string, stack *[]*Scope, lineNo int) {
	for i := 0; i < len(text); i++ {
		off := start + i
		if !sc.IsCode(off) {
			continue
		}
		switch text[i] {
		case '{':
			top := (*stack)[len(*stack)-1]
			newS := newScope(ScopeAnonymousBlock, "", lineNo, len(*stack), off, top)
			*stack = append(*stack, newS)
		case '}':
			if len(*stack) > 1 {
				s := (*stack)[len(*stack)-1]
				s.EndLine = lineNo
				s.ByteEnd = off
				*stack = (*stack)[:len(*stack)-1]
			}
		}
	}
}

func controlScopeType(trimmed string) ScopeType {
	switch {
	case strings.HasPrefix(trimmed, "if"):
		return ScopeIfBlock
	case strings.HasPrefix(trimmed, "while"):
		return ScopeWhileLoop
	case strings.HasPrefix(trimmed, "for"):
		return ScopeForLoop
	case strings.HasPrefix(trimmed, "switch"):
		return ScopeSwitchBlock
	default:
		return ScopeComptimeBlock
	}
}

func leadingWhitespace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return len(s)
}

func splitLinesKeepOffsets(src []byte) []string {
	s := string(src)
	if s == "" {
		return []string{""}
	}
	lines := strings.Split(s, "\n")
	return lines
}

// matchingParenAndBrace returns the index of the '{' that opens a
// function body on the same line as its "fn NAME(" signature, or -1
// if the signature spans further lines.
func matchingParenAndBrace(trimmed string) int {
	depth := 0
	started := false
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case '(':
			depth++
			started = true
		case ')':
			depth--
		case '{':
			if started && depth <= 0 {
				return i
			}
		}
	}
	return -1
}

// splitSignature splits a signature text such as
// "pub fn NAME(params) ReturnType" at its first parenthesized group into
// params/return; anything before the first '(' is ignored.
func splitSignature(sigText string) (params, ret string) {
	open := strings.IndexByte(sigText, '(')
	if open < 0 {
		return "", strings.TrimSpace(sigText)
	}
	depth := 0
	for i := open; i < len(sigText); i++ {
		switch sigText[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(sigText[open+1 : i]), strings.TrimSpace(sigText[i+1:])
			}
		}
	}
	return strings.TrimSpace(sigText[open+1:]), ""
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

func unescapeZigString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
