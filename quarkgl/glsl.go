package quarkgl

import (
	"fmt"
	"strconv"
	"strings"
)

// Stage is the pipeline stage a source is written for.
type Stage uint8

const (
	StageVertex Stage = iota + 1
	StageFragment
)

// Variable is a global in, out or uniform declaration of a shader stage.
type Variable struct {
	Name     string
	Type     string
	Location int // -1 when no layout location was given
	Line     int
}

// Interface is the linkable surface of a validated GLSL stage.
type Interface struct {
	Stage   Stage
	Version int
	Profile string
	HasMain bool

	Inputs   []Variable
	Outputs  []Variable
	Uniforms []Variable
}

// Program is the result of linking a vertex and a fragment interface.
type Program struct {
	Attributes []Variable
	Uniforms   []Variable
}

// UniformLocation returns the index of the named uniform or -1.
func (p *Program) UniformLocation(name string) int {
	if p == nil {
		return -1
	}
	for i, u := range p.Uniforms {
		if u.Name == name {
			return i
		}
	}
	return -1
}

var glslTypes = map[string]bool{
	"bool": true, "int": true, "uint": true, "float": true, "double": true,
	"vec2": true, "vec3": true, "vec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"uvec2": true, "uvec3": true, "uvec4": true,
	"bvec2": true, "bvec3": true, "bvec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"mat2x2": true, "mat2x3": true, "mat2x4": true,
	"mat3x2": true, "mat3x3": true, "mat3x4": true,
	"mat4x2": true, "mat4x3": true, "mat4x4": true,
	"sampler1D": true, "sampler2D": true, "sampler3D": true, "samplerCube": true,
}

var glslVersions = map[int]bool{
	110: true, 120: true, 130: true, 140: true, 150: true,
	300: true, 310: true, 320: true, 330: true,
	400: true, 410: true, 420: true, 430: true, 440: true, 450: true, 460: true,
}

type token struct {
	text string
	line int
}

type diag struct {
	b strings.Builder
}

func (d *diag) errorf(line int, format string, args ...any) {
	if d.b.Len() > 0 {
		d.b.WriteByte('\n')
	}
	fmt.Fprintf(&d.b, "0:%d: error: ", line)
	fmt.Fprintf(&d.b, format, args...)
}

func (d *diag) String() string { return d.b.String() }

// ParseGLSL validates src and extracts its interface. Diagnostics are in the
// "0:<line>: error: ..." form drivers use; a non-empty log means the stage
// failed to compile.
func ParseGLSL(stage Stage, src string) (*Interface, string) {
	var d diag
	code, ok := stripComments(src, &d)
	if !ok {
		return nil, d.String()
	}

	in := &Interface{Stage: stage}
	lines := strings.Split(code, "\n")
	sawCode := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "#") {
			sawCode = true
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(trimmed, "#"))
		if len(fields) > 0 && fields[0] == "version" {
			if sawCode || in.Version != 0 {
				d.errorf(i+1, "#version must occur on the first line")
			} else {
				parseVersion(in, fields[1:], i+1, &d)
			}
		}
		// Preprocessor lines take no part in the declaration scan.
		lines[i] = ""
	}
	if in.Version == 0 && d.b.Len() == 0 {
		d.errorf(1, "missing #version directive")
	}
	if d.b.Len() > 0 {
		return nil, d.String()
	}

	toks := tokenize(strings.Join(lines, "\n"))
	scanDeclarations(stage, in, toks, &d)
	if d.b.Len() > 0 {
		return nil, d.String()
	}
	return in, ""
}

func parseVersion(in *Interface, args []string, line int, d *diag) {
	if len(args) == 0 {
		d.errorf(line, "invalid #version directive")
		return
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		d.errorf(line, "invalid #version directive")
		return
	}
	if !glslVersions[v] {
		d.errorf(line, "GLSL %d is not supported", v)
		return
	}
	in.Version = v
	if len(args) > 1 {
		switch args[1] {
		case "core", "compatibility", "es":
			in.Profile = args[1]
		default:
			d.errorf(line, "invalid profile `%s'", args[1])
		}
	}
}

func stripComments(src string, d *diag) (string, bool) {
	out := []byte(src)
	line := 1
	for i := 0; i < len(out); i++ {
		switch {
		case out[i] == '\n':
			line++
		case out[i] == '/' && i+1 < len(out) && out[i+1] == '/':
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
			if i < len(out) {
				line++
			}
		case out[i] == '/' && i+1 < len(out) && out[i+1] == '*':
			start := line
			out[i], out[i+1] = ' ', ' '
			i += 2
			for {
				if i+1 >= len(out) {
					d.errorf(start, "unterminated comment")
					return "", false
				}
				if out[i] == '*' && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] == '\n' {
					line++
				} else {
					out[i] = ' '
				}
				i++
			}
		}
	}
	return string(out), true
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

var multiOps = []string{
	"<<=", ">>=",
	"++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"==", "!=", "<=", ">=", "&&", "||", "^^", "<<", ">>",
}

func tokenize(code string) []token {
	var toks []token
	line := 1
	for i := 0; i < len(code); {
		c := code[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case isWordByte(c):
			j := i
			for j < len(code) && isWordByte(code[j]) {
				j++
			}
			toks = append(toks, token{text: code[i:j], line: line})
			i = j
		default:
			n := 1
			for _, op := range multiOps {
				if strings.HasPrefix(code[i:], op) {
					n = len(op)
					break
				}
			}
			toks = append(toks, token{text: code[i : i+n], line: line})
			i += n
		}
	}
	return toks
}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true,
	"&&": true, "||": true, "^^": true, "&": true, "|": true, "^": true,
	"<<": true, ">>": true, "?": true,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, "&=": true, "|=": true, "^=": true,
}

// operandStart holds tokens after which an expression begins.
var operandStart = map[string]bool{
	"(": true, "[": true, ",": true, ";": true, "{": true, "}": true,
}

var glslKeywords = map[string]bool{
	"void": true, "struct": true, "layout": true, "precision": true,
	"in": true, "out": true, "inout": true, "uniform": true, "attribute": true, "varying": true,
	"const": true, "flat": true, "smooth": true, "noperspective": true, "centroid": true,
	"highp": true, "mediump": true, "lowp": true,
	"if": true, "else": true, "for": true, "while": true, "do": true, "switch": true,
	"case": true, "default": true, "break": true, "continue": true, "return": true,
	"discard": true, "true": true, "false": true,
}

func isReserved(s string) bool { return glslTypes[s] || glslKeywords[s] }

// checkOperands rejects an operator with a missing operand on either side.
func checkOperands(prev string, t token, d *diag) bool {
	cur := t.text
	operator := binaryOps[prev] || assignOps[prev]
	switch {
	case binaryOps[cur] || assignOps[cur]:
		if cur == "+" || cur == "-" {
			return true
		}
		if operator || operandStart[prev] {
			d.errorf(t.line, "syntax error, unexpected '%s'", cur)
			return false
		}
	case cur == ";" || cur == ")" || cur == "]" || cur == "," || cur == "}":
		if operator {
			d.errorf(t.line, "syntax error, unexpected '%s'", cur)
			return false
		}
	}
	return true
}

var closers = map[string]string{")": "(", "]": "[", "}": "{"}

func scanDeclarations(stage Stage, in *Interface, toks []token, d *diag) {
	var stack []token
	var stmt []token
	structs := map[string]bool{}
	lastLine := 1
	var prev string
	// Struct and interface block bodies may be followed by declarator
	// names before the closing ';'.
	blockDecl := false

	for _, t := range toks {
		lastLine = t.line
		if len(stack) > 0 && stack[0].text == "{" && !checkOperands(prev, t, d) {
			return
		}
		switch t.text {
		case "(", "[", "{":
			if t.text == "{" && len(stack) == 0 {
				blockDecl = !scanHeader(in, stmt, structs)
				stmt = nil
			}
			stack = append(stack, t)
		case ")", "]", "}":
			if len(stack) == 0 || stack[len(stack)-1].text != closers[t.text] {
				d.errorf(t.line, "syntax error, unexpected '%s'", t.text)
				return
			}
			if t.text == "}" && prev != ";" && prev != "{" && prev != "}" {
				d.errorf(t.line, "syntax error, unexpected '}', expecting ';'")
				return
			}
			stack = stack[:len(stack)-1]
			if (len(stack) == 0 && t.text != "}") || (len(stack) > 0 && stack[0].text != "{") {
				stmt = append(stmt, t)
			}
			prev = t.text
			continue
		}
		if len(stack) == 0 {
			if t.text == ";" {
				switch {
				case blockDecl:
					blockDecl = false
					if len(stmt) > 0 {
						if _, ok := declarators(stmt, 0, false, d); !ok {
							return
						}
					}
				case len(stmt) > 0:
					if !scanDecl(stage, in, stmt, structs, d) {
						return
					}
				}
				stmt = nil
			} else {
				stmt = append(stmt, t)
			}
		} else if stack[0].text != "{" {
			stmt = append(stmt, t)
		}
		prev = t.text
	}
	if len(stack) > 0 || len(stmt) > 0 {
		d.errorf(lastLine, "syntax error, unexpected end of file")
	}
}

// scanHeader records function definitions and struct types opened at
// global scope. It reports whether the body belongs to a function.
func scanHeader(in *Interface, hdr []token, structs map[string]bool) bool {
	if len(hdr) >= 2 && hdr[0].text == "struct" {
		structs[hdr[1].text] = true
		return false
	}
	for i := 1; i < len(hdr); i++ {
		if hdr[i].text == "(" && hdr[i-1].text == "main" && i >= 2 && hdr[i-2].text == "void" {
			in.HasMain = true
		}
	}
	return len(hdr) > 0 && hdr[len(hdr)-1].text == ")"
}

func scanDecl(stage Stage, in *Interface, stmt []token, structs map[string]bool, d *diag) bool {
	location := -1
	i := 0
	if stmt[0].text == "layout" {
		end := -1
		for j := 1; j < len(stmt); j++ {
			if stmt[j].text == ")" {
				end = j
				break
			}
		}
		if end < 0 || len(stmt) < 2 || stmt[1].text != "(" {
			d.errorf(stmt[0].line, "syntax error, unexpected layout qualifier")
			return false
		}
		for j := 2; j+2 < end; j++ {
			if stmt[j].text == "location" && stmt[j+1].text == "=" {
				n, err := strconv.Atoi(stmt[j+2].text)
				if err != nil || n < 0 {
					d.errorf(stmt[j].line, "invalid location `%s'", stmt[j+2].text)
					return false
				}
				location = n
			}
		}
		i = end + 1
	}

	storage := ""
	constant := false
	for ; i < len(stmt); i++ {
		switch stmt[i].text {
		case "in", "out", "uniform", "attribute", "varying":
			storage = stmt[i].text
			continue
		case "const":
			constant = true
			continue
		case "flat", "smooth", "noperspective", "centroid", "highp", "mediump", "lowp":
			continue
		}
		break
	}
	if i >= len(stmt) {
		// layout(early_fragment_tests) in;
		if stmt[0].text == "layout" && storage != "" {
			return true
		}
		d.errorf(stmt[len(stmt)-1].line, "syntax error, unexpected ';'")
		return false
	}
	if storage == "" {
		return scanPlain(stmt[i:], structs, d)
	}

	typ := stmt[i]
	if !glslTypes[typ.text] && !structs[typ.text] {
		d.errorf(typ.line, "unknown type `%s'", typ.text)
		return false
	}
	i++
	if i >= len(stmt) {
		d.errorf(typ.line, "syntax error, unexpected ';', expecting IDENTIFIER")
		return false
	}
	names, ok := declarators(stmt, i, storage == "uniform" || constant, d)
	if !ok {
		return false
	}

	for _, name := range names {
		v := Variable{Name: name.text, Type: typ.text, Location: location, Line: name.line}
		var list *[]Variable
		switch storage {
		case "in", "attribute":
			list = &in.Inputs
		case "out":
			list = &in.Outputs
		case "varying":
			list = &in.Outputs
			if stage == StageFragment {
				list = &in.Inputs
			}
		default:
			list = &in.Uniforms
		}
		for _, prev := range *list {
			if prev.Name == v.Name {
				d.errorf(v.Line, "`%s' redeclared", v.Name)
				return false
			}
		}
		*list = append(*list, v)
		location = -1
	}
	return true
}

// scanPlain checks global statements without a storage qualifier:
// constants, prototypes and precision statements.
func scanPlain(stmt []token, structs map[string]bool, d *diag) bool {
	first := stmt[0]
	if first.text == "precision" {
		if len(stmt) == 3 && (stmt[1].text == "highp" || stmt[1].text == "mediump" || stmt[1].text == "lowp") && glslTypes[stmt[2].text] {
			return true
		}
		d.errorf(first.line, "syntax error, invalid precision statement")
		return false
	}
	if first.text != "void" && !glslTypes[first.text] && !structs[first.text] {
		if isIdent(first.text) && !isReserved(first.text) {
			d.errorf(first.line, "unknown type `%s'", first.text)
		} else {
			d.errorf(first.line, "syntax error, unexpected '%s'", first.text)
		}
		return false
	}
	if len(stmt) < 2 {
		d.errorf(first.line, "syntax error, unexpected ';', expecting IDENTIFIER")
		return false
	}
	if len(stmt) >= 3 && stmt[2].text == "(" && isIdent(stmt[1].text) && !isReserved(stmt[1].text) {
		last := stmt[len(stmt)-1]
		if last.text != ")" {
			d.errorf(last.line, "syntax error, unexpected '%s'", last.text)
			return false
		}
		return true
	}
	if first.text == "void" {
		d.errorf(stmt[1].line, "syntax error, unexpected '%s'", stmt[1].text)
		return false
	}
	_, ok := declarators(stmt, 1, true, d)
	return ok
}

// declarators parses `name [array] [= initializer]` items separated by
// commas, starting at stmt[i], up to the end of the statement.
func declarators(stmt []token, i int, initOK bool, d *diag) ([]token, bool) {
	end := token{text: ";", line: stmt[len(stmt)-1].line}
	at := func(i int) token {
		if i < len(stmt) {
			return stmt[i]
		}
		return end
	}
	unexpected := func(t token) ([]token, bool) {
		if t.text == ";" && t == end {
			d.errorf(t.line, "syntax error, unexpected ';', expecting IDENTIFIER")
		} else {
			d.errorf(t.line, "syntax error, unexpected '%s'", t.text)
		}
		return nil, false
	}

	var names []token
	for {
		name := at(i)
		if !isIdent(name.text) || isReserved(name.text) {
			return unexpected(name)
		}
		names = append(names, name)
		i++

		if at(i).text == "[" {
			depth := 0
			for ; i < len(stmt); i++ {
				if stmt[i].text == "[" {
					depth++
				} else if stmt[i].text == "]" {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if i >= len(stmt) {
				d.errorf(end.line, "syntax error, unexpected ';', expecting ']'")
				return nil, false
			}
			i++
		}

		if at(i).text == "=" {
			if !initOK {
				return unexpected(stmt[i])
			}
			i++
			start := i
			depth := 0
			for ; i < len(stmt); i++ {
				switch stmt[i].text {
				case "(", "[":
					depth++
				case ")", "]":
					depth--
				}
				if depth == 0 && stmt[i].text == "," {
					break
				}
			}
			if i == start {
				if i < len(stmt) {
					return unexpected(stmt[i])
				}
				d.errorf(end.line, "syntax error, unexpected ';'")
				return nil, false
			}
			prev := "="
			for _, t := range stmt[start:i] {
				if !checkOperands(prev, t, d) {
					return nil, false
				}
				prev = t.text
			}
			if !checkOperands(prev, at(i), d) {
				return nil, false
			}
		}

		if i >= len(stmt) {
			return names, true
		}
		if stmt[i].text != "," {
			return unexpected(stmt[i])
		}
		i++
	}
}

func isIdent(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) || s[i] == '.' {
			return false
		}
	}
	return true
}

// Link checks that vs and fs form a complete program. A non-empty log means
// the link failed.
func Link(vs, fs *Interface) (*Program, string) {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, "error: "+fmt.Sprintf(format, args...))
	}

	if vs == nil {
		fail("program lacks a vertex shader")
	}
	if fs == nil {
		fail("program lacks a fragment shader")
	}
	if len(errs) > 0 {
		return nil, strings.Join(errs, "\n")
	}
	if !vs.HasMain {
		fail("vertex shader lacks `main'")
	}
	if !fs.HasMain {
		fail("fragment shader lacks `main'")
	}

	for _, fin := range fs.Inputs {
		vout, ok := findVar(vs.Outputs, fin.Name)
		if !ok {
			fail("fragment shader input `%s' has no matching vertex shader output", fin.Name)
			continue
		}
		if vout.Type != fin.Type {
			fail("`%s' is %s in the vertex shader and %s in the fragment shader", fin.Name, vout.Type, fin.Type)
		}
	}
	if fs.Version >= 130 && len(fs.Outputs) == 0 {
		fail("fragment shader writes no output")
	}

	p := &Program{}
	for _, u := range append(append([]Variable(nil), vs.Uniforms...), fs.Uniforms...) {
		if prev, ok := findVar(p.Uniforms, u.Name); ok {
			if prev.Type != u.Type {
				fail("uniform `%s' declared as %s and %s", u.Name, prev.Type, u.Type)
			}
			continue
		}
		p.Uniforms = append(p.Uniforms, u)
	}
	p.Attributes = assignLocations(vs.Inputs)

	if len(errs) > 0 {
		return nil, strings.Join(errs, "\n")
	}
	return p, ""
}

// assignLocations keeps explicit locations and gives the rest the lowest
// free slots in declaration order.
func assignLocations(inputs []Variable) []Variable {
	out := append([]Variable(nil), inputs...)
	used := map[int]bool{}
	for _, v := range out {
		if v.Location >= 0 {
			used[v.Location] = true
		}
	}
	next := 0
	for i := range out {
		if out[i].Location >= 0 {
			continue
		}
		for used[next] {
			next++
		}
		out[i].Location = next
		used[next] = true
	}
	return out
}

func findVar(vars []Variable, name string) (Variable, bool) {
	for _, v := range vars {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
