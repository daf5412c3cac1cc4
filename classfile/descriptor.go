package classfile

import (
	"fmt"
	"strings"
)

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// MethodDescriptor is a parsed descriptor such as (ILjava/lang/String;)V,
// with types spelled the way source spells them.
type MethodDescriptor struct {
	Parameters []string
	Result     string
}

func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	var md MethodDescriptor
	if !strings.HasPrefix(desc, "(") {
		return md, fmt.Errorf("method descriptor %q: missing (", desc)
	}
	rest := desc[1:]
	for !strings.HasPrefix(rest, ")") {
		if rest == "" {
			return md, fmt.Errorf("method descriptor %q: missing )", desc)
		}
		typ, n, err := fieldType(rest)
		if err != nil {
			return md, fmt.Errorf("method descriptor %q: %w", desc, err)
		}
		md.Parameters = append(md.Parameters, typ)
		rest = rest[n:]
	}
	result, n, err := fieldType(rest[1:])
	if err != nil || n != len(rest)-1 {
		return md, fmt.Errorf("method descriptor %q: bad result type", desc)
	}
	md.Result = result
	return md, nil
}

// ParseFieldDescriptor spells a field descriptor such as [[I as int[][].
func ParseFieldDescriptor(desc string) (string, error) {
	typ, n, err := fieldType(desc)
	if err != nil {
		return "", err
	}
	if n != len(desc) {
		return "", fmt.Errorf("field descriptor %q: trailing input", desc)
	}
	return typ, nil
}

// fieldType reads one type from the front of s and reports how many bytes
// it used.
func fieldType(s string) (string, int, error) {
	dims := 0
	for dims < len(s) && s[dims] == '[' {
		dims++
	}
	if dims == len(s) {
		return "", 0, fmt.Errorf("truncated type")
	}
	var name string
	n := dims + 1
	switch c := s[dims]; c {
	case 'L':
		end := strings.IndexByte(s[dims:], ';')
		if end < 0 {
			return "", 0, fmt.Errorf("unterminated class type")
		}
		name = JavaName(s[dims+1 : dims+end])
		n = dims + end + 1
	default:
		base, ok := baseTypes[c]
		if !ok {
			return "", 0, fmt.Errorf("unknown type %q", c)
		}
		name = base
	}
	return name + strings.Repeat("[]", dims), n, nil
}
