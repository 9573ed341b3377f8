package program

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	nameRegex   = regexp.MustCompile(`^[a-zA-Z_$&%*!?\-][a-zA-Z0-9_$&%*!?\-]*$`)
	intRegex    = regexp.MustCompile(`^[+-]?[0-9]+$`)
	stringRegex = regexp.MustCompile(`^([^#\\]|\\[0-9]{3})*$`)
	escapeRegex = regexp.MustCompile(`\\[0-9]{3}`)
)

// IsName reports whether s is a valid variable or label name.
func IsName(s string) bool {
	return nameRegex.MatchString(s)
}

// ParseInt parses a decimal int literal with an optional sign.
func ParseInt(s string) (int64, error) {
	if !intRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid int literal %q", s)
	}
	return strconv.ParseInt(s, 10, 64)
}

// ParseFloat parses a float literal in hexadecimal (0x1.8p+1, exponent
// optional) or decimal notation.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	body := strings.TrimLeft(s, "+-")
	if len(body) > 1 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') && !strings.ContainsAny(body, "pP") {
		s += "p0"
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float literal %q", s)
	}
	return f, nil
}

// ParseBool accepts only the canonical lowercase spellings.
func ParseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool literal %q", s)
	}
}

// DecodeString validates a string literal and replaces \ddd escapes with
// the code point they name.
func DecodeString(s string) (string, error) {
	if !stringRegex.MatchString(s) {
		return "", fmt.Errorf("invalid string literal %q", s)
	}

	decoded := escapeRegex.ReplaceAllStringFunc(s, func(esc string) string {
		n, _ := strconv.Atoi(esc[1:])
		return string(rune(n))
	})
	return decoded, nil
}

// IsTypeName reports whether s names a type accepted by READ.
func IsTypeName(s string) bool {
	switch s {
	case "int", "bool", "string", "float":
		return true
	default:
		return false
	}
}

// ParseLiteral decodes the textual payload of an argument of type t.
func ParseLiteral(t ArgType, text string) (Arg, error) {
	switch t {
	case ArgVar:
		frame, name, ok := strings.Cut(strings.TrimSpace(text), "@")
		if !ok {
			return Arg{}, fmt.Errorf("invalid variable %q", text)
		}
		switch Frame(frame) {
		case GF, TF, LF:
		default:
			return Arg{}, fmt.Errorf("invalid frame %q", frame)
		}
		if !IsName(name) {
			return Arg{}, fmt.Errorf("invalid variable name %q", name)
		}
		return Var(Frame(frame), name), nil

	case ArgLabel:
		name := strings.TrimSpace(text)
		if !IsName(name) {
			return Arg{}, fmt.Errorf("invalid label %q", name)
		}
		return Label(name), nil

	case ArgTypeName:
		name := strings.TrimSpace(text)
		if !IsTypeName(name) {
			return Arg{}, fmt.Errorf("invalid type %q", name)
		}
		return TypeName(name), nil

	case ArgInt:
		i, err := ParseInt(strings.TrimSpace(text))
		if err != nil {
			return Arg{}, err
		}
		return Int(i), nil

	case ArgFloat:
		f, err := ParseFloat(text)
		if err != nil {
			return Arg{}, err
		}
		return Float(f), nil

	case ArgBool:
		b, err := ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Arg{}, err
		}
		return Bool(b), nil

	case ArgNil:
		if strings.TrimSpace(text) != "nil" {
			return Arg{}, fmt.Errorf("invalid nil literal %q", text)
		}
		return Nil(), nil

	case ArgString:
		s, err := DecodeString(text)
		if err != nil {
			return Arg{}, err
		}
		return String(s), nil

	default:
		return Arg{}, fmt.Errorf("unknown argument type %v", t)
	}
}
