// Package binder converts argument tokens into typed values according to a command's
// parameter specs. Binding is positional: token i binds to parameter i.
package binder

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cmdshell/pkg/shelltypes"
)

var floatPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// Bind binds tokens to params and returns the bound arguments.
// It fails with a *shelltypes.ArgumentError describing the first token that could not be bound.
func Bind(tokens []string, params []shelltypes.ParameterSpec) (shelltypes.Args, error) {
	values := make([]shelltypes.Value, 0, len(params))

	for i, param := range params {
		if param.Variadic {
			rest := []string{}
			if i < len(tokens) {
				rest = tokens[i:]
			}
			v, err := bindRest(i, rest, param)
			if err != nil {
				return shelltypes.Args{}, err
			}
			values = append(values, v)
			return shelltypes.NewArgs(params, values), nil
		}

		if i >= len(tokens) {
			if param.Default != nil {
				values = append(values, *param.Default)
				continue
			}
			return shelltypes.Args{}, &shelltypes.ArgumentError{
				Index:  i,
				Param:  param.Name,
				Reason: shelltypes.ReasonMissing,
			}
		}

		v, err := coerceAt(i, tokens[i], param)
		if err != nil {
			return shelltypes.Args{}, err
		}
		values = append(values, v)
	}

	if len(tokens) > len(params) {
		return shelltypes.Args{}, &shelltypes.ArgumentError{
			Index:  len(params),
			Reason: shelltypes.ReasonTooMany,
			Token:  tokens[len(params)],
			Err:    fmt.Errorf("expected at most %d, got %d", len(params), len(tokens)),
		}
	}

	return shelltypes.NewArgs(params, values), nil
}

func bindRest(start int, tokens []string, param shelltypes.ParameterSpec) (shelltypes.Value, error) {
	if len(tokens) == 0 && param.Default != nil {
		return *param.Default, nil
	}
	items := make([]shelltypes.Value, 0, len(tokens))
	for j, token := range tokens {
		v, err := coerceAt(start+j, token, param)
		if err != nil {
			return shelltypes.Value{}, err
		}
		items = append(items, v)
	}
	return shelltypes.ListValue(param.Type, items), nil
}

func coerceAt(index int, token string, param shelltypes.ParameterSpec) (shelltypes.Value, error) {
	v, err := Coerce(token, param)
	if err != nil {
		var argErr *shelltypes.ArgumentError
		if errors.As(err, &argErr) {
			argErr.Index = index
		}
		return shelltypes.Value{}, err
	}
	return v, nil
}

// Coerce converts a single token to the parameter's type and applies its validity predicate.
// Failures are *shelltypes.ArgumentError values with Index 0; Bind fills in the real position.
func Coerce(token string, param shelltypes.ParameterSpec) (shelltypes.Value, error) {
	v, reason, err := convert(token, param)
	if err == nil && param.Validate != nil {
		if verr := param.Validate(v); verr != nil {
			reason, err = shelltypes.ReasonOutOfRange, verr
		}
	}
	if err != nil {
		return shelltypes.Value{}, &shelltypes.ArgumentError{
			Param:  param.Name,
			Reason: reason,
			Token:  token,
			Err:    err,
		}
	}
	return v, nil
}

func convert(token string, param shelltypes.ParameterSpec) (shelltypes.Value, shelltypes.Reason, error) {
	switch param.Type {
	case shelltypes.TypeString:
		return shelltypes.StringValue(token), "", nil
	case shelltypes.TypeInt:
		n, reason, err := parseInt(token, param.BitSize())
		if err != nil {
			return shelltypes.Value{}, reason, err
		}
		return shelltypes.IntValue(n).WithText(token), "", nil
	case shelltypes.TypeUint:
		n, reason, err := parseUint(token, param.BitSize())
		if err != nil {
			return shelltypes.Value{}, reason, err
		}
		return shelltypes.UintValue(n).WithText(token), "", nil
	case shelltypes.TypeFloat:
		f, reason, err := parseFloat(token)
		if err != nil {
			return shelltypes.Value{}, reason, err
		}
		return shelltypes.FloatValue(f).WithText(token), "", nil
	case shelltypes.TypeBool:
		b, err := parseBool(token)
		if err != nil {
			return shelltypes.Value{}, shelltypes.ReasonTypeMismatch, err
		}
		return shelltypes.BoolValue(b).WithText(token), "", nil
	case shelltypes.TypeChoice:
		for _, choice := range param.Choices {
			if token == choice {
				return shelltypes.ChoiceValue(token), "", nil
			}
		}
		return shelltypes.Value{}, shelltypes.ReasonTypeMismatch,
			fmt.Errorf("%q is not one of %s", token, strings.Join(param.Choices, ", "))
	default:
		return shelltypes.Value{}, shelltypes.ReasonTypeMismatch,
			fmt.Errorf("unsupported parameter type %s", param.Type)
	}
}

// splitInteger separates an optional sign and 0x prefix from the digits.
func splitInteger(text string) (sign string, base int, digits string) {
	base = 10
	digits = text
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		sign, digits = digits[:1], digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base, digits = 16, digits[2:]
	}
	return sign, base, digits
}

func parseInt(text string, bits int) (int64, shelltypes.Reason, error) {
	sign, base, digits := splitInteger(text)
	if digits == "" || strings.ContainsAny(digits, "+-_") {
		return 0, shelltypes.ReasonTypeMismatch, fmt.Errorf("invalid integer %q", text)
	}
	n, err := strconv.ParseInt(sign+digits, base, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, shelltypes.ReasonOutOfRange, fmt.Errorf("%s does not fit in int%d", text, bits)
		}
		return 0, shelltypes.ReasonTypeMismatch, fmt.Errorf("invalid integer %q", text)
	}
	return n, "", nil
}

func parseUint(text string, bits int) (uint64, shelltypes.Reason, error) {
	sign, base, digits := splitInteger(text)
	if digits == "" || strings.ContainsAny(digits, "+-_") {
		return 0, shelltypes.ReasonTypeMismatch, fmt.Errorf("invalid unsigned integer %q", text)
	}
	n, err := strconv.ParseUint(digits, base, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, shelltypes.ReasonOutOfRange, fmt.Errorf("%s does not fit in uint%d", text, bits)
		}
		return 0, shelltypes.ReasonTypeMismatch, fmt.Errorf("invalid unsigned integer %q", text)
	}
	if sign == "-" && n != 0 {
		return 0, shelltypes.ReasonOutOfRange, fmt.Errorf("%s is negative", text)
	}
	return n, "", nil
}

func parseFloat(text string) (float64, shelltypes.Reason, error) {
	if !floatPattern.MatchString(text) {
		return 0, shelltypes.ReasonTypeMismatch, fmt.Errorf("invalid number %q", text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, shelltypes.ReasonOutOfRange, fmt.Errorf("%s overflows float64", text)
		}
		return 0, shelltypes.ReasonTypeMismatch, fmt.Errorf("invalid number %q", text)
	}
	return f, "", nil
}

func parseBool(text string) (bool, error) {
	switch text {
	case "true", "True", "t", "T", "1":
		return true, nil
	case "false", "False", "f", "F", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q (use true/false, t/f or 1/0)", text)
	}
}
