// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package outputs

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/cromwell-infra/internal/log"
)

// Value is the preview of a single output.
type Value struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Value holds the literal when Resolved.
	Value    string `json:"value" yaml:"value"`
	Resolved bool   `json:"resolved" yaml:"resolved"`
	// Reference describes what the value waits on when not Resolved, e.g.
	// Ref(S3Bucket) or GetAtt(S3Bucket.Arn).
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// ErrInvalidTemplate is returned for input that is not a JSON template.
var ErrInvalidTemplate = errors.New("invalid template")

var subVariable = regexp.MustCompile(`\$\{([^!}][^}]*)\}`)

// deferred marks an expression that only resolves at deploy time.
type deferred struct {
	reference string
}

func (d deferred) Error() string { return "deferred: " + d.reference }

// Preview evaluates every output of a JSON template, sorted by name.
func Preview(template []byte) ([]Value, error) {
	if !gjson.ValidBytes(template) {
		return nil, ErrInvalidTemplate
	}
	doc := gjson.ParseBytes(template)

	ev := &evaluator{
		conditions: doc.Get("Conditions"),
		memo:       map[string]bool{},
		visiting:   map[string]bool{},
	}

	var values []Value
	var firstErr error
	doc.Get("Outputs").ForEach(func(name, output gjson.Result) bool {
		v := Value{
			Name:        name.String(),
			Description: output.Get("Description").String(),
		}

		s, err := ev.value(output.Get("Value"))
		var d deferred
		switch {
		case err == nil:
			v.Value = s
			v.Resolved = true
		case errors.As(err, &d):
			v.Reference = d.reference
		default:
			firstErr = fmt.Errorf("output %s: %w", v.Name, err)
			return false
		}

		log.Debugf("output previewed: name=%s resolved=%t", v.Name, v.Resolved)
		values = append(values, v)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(values, func(i, j int) bool { return values[i].Name < values[j].Name })
	return values, nil
}

type evaluator struct {
	conditions gjson.Result
	memo       map[string]bool
	visiting   map[string]bool
}

// value evaluates a value-producing expression to a string.
func (ev *evaluator) value(expr gjson.Result) (string, error) {
	switch {
	case !expr.Exists():
		return "", errors.New("missing value")
	case expr.Type == gjson.String, expr.Type == gjson.Number:
		return expr.String(), nil
	case expr.Type == gjson.True, expr.Type == gjson.False:
		return expr.String(), nil
	case !expr.IsObject():
		return "", fmt.Errorf("unsupported value %s", expr.Raw)
	}

	fn, args, err := intrinsic(expr)
	if err != nil {
		return "", err
	}

	switch fn {
	case "Ref":
		return "", deferred{reference: "Ref(" + args.String() + ")"}
	case "Fn::GetAtt":
		parts := args.Array()
		if args.Type == gjson.String {
			return "", deferred{reference: "GetAtt(" + args.String() + ")"}
		}
		if len(parts) != 2 {
			return "", fmt.Errorf("Fn::GetAtt expects 2 arguments, got %d", len(parts))
		}
		return "", deferred{reference: "GetAtt(" + parts[0].String() + "." + parts[1].String() + ")"}
	case "Fn::If":
		parts := args.Array()
		if len(parts) != 3 {
			return "", fmt.Errorf("Fn::If expects 3 arguments, got %d", len(parts))
		}
		ok, err := ev.condition(parts[0].String())
		if err != nil {
			return "", err
		}
		if ok {
			return ev.value(parts[1])
		}
		return ev.value(parts[2])
	case "Fn::Join":
		parts := args.Array()
		if len(parts) != 2 || !parts[1].IsArray() {
			return "", errors.New("Fn::Join expects a delimiter and a list")
		}
		var items []string
		for _, item := range parts[1].Array() {
			s, err := ev.value(item)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return strings.Join(items, parts[0].String()), nil
	case "Fn::Sub":
		return ev.sub(args)
	}

	return "", deferred{reference: fn}
}

// sub expands Fn::Sub. Variables must come from the inline map; anything
// else (parameters, resources, pseudo parameters) defers.
func (ev *evaluator) sub(args gjson.Result) (string, error) {
	text := args
	var vars gjson.Result
	if args.IsArray() {
		parts := args.Array()
		if len(parts) != 2 {
			return "", fmt.Errorf("Fn::Sub expects 2 arguments, got %d", len(parts))
		}
		text, vars = parts[0], parts[1]
	}

	var subErr error
	out := subVariable.ReplaceAllStringFunc(text.String(), func(m string) string {
		if subErr != nil {
			return m
		}
		name := m[2 : len(m)-1]
		v := vars.Get(gjson.Escape(name))
		if !v.Exists() {
			subErr = deferred{reference: "Sub(" + name + ")"}
			return m
		}
		s, err := ev.value(v)
		if err != nil {
			subErr = err
			return m
		}
		return s
	})
	if subErr != nil {
		return "", subErr
	}
	// ${!Literal} renders as ${Literal}.
	return strings.ReplaceAll(out, "${!", "${"), nil
}

// condition evaluates a named condition from the Conditions section.
func (ev *evaluator) condition(name string) (bool, error) {
	if v, ok := ev.memo[name]; ok {
		return v, nil
	}
	if ev.visiting[name] {
		return false, fmt.Errorf("condition %s refers to itself", name)
	}

	expr := ev.conditions.Get(gjson.Escape(name))
	if !expr.Exists() {
		return false, fmt.Errorf("unknown condition %s", name)
	}

	ev.visiting[name] = true
	v, err := ev.boolean(expr)
	delete(ev.visiting, name)
	if err != nil {
		return false, err
	}
	ev.memo[name] = v
	return v, nil
}

// boolean evaluates a condition expression.
func (ev *evaluator) boolean(expr gjson.Result) (bool, error) {
	if expr.Type == gjson.True || expr.Type == gjson.False {
		return expr.Bool(), nil
	}

	fn, args, err := intrinsic(expr)
	if err != nil {
		return false, err
	}

	switch fn {
	case "Condition":
		return ev.condition(args.String())
	case "Fn::Equals":
		parts := args.Array()
		if len(parts) != 2 {
			return false, fmt.Errorf("Fn::Equals expects 2 arguments, got %d", len(parts))
		}
		lhs, err := ev.value(parts[0])
		if err != nil {
			return false, err
		}
		rhs, err := ev.value(parts[1])
		if err != nil {
			return false, err
		}
		return lhs == rhs, nil
	case "Fn::Not":
		parts := args.Array()
		if len(parts) != 1 {
			return false, fmt.Errorf("Fn::Not expects 1 argument, got %d", len(parts))
		}
		v, err := ev.boolean(parts[0])
		return !v, err
	case "Fn::And", "Fn::Or":
		want := fn == "Fn::Or"
		for _, part := range args.Array() {
			v, err := ev.boolean(part)
			if err != nil {
				return false, err
			}
			if v == want {
				return want, nil
			}
		}
		return !want, nil
	}

	return false, fmt.Errorf("unsupported condition function %s", fn)
}

// intrinsic splits a single-key object into the function name and argument.
func intrinsic(expr gjson.Result) (string, gjson.Result, error) {
	m := expr.Map()
	if len(m) != 1 {
		return "", gjson.Result{}, fmt.Errorf("expected a single intrinsic function, got %s", expr.Raw)
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", gjson.Result{}, nil
}
