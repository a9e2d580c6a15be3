// File: internal/profile/evaluator.go
package profile

import "strings"

// Evaluation partitions the schema into attributes already on file and
// attributes still to collect. Missing preserves schema order.
type Evaluation struct {
	Present map[string]string
	Missing []string
}

// Complete reports whether no required attribute is missing.
func (e Evaluation) Complete() bool {
	return len(e.Missing) == 0
}

// Evaluate walks the schema in order and sorts each name into present or
// missing based on the known attributes. An attribute whose value is empty
// or whitespace-only counts as missing. Pure function: identical inputs
// always produce identical output.
func Evaluate(schema Schema, known map[string]string) Evaluation {
	eval := Evaluation{
		Present: make(map[string]string, len(schema)),
		Missing: make([]string, 0, len(schema)),
	}
	for _, name := range schema {
		value, ok := known[name]
		if ok && strings.TrimSpace(value) != "" {
			eval.Present[name] = value
		} else {
			eval.Missing = append(eval.Missing, name)
		}
	}
	return eval
}
