// File: internal/profile/schema.go
package profile

import "leadgen_backend/internal/config"

// Schema is the ordered list of attribute names a complete profile must
// supply. Order determines presentation order, nothing else. The same value
// drives both the completeness evaluator and the submission validator, so
// what is asked and what is enforced cannot drift apart.
type Schema []string

// NewSchema builds the schema from configuration.
func NewSchema(cfg *config.Config) Schema {
	return Schema(cfg.RequiredFieldNames())
}

// Contains reports whether name is part of the schema.
func (s Schema) Contains(name string) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}
