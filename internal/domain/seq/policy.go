package seq

import "fmt"

// FailurePolicy classifies whether a step's failure aborts the run.
type FailurePolicy string

const (
	// PolicyFatal aborts the run at the first failure of this step.
	PolicyFatal FailurePolicy = "fatal"
	// PolicyWarn records the failure and lets the run continue.
	PolicyWarn FailurePolicy = "warn"
)

// String returns the string representation of the policy.
func (p FailurePolicy) String() string {
	return string(p)
}

// ParseFailurePolicy converts a configuration string into a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case PolicyFatal:
		return PolicyFatal, nil
	case PolicyWarn:
		return PolicyWarn, nil
	}
	return "", fmt.Errorf("unknown failure policy %q (want %q or %q)", s, PolicyFatal, PolicyWarn)
}
