package lintsetup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

var _ pflag.Value = (*boolChoiceValue)(nil)

// boolChoiceValue backs --dry-run so that "--dry-run", "--dry-run=no" and a
// trailing "--dry-run yes" all parse.
type boolChoiceValue struct {
	target *bool
}

func newBoolChoiceValue(target *bool) *boolChoiceValue {
	return &boolChoiceValue{target: target}
}

func (value *boolChoiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return strconv.FormatBool(*value.target)
}

func (value *boolChoiceValue) Set(input string) error {
	boolValue, ok := parseBoolChoice(input)
	if !ok {
		return fmt.Errorf(invalidBoolErrorFormat, input)
	}
	*value.target = boolValue
	return nil
}

func (value *boolChoiceValue) Type() string {
	return "bool"
}

func parseBoolChoice(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	switch normalized {
	case "", "true", "t", "1", "yes", "y", "on":
		return true, true
	case "false", "f", "0", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// splitDryRunArgument peels a trailing boolean off the positional arguments
// when --dry-run was given without "=".
func splitDryRunArgument(args []string, dryRunFlagChanged bool) ([]string, *bool) {
	trimmed := make([]string, len(args))
	copy(trimmed, args)
	if !dryRunFlagChanged || len(args) == 0 {
		return trimmed, nil
	}
	if boolValue, ok := parseBoolChoice(args[len(args)-1]); ok && args[len(args)-1] != "" {
		return trimmed[:len(trimmed)-1], &boolValue
	}
	return trimmed, nil
}
