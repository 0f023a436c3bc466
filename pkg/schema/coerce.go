package schema

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/newtron-network/rosdriver/pkg/util"
)

// Coercer converts one raw attribute string into a typed value.
type Coercer func(raw string) (interface{}, error)

// Int coerces a decimal integer. RouterOS prints large counters without
// separators, so plain ParseInt suffices.
func Int(raw string) (interface{}, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", raw)
	}
	return n, nil
}

// Uint coerces a decimal unsigned integer (byte and packet counters).
func Uint(raw string) (interface{}, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not an unsigned integer: %q", raw)
	}
	return n, nil
}

// Bool coerces the device truthy tokens. RouterOS reports booleans as
// true/false, with yes/no appearing in exported configuration values.
func Bool(raw string) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes":
		return true, nil
	case "false", "no":
		return false, nil
	}
	return nil, fmt.Errorf("not a boolean token: %q", raw)
}

// Float coerces a decimal number.
func Float(raw string) (interface{}, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", raw)
	}
	return f, nil
}

// FloatUnit returns a coercer that strips one of the given unit suffixes
// before parsing ("25ms" -> 25, "4800RPM" -> 4800, "38C" -> 38).
func FloatUnit(units ...string) Coercer {
	return func(raw string) (interface{}, error) {
		v := strings.TrimSpace(raw)
		for _, u := range units {
			v = strings.TrimSuffix(v, u)
		}
		return Float(v)
	}
}

// Duration coerces a RouterOS duration ("1w2d3h4m5s").
func Duration(raw string) (interface{}, error) {
	d, err := util.ParseROSDuration(raw)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Seconds coerces a RouterOS duration to whole seconds, for schemas that
// report uptimes and timers numerically.
func Seconds(raw string) (interface{}, error) {
	n, err := util.ROSDurationSeconds(raw)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// MAC coerces and canonicalizes a MAC address to uppercase colon form.
func MAC(raw string) (interface{}, error) {
	hw, err := net.ParseMAC(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("not a MAC address: %q", raw)
	}
	return strings.ToUpper(hw.String()), nil
}

// IP coerces and canonicalizes an IPv4/IPv6 address.
func IP(raw string) (interface{}, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("not an IP address: %q", raw)
	}
	return addr.String(), nil
}

// Prefix coerces an address/mask prefix ("192.0.2.1/24"). The address part
// is kept as reported; only the syntax is validated.
func Prefix(raw string) (interface{}, error) {
	v := strings.TrimSpace(raw)
	if _, err := netip.ParsePrefix(v); err != nil {
		return nil, fmt.Errorf("not a prefix: %q", raw)
	}
	return v, nil
}

// CSV coerces a comma-separated value into a trimmed string list.
func CSV(raw string) (interface{}, error) {
	return util.SplitCommaSeparated(raw), nil
}
