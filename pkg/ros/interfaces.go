package ros

import (
	"context"
	"errors"
	"net/netip"

	"github.com/newtron-network/rosdriver/pkg/rosapi"
	"github.com/newtron-network/rosdriver/pkg/util"
)

// GetInterfaces lists every interface in device order. RouterOS does not
// report flap times or link speed through /interface/print, so LastFlapped
// and Speed are always -1.
func (d *Driver) GetInterfaces(ctx context.Context) ([]Interface, error) {
	const op = "get_interfaces"

	reply, err := d.run(ctx, op, "/interface/print", nil)
	if err != nil {
		return nil, err
	}

	recs := d.normalize(op, interfaceSchema, reply)
	out := make([]Interface, 0, len(recs))
	for _, r := range recs {
		out = append(out, Interface{
			Name:        r.String("name"),
			IsUp:        r.Bool("is_up"),
			IsEnabled:   !r.Bool("disabled"),
			Description: r.String("description"),
			LastFlapped: -1,
			MTU:         r.Int("mtu"),
			Speed:       -1,
			MACAddress:  r.String("mac_address"),
		})
	}
	return out, nil
}

// GetInterfacesCounters returns per-interface traffic counters keyed by
// interface name. Multicast counters are not reported and stay zero.
func (d *Driver) GetInterfacesCounters(ctx context.Context) (map[string]InterfaceCounters, error) {
	const op = "get_interfaces_counters"

	reply, err := d.run(ctx, op, "/interface/print", rosapi.Attrs{"stats": ""})
	if err != nil {
		return nil, err
	}

	out := make(map[string]InterfaceCounters)
	for _, r := range d.normalize(op, interfaceCountersSchema, reply) {
		out[r.String("name")] = InterfaceCounters{
			TxErrors:         r.Int("tx_errors"),
			RxErrors:         r.Int("rx_errors"),
			TxDiscards:       r.Int("tx_drops"),
			RxDiscards:       r.Int("rx_drops"),
			TxOctets:         r.Uint("tx_bytes"),
			RxOctets:         r.Uint("rx_bytes"),
			TxUnicastPackets: r.Uint("tx_packets"),
			RxUnicastPackets: r.Uint("rx_packets"),
		}
	}
	return out, nil
}

// GetInterfacesIP returns the addresses configured on each interface, grouped
// by family. Devices without the IPv6 package answer /ipv6/address/print with
// a trap; that leaves the IPv6 maps empty rather than failing the call.
func (d *Driver) GetInterfacesIP(ctx context.Context) (map[string]InterfaceAddresses, error) {
	const op = "get_interfaces_ip"

	out := make(map[string]InterfaceAddresses)

	v4, err := d.run(ctx, op, "/ip/address/print", nil)
	if err != nil {
		return nil, err
	}
	for _, r := range d.normalize(op, addressSchema, v4) {
		addr, bits, ok := splitPrefix(r.String("address"))
		if !ok {
			continue
		}
		entry := out[r.String("interface")]
		if entry.IPv4 == nil {
			entry.IPv4 = make(map[string]int)
		}
		entry.IPv4[addr] = bits
		out[r.String("interface")] = entry
	}

	v6, err := d.run(ctx, op, "/ipv6/address/print", nil)
	if err != nil {
		var cmdErr *util.CommandError
		if !errors.As(err, &cmdErr) {
			return nil, err
		}
		return out, nil
	}
	for _, r := range d.normalize(op, addressSchema, v6) {
		addr, bits, ok := splitPrefix(r.String("address"))
		if !ok {
			continue
		}
		entry := out[r.String("interface")]
		if entry.IPv6 == nil {
			entry.IPv6 = make(map[string]int)
		}
		entry.IPv6[addr] = bits
		out[r.String("interface")] = entry
	}

	return out, nil
}

func splitPrefix(s string) (string, int, bool) {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return "", 0, false
	}
	return p.Addr().String(), p.Bits(), true
}
