package ros

import (
	"context"
	"errors"
	"strings"

	"github.com/newtron-network/rosdriver/pkg/util"
)

// GetARPTable returns the resolved IPv4 neighbors in device order. Unresolved
// entries carry no MAC address and are dropped. RouterOS keeps no per-entry
// age, so Age is always -1.
func (d *Driver) GetARPTable(ctx context.Context) ([]ARPEntry, error) {
	const op = "get_arp_table"

	reply, err := d.run(ctx, op, "/ip/arp/print", nil)
	if err != nil {
		return nil, err
	}

	recs := d.normalize(op, arpSchema, reply)
	out := make([]ARPEntry, 0, len(recs))
	for _, r := range recs {
		out = append(out, ARPEntry{
			Interface: r.String("interface"),
			MAC:       r.String("mac"),
			IP:        r.String("ip"),
			Age:       -1,
		})
	}
	return out, nil
}

// GetIPv6Neighbors returns the IPv6 neighbor cache. Devices without the IPv6
// package answer with a trap, which yields an empty table.
func (d *Driver) GetIPv6Neighbors(ctx context.Context) ([]IPv6Neighbor, error) {
	const op = "get_ipv6_neighbors"

	reply, err := d.run(ctx, op, "/ipv6/neighbor/print", nil)
	if err != nil {
		var cmdErr *util.CommandError
		if errors.As(err, &cmdErr) {
			return nil, nil
		}
		return nil, err
	}

	recs := d.normalize(op, ipv6NeighborSchema, reply)
	out := make([]IPv6Neighbor, 0, len(recs))
	for _, r := range recs {
		out = append(out, IPv6Neighbor{
			Interface: r.String("interface"),
			MAC:       r.String("mac"),
			IP:        r.String("ip"),
			Age:       -1,
			State:     r.String("state"),
		})
	}
	return out, nil
}

// GetMACAddressTable merges the bridge host table with the switch-chip
// unicast FDB. Models without a manageable switch chip trap on the FDB path;
// the bridge table alone is returned in that case.
func (d *Driver) GetMACAddressTable(ctx context.Context) ([]MACTableEntry, error) {
	const op = "get_mac_address_table"

	var out []MACTableEntry

	bridge, err := d.run(ctx, op, "/interface/bridge/host/print", nil)
	if err != nil {
		return nil, err
	}
	for _, r := range d.normalize(op, bridgeHostSchema, bridge) {
		out = append(out, MACTableEntry{
			MAC:       r.String("mac"),
			Interface: r.String("interface"),
			VLAN:      r.Int("vlan"),
			Static:    !r.Bool("dynamic"),
			Active:    !r.Bool("invalid"),
			LastMove:  0,
		})
	}

	fdb, err := d.run(ctx, op, "/interface/ethernet/switch/unicast-fdb/print", nil)
	if err != nil {
		var cmdErr *util.CommandError
		if errors.As(err, &cmdErr) {
			return out, nil
		}
		return nil, err
	}
	for _, r := range d.normalize(op, switchFDBSchema, fdb) {
		out = append(out, MACTableEntry{
			MAC:       r.String("mac"),
			Interface: r.String("interface"),
			VLAN:      r.Int("vlan"),
			Static:    !r.Bool("dynamic"),
			Active:    r.Bool("active"),
		})
	}

	return out, nil
}

// GetLLDPNeighbors returns the discovery table keyed by local interface.
func (d *Driver) GetLLDPNeighbors(ctx context.Context) (map[string][]LLDPNeighbor, error) {
	const op = "get_lldp_neighbors"

	reply, err := d.run(ctx, op, "/ip/neighbor/print", nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]LLDPNeighbor)
	for _, r := range d.normalize(op, lldpNeighborSchema, reply) {
		local := localInterface(r.String("interface"))
		out[local] = append(out[local], LLDPNeighbor{
			Hostname: r.String("hostname"),
			Port:     r.String("port"),
		})
	}
	return out, nil
}

// GetLLDPNeighborsDetail returns the discovery table with full neighbor
// attributes, keyed by local interface.
func (d *Driver) GetLLDPNeighborsDetail(ctx context.Context) (map[string][]LLDPNeighborDetail, error) {
	const op = "get_lldp_neighbors_detail"

	reply, err := d.run(ctx, op, "/ip/neighbor/print", nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]LLDPNeighborDetail)
	for _, r := range d.normalize(op, lldpNeighborSchema, reply) {
		local := localInterface(r.String("interface"))
		out[local] = append(out[local], LLDPNeighborDetail{
			ParentInterface:         local,
			RemoteChassisID:         r.String("chassis_id"),
			RemoteSystemName:        r.String("hostname"),
			RemotePort:              r.String("port"),
			RemoteSystemDescription: r.String("system_description"),
			RemoteSystemCapab:       r.Strings("system_caps"),
			RemoteSystemEnableCapab: r.Strings("system_caps_on"),
		})
	}
	return out, nil
}

// localInterface canonicalizes the neighbor table's interface field. When the
// neighbor is seen through a bridge or bond, RouterOS reports "child,parent";
// the hierarchy reads parent/child.
func localInterface(raw string) string {
	parts := util.SplitCommaSeparated(raw)
	if len(parts) < 2 {
		return raw
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
