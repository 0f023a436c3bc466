package ros

import (
	"context"
	"errors"
	"strings"

	"github.com/newtron-network/rosdriver/pkg/schema"
	"github.com/newtron-network/rosdriver/pkg/util"
)

// GetBGPNeighbors returns the configured BGP peers grouped by routing
// instance. The device's "default" instance is reported as "global", matching
// the cross-vendor convention. Peers are keyed by remote address.
func (d *Driver) GetBGPNeighbors(ctx context.Context) (map[string]BGPInstance, error) {
	const op = "get_bgp_neighbors"

	instReply, err := d.run(ctx, op, "/routing/bgp/instance/print", nil)
	if err != nil {
		return nil, err
	}
	instances := make(map[string]schema.Record)
	for _, r := range d.normalize(op, bgpInstanceSchema, instReply) {
		instances[r.String("name")] = r
	}

	peerReply, err := d.run(ctx, op, "/routing/bgp/peer/print", nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]BGPInstance)
	for _, peer := range d.normalize(op, bgpPeerSchema, peerReply) {
		inst, ok := instances[peer.String("instance")]
		if !ok {
			d.log.WithField("operation", op).Warnf("peer %s references unknown instance %q",
				peer.String("name"), peer.String("instance"))
			continue
		}

		instName := inst.String("name")
		if instName == "default" {
			instName = "global"
		}
		group := out[instName]
		group.RouterID = inst.String("router_id")
		if group.Peers == nil {
			group.Peers = make(map[string]BGPNeighbor)
		}

		sent := d.sentPrefixes(ctx, peer.String("name"))
		families := make(map[string]BGPPrefixStats)
		for _, fam := range peer.Strings("address_families") {
			fam = canonicalFamily(fam)
			if fam == "" {
				continue
			}
			// RouterOS keeps a single prefix-count across families.
			families[fam] = BGPPrefixStats{
				SentPrefixes:     sent[fam],
				AcceptedPrefixes: peer.Int("prefix_count"),
				ReceivedPrefixes: peer.Int("prefix_count"),
			}
		}

		group.Peers[peer.String("remote_address")] = BGPNeighbor{
			LocalAS:         inst.Int("local_as"),
			RemoteAS:        peer.Int("remote_as"),
			RemoteID:        peer.String("remote_id"),
			IsUp:            peer.Bool("is_up"),
			IsEnabled:       !peer.Bool("disabled"),
			Description:     peer.String("name"),
			Uptime:          peer.Int("uptime"),
			AddressFamilies: families,
		}
		out[instName] = group
	}

	return out, nil
}

// sentPrefixes counts the advertisements towards one peer per address family.
// Peers that are down answer with a trap; that counts as zero, not a failure.
func (d *Driver) sentPrefixes(ctx context.Context, peer string) map[string]int64 {
	const op = "get_bgp_neighbors"

	counts := make(map[string]int64)
	reply, err := d.runQuery(ctx, op, "/routing/bgp/advertisements/print", nil,
		[]string{"?peer=" + peer})
	if err != nil {
		var cmdErr *util.CommandError
		if !errors.As(err, &cmdErr) {
			d.log.WithField("operation", op).Warnf("advertisements for %s: %v", peer, err)
		}
		return counts
	}
	for _, r := range d.normalize(op, bgpAdvertisementSchema, reply) {
		if strings.Contains(r.String("prefix"), ":") {
			counts["ipv6"]++
		} else {
			counts["ipv4"]++
		}
	}
	return counts
}

// GetBGPNeighborsDetail returns the full per-peer view, grouped by routing
// instance and remote AS. A non-empty neighborAddress restricts the result to
// that peer. The default instance is reported as "global", as in
// GetBGPNeighbors.
func (d *Driver) GetBGPNeighborsDetail(ctx context.Context, neighborAddress string) (map[string]map[int64][]BGPNeighborDetail, error) {
	const op = "get_bgp_neighbors_detail"

	instReply, err := d.run(ctx, op, "/routing/bgp/instance/print", nil)
	if err != nil {
		return nil, err
	}
	instances := make(map[string]schema.Record)
	for _, r := range d.normalize(op, bgpInstanceSchema, instReply) {
		instances[r.String("name")] = r
	}

	peerReply, err := d.run(ctx, op, "/routing/bgp/peer/print", nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[int64][]BGPNeighborDetail)
	for _, peer := range d.normalize(op, bgpPeerSchema, peerReply) {
		if neighborAddress != "" && peer.String("remote_address") != neighborAddress {
			continue
		}
		inst, ok := instances[peer.String("instance")]
		if !ok {
			d.log.WithField("operation", op).Warnf("peer %s references unknown instance %q",
				peer.String("name"), peer.String("instance"))
			continue
		}

		instName := inst.String("name")
		if instName == "default" {
			instName = "global"
		}

		var advertised int64
		for _, n := range d.sentPrefixes(ctx, peer.String("name")) {
			advertised += n
		}

		detail := BGPNeighborDetail{
			Up:                     peer.Bool("is_up"),
			LocalAS:                inst.Int("local_as"),
			RemoteAS:               peer.Int("remote_as"),
			RouterID:               inst.String("router_id"),
			LocalAddress:           peer.String("local_address"),
			LocalAddressConfigured: peer.String("local_address") != "",
			LocalPort:              179,
			RoutingTable:           inst.String("routing_table"),
			RemoteAddress:          peer.String("remote_address"),
			RemotePort:             179,
			Multihop:               peer.Bool("multihop"),
			RemovePrivateAS:        peer.Bool("remove_private_as"),
			ImportPolicy:           peer.String("in_filter"),
			ExportPolicy:           peer.String("out_filter"),
			InputMessages:          peer.Int("updates_received") + peer.Int("withdrawn_received"),
			OutputMessages:         peer.Int("updates_sent") + peer.Int("withdrawn_sent"),
			InputUpdates:           peer.Int("updates_received"),
			OutputUpdates:          peer.Int("updates_sent"),
			ConnectionState:        peer.String("state"),
			Suppress4ByteAS:        !peer.Bool("as4_capability"),
			Holdtime:               peer.Int("holdtime"),
			ConfiguredHoldtime:     peer.Int("configured_holdtime"),
			Keepalive:              peer.Int("keepalive"),
			ConfiguredKeepalive:    peer.Int("configured_keepalive"),
			ActivePrefixCount:      peer.Int("prefix_count"),
			ReceivedPrefixCount:    peer.Int("prefix_count"),
			AcceptedPrefixCount:    peer.Int("prefix_count"),
			AdvertisedPrefixCount:  advertised,
		}

		group := out[instName]
		if group == nil {
			group = make(map[int64][]BGPNeighborDetail)
			out[instName] = group
		}
		group[detail.RemoteAS] = append(group[detail.RemoteAS], detail)
	}

	return out, nil
}

// canonicalFamily maps RouterOS address-family tokens to the neutral names.
func canonicalFamily(fam string) string {
	switch fam {
	case "ip", "ipv4":
		return "ipv4"
	case "ipv6":
		return "ipv6"
	}
	return ""
}

// GetNetworkInstances lists the configured VRFs, keyed by routing mark. A
// non-empty name restricts the result to that instance.
func (d *Driver) GetNetworkInstances(ctx context.Context, name string) (map[string]NetworkInstance, error) {
	const op = "get_network_instances"

	reply, err := d.run(ctx, op, "/ip/route/vrf/print", nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]NetworkInstance)
	for _, r := range d.normalize(op, vrfSchema, reply) {
		if name != "" && r.String("name") != name {
			continue
		}
		out[r.String("name")] = NetworkInstance{
			Name:               r.String("name"),
			Type:               "L3VRF",
			RouteDistinguisher: r.String("route_distinguisher"),
			Interfaces:         r.Strings("interfaces"),
		}
	}
	return out, nil
}
