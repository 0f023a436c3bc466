package ros

import (
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/newtron-network/rosdriver/internal/testutil"
	"github.com/newtron-network/rosdriver/pkg/util"
)

func newTestDriver(t *testing.T, dev *testutil.Device) *Driver {
	t.Helper()
	host, portStr, err := net.SplitHostPort(dev.Addr())
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(portStr)

	d, err := New(Config{
		Hostname:    host,
		Username:    "admin",
		Password:    "secret",
		Port:        port,
		ReadTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Username: "admin"}); err == nil {
		t.Error("missing hostname accepted")
	}
	if _, err := New(Config{Hostname: "r1"}); err == nil {
		t.Error("missing username accepted")
	}
	if _, err := New(Config{Hostname: "r1", Username: "admin", Port: 70000}); err == nil {
		t.Error("out-of-range port accepted")
	}
}

func TestGetInterfaces(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/interface/print": {
			testutil.Re("name", "ether1", "running", "true", "disabled", "false",
				"comment", "uplink", "actual-mtu", "1500", "mac-address", "aa:bb:cc:dd:ee:01"),
			testutil.Re("name", "ether2", "running", "false", "disabled", "true"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	ifaces, err := d.GetInterfaces(context.Background())
	if err != nil {
		t.Fatalf("GetInterfaces: %v", err)
	}
	if len(ifaces) != 2 {
		t.Fatalf("interfaces = %d, want 2", len(ifaces))
	}

	first := ifaces[0]
	if first.Name != "ether1" || !first.IsUp || !first.IsEnabled {
		t.Errorf("ether1 = %+v", first)
	}
	if first.Description != "uplink" || first.MTU != 1500 {
		t.Errorf("ether1 = %+v", first)
	}
	if first.MACAddress != "AA:BB:CC:DD:EE:01" {
		t.Errorf("mac = %q, want canonical uppercase", first.MACAddress)
	}
	if first.LastFlapped != -1 || first.Speed != -1 {
		t.Errorf("unknown fields = %+v, want -1", first)
	}

	second := ifaces[1]
	if second.Name != "ether2" || second.IsUp || second.IsEnabled {
		t.Errorf("ether2 = %+v", second)
	}
	if second.MTU != 0 || second.MACAddress != "" {
		t.Errorf("ether2 defaults = %+v", second)
	}
}

func TestGetInterfaces_RejectsNamelessRow(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/interface/print": {
			testutil.Re("running", "true"), // no name: rejected
			testutil.Re("name", "ether2", "running", "true"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	ifaces, err := d.GetInterfaces(context.Background())
	if err != nil {
		t.Fatalf("GetInterfaces: %v", err)
	}
	if len(ifaces) != 1 || ifaces[0].Name != "ether2" {
		t.Errorf("interfaces = %+v, want only ether2", ifaces)
	}
}

func TestGetInterfaces_TrapKeepsDriverUsable(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/ip/arp/print": {
			testutil.Re("interface", "ether1", "mac-address", "AA:BB:CC:DD:EE:01", "address", "192.0.2.1"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	// /interface/print is not scripted and traps.
	_, err := d.GetInterfaces(context.Background())
	var cmdErr *util.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("err = %v, want *CommandError", err)
	}

	// The session survives and the next operation succeeds.
	arp, err := d.GetARPTable(context.Background())
	if err != nil {
		t.Fatalf("GetARPTable after trap: %v", err)
	}
	if len(arp) != 1 {
		t.Errorf("arp entries = %d, want 1", len(arp))
	}
}

func TestGetFacts(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/system/resource/print": {
			testutil.Re("uptime", "1w2d3h4m5s", "platform", "MikroTik",
				"board-name", "CCR1036-12G-4S", "version", "6.48.6 (long-term)"),
			testutil.Done(),
		},
		"/system/identity/print": {
			testutil.Re("name", "core-rtr-01"),
			testutil.Done(),
		},
		"/system/routerboard/print": {
			testutil.Re("routerboard", "true", "serial-number", "9AD00ACC1234"),
			testutil.Done(),
		},
		"/interface/print": {
			testutil.Re("name", "ether10"),
			testutil.Re("name", "ether2"),
			testutil.Re("name", "ether1"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	facts, err := d.GetFacts(context.Background())
	if err != nil {
		t.Fatalf("GetFacts: %v", err)
	}
	if facts.Hostname != "core-rtr-01" || facts.Vendor != "MikroTik" {
		t.Errorf("facts = %+v", facts)
	}
	if facts.Model != "CCR1036-12G-4S" || facts.SerialNumber != "9AD00ACC1234" {
		t.Errorf("facts = %+v", facts)
	}
	if facts.OSVersion != "6.48.6 (long-term)" {
		t.Errorf("os_version = %q", facts.OSVersion)
	}
	if facts.Uptime != 788645 {
		t.Errorf("uptime = %d, want 788645", facts.Uptime)
	}
	if facts.FQDN != "" {
		t.Errorf("fqdn = %q, want empty", facts.FQDN)
	}

	want := []string{"ether1", "ether2", "ether10"}
	if len(facts.InterfaceList) != len(want) {
		t.Fatalf("interface_list = %v", facts.InterfaceList)
	}
	for i := range want {
		if facts.InterfaceList[i] != want[i] {
			t.Errorf("interface_list = %v, want natural order %v", facts.InterfaceList, want)
			break
		}
	}
}

func TestGetFacts_NoRouterboard(t *testing.T) {
	// CHR has no /system/routerboard; the trap must not fail the call.
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/system/resource/print": {
			testutil.Re("uptime", "1h", "platform", "MikroTik", "board-name", "CHR", "version", "7.10"),
			testutil.Done(),
		},
		"/system/identity/print": {testutil.Re("name", "chr-01"), testutil.Done()},
		"/interface/print":       {testutil.Re("name", "ether1"), testutil.Done()},
	})
	d := newTestDriver(t, dev)

	facts, err := d.GetFacts(context.Background())
	if err != nil {
		t.Fatalf("GetFacts: %v", err)
	}
	if facts.SerialNumber != "" {
		t.Errorf("serial = %q, want empty", facts.SerialNumber)
	}
	if facts.Hostname != "chr-01" {
		t.Errorf("hostname = %q", facts.Hostname)
	}
}

func TestGetInterfacesIP(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/ip/address/print": {
			testutil.Re("interface", "ether1", "address", "192.0.2.1/24"),
			testutil.Re("interface", "ether1", "address", "198.51.100.1/30"),
			testutil.Done(),
		},
		"/ipv6/address/print": {
			testutil.Re("interface", "ether1", "address", "2001:db8::1/64"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	addrs, err := d.GetInterfacesIP(context.Background())
	if err != nil {
		t.Fatalf("GetInterfacesIP: %v", err)
	}
	e1 := addrs["ether1"]
	if e1.IPv4["192.0.2.1"] != 24 || e1.IPv4["198.51.100.1"] != 30 {
		t.Errorf("ipv4 = %v", e1.IPv4)
	}
	if e1.IPv6["2001:db8::1"] != 64 {
		t.Errorf("ipv6 = %v", e1.IPv6)
	}
}

func TestGetInterfacesIP_NoIPv6Package(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/ip/address/print": {
			testutil.Re("interface", "ether1", "address", "192.0.2.1/24"),
			testutil.Done(),
		},
		// /ipv6/address/print not scripted: traps like a device without
		// the ipv6 package.
	})
	d := newTestDriver(t, dev)

	addrs, err := d.GetInterfacesIP(context.Background())
	if err != nil {
		t.Fatalf("GetInterfacesIP: %v", err)
	}
	if addrs["ether1"].IPv4["192.0.2.1"] != 24 {
		t.Errorf("ipv4 = %v", addrs["ether1"].IPv4)
	}
	if len(addrs["ether1"].IPv6) != 0 {
		t.Errorf("ipv6 = %v, want empty", addrs["ether1"].IPv6)
	}
}

func TestGetBGPNeighbors(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/routing/bgp/instance/print": {
			testutil.Re("name", "default", "router-id", "10.0.0.1", "as", "65000"),
			testutil.Done(),
		},
		"/routing/bgp/peer/print": {
			testutil.Re("name", "peer-upstream", "instance", "default",
				"remote-address", "192.0.2.254", "remote-as", "65001",
				"remote-id", "10.0.1.1", "established", "true", "disabled", "false",
				"uptime", "2d1h", "address-families", "ip,ipv6", "prefix-count", "120"),
			testutil.Done(),
		},
		"/routing/bgp/advertisements/print": {
			testutil.Re("peer", "peer-upstream", "prefix", "10.1.0.0/16"),
			testutil.Re("peer", "peer-upstream", "prefix", "10.2.0.0/16"),
			testutil.Re("peer", "peer-upstream", "prefix", "2001:db8::/32"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	neighbors, err := d.GetBGPNeighbors(context.Background())
	if err != nil {
		t.Fatalf("GetBGPNeighbors: %v", err)
	}

	// The default instance is renamed global.
	global, ok := neighbors["global"]
	if !ok {
		t.Fatalf("instances = %v, want global", neighbors)
	}
	if global.RouterID != "10.0.0.1" {
		t.Errorf("router_id = %q", global.RouterID)
	}

	peer, ok := global.Peers["192.0.2.254"]
	if !ok {
		t.Fatalf("peers = %v, want 192.0.2.254", global.Peers)
	}
	if peer.LocalAS != 65000 || peer.RemoteAS != 65001 {
		t.Errorf("peer = %+v", peer)
	}
	if !peer.IsUp || !peer.IsEnabled || peer.Description != "peer-upstream" {
		t.Errorf("peer = %+v", peer)
	}
	if peer.Uptime != 2*86400+3600 {
		t.Errorf("uptime = %d", peer.Uptime)
	}
	if peer.AddressFamilies["ipv4"].SentPrefixes != 2 {
		t.Errorf("ipv4 sent = %d, want 2", peer.AddressFamilies["ipv4"].SentPrefixes)
	}
	if peer.AddressFamilies["ipv6"].SentPrefixes != 1 {
		t.Errorf("ipv6 sent = %d, want 1", peer.AddressFamilies["ipv6"].SentPrefixes)
	}
	if peer.AddressFamilies["ipv4"].AcceptedPrefixes != 120 {
		t.Errorf("accepted = %d", peer.AddressFamilies["ipv4"].AcceptedPrefixes)
	}
}

func TestGetBGPNeighborsDetail(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/routing/bgp/instance/print": {
			testutil.Re("name", "default", "router-id", "10.0.0.1", "as", "65000",
				"routing-table", "main"),
			testutil.Done(),
		},
		"/routing/bgp/peer/print": {
			testutil.Re("name", "peer-upstream", "instance", "default",
				"remote-address", "192.0.2.254", "remote-as", "65001",
				"established", "true", "disabled", "false",
				"local-address", "192.0.2.1", "multihop", "true",
				"remove-private-as", "true", "in-filter", "bgp-in", "out-filter", "bgp-out",
				"updates-received", "40", "withdrawn-received", "2",
				"updates-sent", "10", "withdrawn-sent", "1",
				"state", "established", "as4-capability", "true",
				"used-hold-time", "1m30s", "hold-time", "3m",
				"used-keepalive-time", "30s", "keepalive-time", "1m",
				"prefix-count", "120"),
			testutil.Re("name", "peer-other", "instance", "default",
				"remote-address", "198.51.100.9", "remote-as", "65002"),
			testutil.Done(),
		},
		"/routing/bgp/advertisements/print": {
			testutil.Re("peer", "peer-upstream", "prefix", "10.1.0.0/16"),
			testutil.Re("peer", "peer-upstream", "prefix", "2001:db8::/32"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	details, err := d.GetBGPNeighborsDetail(context.Background(), "192.0.2.254")
	if err != nil {
		t.Fatalf("GetBGPNeighborsDetail: %v", err)
	}

	global, ok := details["global"]
	if !ok {
		t.Fatalf("instances = %v, want global", details)
	}
	// The address filter keeps only the matching peer.
	peers := global[65001]
	if len(peers) != 1 {
		t.Fatalf("peers for AS 65001 = %+v, want 1", peers)
	}
	if _, ok := global[65002]; ok {
		t.Errorf("filtered-out peer present: %v", global)
	}

	det := peers[0]
	if !det.Up || det.LocalAS != 65000 || det.RemoteAS != 65001 {
		t.Errorf("detail = %+v", det)
	}
	if det.RouterID != "10.0.0.1" || det.RoutingTable != "main" {
		t.Errorf("detail = %+v", det)
	}
	if det.LocalAddress != "192.0.2.1" || !det.LocalAddressConfigured {
		t.Errorf("local address = %+v", det)
	}
	if det.LocalPort != 179 || det.RemotePort != 179 {
		t.Errorf("ports = %+v", det)
	}
	if !det.Multihop || !det.RemovePrivateAS {
		t.Errorf("flags = %+v", det)
	}
	if det.ImportPolicy != "bgp-in" || det.ExportPolicy != "bgp-out" {
		t.Errorf("policies = %+v", det)
	}
	if det.InputMessages != 42 || det.OutputMessages != 11 {
		t.Errorf("messages = %+v", det)
	}
	if det.InputUpdates != 40 || det.OutputUpdates != 10 {
		t.Errorf("updates = %+v", det)
	}
	if det.ConnectionState != "established" || det.Suppress4ByteAS {
		t.Errorf("state = %+v", det)
	}
	// Negotiated timers win over configured ones.
	if det.Holdtime != 90 || det.ConfiguredHoldtime != 180 {
		t.Errorf("holdtime = %+v", det)
	}
	if det.Keepalive != 30 || det.ConfiguredKeepalive != 60 {
		t.Errorf("keepalive = %+v", det)
	}
	if det.ActivePrefixCount != 120 || det.AcceptedPrefixCount != 120 {
		t.Errorf("prefix counts = %+v", det)
	}
	if det.AdvertisedPrefixCount != 2 {
		t.Errorf("advertised = %d, want 2 across families", det.AdvertisedPrefixCount)
	}
	if det.FlapCount != 0 || det.MessagesQueuedOut != 0 || det.SuppressedPrefixCount != 0 {
		t.Errorf("constant fields = %+v", det)
	}
}

func TestGetBGPNeighborsDetail_TimerDefaults(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/routing/bgp/instance/print": {
			testutil.Re("name", "default", "router-id", "10.0.0.1", "as", "65000"),
			testutil.Done(),
		},
		"/routing/bgp/peer/print": {
			testutil.Re("name", "peer-bare", "instance", "default",
				"remote-address", "192.0.2.200", "remote-as", "65010"),
			testutil.Done(),
		},
		"/routing/bgp/advertisements/print": {testutil.Done()},
	})
	d := newTestDriver(t, dev)

	details, err := d.GetBGPNeighborsDetail(context.Background(), "")
	if err != nil {
		t.Fatalf("GetBGPNeighborsDetail: %v", err)
	}
	det := details["global"][65010][0]
	if det.Holdtime != 30 || det.ConfiguredHoldtime != 30 {
		t.Errorf("holdtime defaults = %+v", det)
	}
	if det.Keepalive != 10 || det.ConfiguredKeepalive != 10 {
		t.Errorf("keepalive defaults = %+v", det)
	}
	if det.LocalAddressConfigured {
		t.Errorf("local address marked configured: %+v", det)
	}
}

func TestGetARPTable_DropsUnresolved(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/ip/arp/print": {
			testutil.Re("interface", "ether1", "address", "192.0.2.9"), // unresolved, no MAC
			testutil.Re("interface", "ether1", "mac-address", "aa:bb:cc:dd:ee:02", "address", "192.0.2.2"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	arp, err := d.GetARPTable(context.Background())
	if err != nil {
		t.Fatalf("GetARPTable: %v", err)
	}
	if len(arp) != 1 {
		t.Fatalf("entries = %+v, want 1", arp)
	}
	if arp[0].MAC != "AA:BB:CC:DD:EE:02" || arp[0].IP != "192.0.2.2" || arp[0].Age != -1 {
		t.Errorf("entry = %+v", arp[0])
	}
}

func TestGetMACAddressTable_NoSwitchChip(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/interface/bridge/host/print": {
			testutil.Re("mac-address", "aa:bb:cc:dd:ee:03", "interface", "ether3",
				"vid", "10", "dynamic", "true", "invalid", "false"),
			testutil.Done(),
		},
		// unicast-fdb not scripted: traps like a model without a switch chip.
	})
	d := newTestDriver(t, dev)

	table, err := d.GetMACAddressTable(context.Background())
	if err != nil {
		t.Fatalf("GetMACAddressTable: %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("entries = %+v, want 1", table)
	}
	e := table[0]
	if e.MAC != "AA:BB:CC:DD:EE:03" || e.Interface != "ether3" || e.VLAN != 10 {
		t.Errorf("entry = %+v", e)
	}
	if e.Static || !e.Active {
		t.Errorf("entry flags = %+v", e)
	}
}

func TestGetMACAddressTable_MergesSwitchFDB(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/interface/bridge/host/print": {
			testutil.Re("mac-address", "aa:bb:cc:dd:ee:03", "interface", "bridge1", "dynamic", "true", "invalid", "false"),
			testutil.Done(),
		},
		"/interface/ethernet/switch/unicast-fdb/print": {
			testutil.Re("mac-address", "aa:bb:cc:dd:ee:04", "port", "ether4",
				"vlan-id", "20", "dynamic", "false", "active", "true"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	table, err := d.GetMACAddressTable(context.Background())
	if err != nil {
		t.Fatalf("GetMACAddressTable: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("entries = %+v, want 2", table)
	}
	fdb := table[1]
	if fdb.Interface != "ether4" || fdb.VLAN != 20 || !fdb.Static || !fdb.Active {
		t.Errorf("fdb entry = %+v", fdb)
	}
}

func TestGetLLDPNeighbors_ReversedInterfacePath(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/ip/neighbor/print": {
			testutil.Re("interface", "ether5,bridge1", "identity", "sw-access-01",
				"interface-name", "ge-0/0/1", "mac-address", "AA:BB:CC:00:00:05"),
			testutil.Re("interface", "ether6", "identity", "rtr-edge-01",
				"interface-name", "ether1"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	neighbors, err := d.GetLLDPNeighbors(context.Background())
	if err != nil {
		t.Fatalf("GetLLDPNeighbors: %v", err)
	}

	// child,parent reads bottom-up; the local port is parent/child.
	bridged, ok := neighbors["bridge1/ether5"]
	if !ok {
		t.Fatalf("keys = %v, want bridge1/ether5", neighbors)
	}
	if bridged[0].Hostname != "sw-access-01" || bridged[0].Port != "ge-0/0/1" {
		t.Errorf("neighbor = %+v", bridged[0])
	}

	plain, ok := neighbors["ether6"]
	if !ok || plain[0].Hostname != "rtr-edge-01" {
		t.Errorf("neighbors = %v", neighbors)
	}
}

func TestGetLLDPNeighborsDetail(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/ip/neighbor/print": {
			testutil.Re("interface", "ether5", "identity", "sw-access-01",
				"interface-name", "ge-0/0/1", "mac-address", "AA:BB:CC:00:00:05",
				"system-description", "JUNOS 20.4R3",
				"system-caps", "bridge,router", "system-caps-enabled", "bridge"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	details, err := d.GetLLDPNeighborsDetail(context.Background())
	if err != nil {
		t.Fatalf("GetLLDPNeighborsDetail: %v", err)
	}
	det := details["ether5"][0]
	if det.ParentInterface != "ether5" || det.RemoteSystemName != "sw-access-01" {
		t.Errorf("detail = %+v", det)
	}
	if det.RemoteChassisID != "AA:BB:CC:00:00:05" || det.RemoteSystemDescription != "JUNOS 20.4R3" {
		t.Errorf("detail = %+v", det)
	}
	if len(det.RemoteSystemCapab) != 2 || det.RemoteSystemCapab[0] != "bridge" {
		t.Errorf("caps = %v", det.RemoteSystemCapab)
	}
	if len(det.RemoteSystemEnableCapab) != 1 {
		t.Errorf("caps enabled = %v", det.RemoteSystemEnableCapab)
	}
}

func TestGetEnvironment(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/system/health/print": {
			testutil.Re("active-fan", "fan1", "fan-speed", "4800RPM",
				"temperature", "38", "cpu-temperature", "52"),
			testutil.Done(),
		},
		"/system/resource/cpu/print": {
			testutil.Re("cpu", "cpu0", "load", "7"),
			testutil.Re("cpu", "cpu1", "load", "12"),
			testutil.Done(),
		},
		"/system/resource/print": {
			testutil.Re("total-memory", "1073741824", "free-memory", "805306368"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	env, err := d.GetEnvironment(context.Background())
	if err != nil {
		t.Fatalf("GetEnvironment: %v", err)
	}
	if fan, ok := env.Fans["fan1"]; !ok || !fan.Status {
		t.Errorf("fans = %v", env.Fans)
	}
	if env.Temperature["board"].Temperature != 38 || env.Temperature["cpu"].Temperature != 52 {
		t.Errorf("temperature = %v", env.Temperature)
	}
	if env.CPU["cpu0"].Usage != 7 || env.CPU["cpu1"].Usage != 12 {
		t.Errorf("cpu = %v", env.CPU)
	}
	if env.Memory.AvailableRAM != 1073741824 || env.Memory.UsedRAM != 268435456 {
		t.Errorf("memory = %+v", env.Memory)
	}
	if len(env.Power) != 0 {
		t.Errorf("power = %v, want empty", env.Power)
	}
}

func TestGetEnvironment_StoppedFanAndNameValueRows(t *testing.T) {
	// 7.x prints one name/value row per sensor; a stopped fan reads 0RPM.
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/system/health/print": {
			testutil.Re("name", "active-fan", "value", "fan2"),
			testutil.Re("name", "fan-speed", "value", "0RPM"),
			testutil.Re("name", "temperature", "value", "41"),
			testutil.Done(),
		},
		"/system/resource/cpu/print": {testutil.Done()},
		"/system/resource/print":     {testutil.Re("total-memory", "1024", "free-memory", "512"), testutil.Done()},
	})
	d := newTestDriver(t, dev)

	env, err := d.GetEnvironment(context.Background())
	if err != nil {
		t.Fatalf("GetEnvironment: %v", err)
	}
	fan, ok := env.Fans["fan2"]
	if !ok || fan.Status {
		t.Errorf("fans = %v, want fan2 stopped", env.Fans)
	}
	if env.Temperature["board"].Temperature != 41 {
		t.Errorf("temperature = %v", env.Temperature)
	}
	if _, ok := env.Temperature["cpu"]; ok {
		t.Errorf("cpu temperature reported without a sensor: %v", env.Temperature)
	}
}

func TestGetNTPServers(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/system/ntp/client/print": {
			testutil.Re("server-dns-names", "0.pool.ntp.org,1.pool.ntp.org",
				"primary-ntp", "192.0.2.10", "secondary-ntp", "0.0.0.0"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	servers, err := d.GetNTPServers(context.Background())
	if err != nil {
		t.Fatalf("GetNTPServers: %v", err)
	}
	for _, want := range []string{"0.pool.ntp.org", "1.pool.ntp.org", "192.0.2.10"} {
		if _, ok := servers[want]; !ok {
			t.Errorf("servers = %v, missing %s", servers, want)
		}
	}
	if _, ok := servers["0.0.0.0"]; ok {
		t.Errorf("unset secondary slot leaked: %v", servers)
	}
}

func TestGetSNMPInformation(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/snmp/print": {
			testutil.Re("engine-id", "80003a8c04", "contact", "noc@example.net", "location", "rack 12"),
			testutil.Done(),
		},
		"/snmp/community/print": {
			testutil.Re("name", "public", "addresses", "192.0.2.0/24", "read-access", "true"),
			testutil.Re("name", "secret-rw", "read-access", "false"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	info, err := d.GetSNMPInformation(context.Background())
	if err != nil {
		t.Fatalf("GetSNMPInformation: %v", err)
	}
	if info.ChassisID != "80003a8c04" || info.Contact != "noc@example.net" || info.Location != "rack 12" {
		t.Errorf("info = %+v", info)
	}
	if c := info.Communities["public"]; c.Mode != "ro" || c.ACL != "192.0.2.0/24" {
		t.Errorf("public = %+v", c)
	}
	if c := info.Communities["secret-rw"]; c.Mode != "rw" {
		t.Errorf("secret-rw = %+v", c)
	}
}

func TestGetUsers(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/user/print": {
			testutil.Re("name", "admin", "group", "full"),
			testutil.Re("name", "monitor", "group", "read"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	users, err := d.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("GetUsers: %v", err)
	}
	if users["admin"].Level != 15 {
		t.Errorf("admin level = %d, want 15", users["admin"].Level)
	}
	if users["monitor"].Level != 0 {
		t.Errorf("monitor level = %d, want 0", users["monitor"].Level)
	}
}

func TestGetNetworkInstances(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/ip/route/vrf/print": {
			testutil.Re("routing-mark", "cust-a", "route-distinguisher", "65000:100",
				"interfaces", "ether7,ether8"),
			testutil.Re("routing-mark", "cust-b", "interfaces", "ether9"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	all, err := d.GetNetworkInstances(context.Background(), "")
	if err != nil {
		t.Fatalf("GetNetworkInstances: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("instances = %v", all)
	}
	custA := all["cust-a"]
	if custA.Type != "L3VRF" || custA.RouteDistinguisher != "65000:100" {
		t.Errorf("cust-a = %+v", custA)
	}
	if len(custA.Interfaces) != 2 || custA.Interfaces[0] != "ether7" {
		t.Errorf("cust-a interfaces = %v", custA.Interfaces)
	}

	one, err := d.GetNetworkInstances(context.Background(), "cust-b")
	if err != nil {
		t.Fatalf("GetNetworkInstances(cust-b): %v", err)
	}
	if len(one) != 1 {
		t.Errorf("filtered instances = %v", one)
	}
}

func TestPing(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/ping": {
			testutil.Re("host", "192.0.2.1", "time", "12ms", "sent", "1", "packet-loss", "0"),
			testutil.Re("host", "192.0.2.1", "sent", "2", "packet-loss", "50"), // timed out probe
			testutil.Re("host", "192.0.2.1", "time", "14ms", "sent", "3", "packet-loss", "33",
				"min-rtt", "12ms", "avg-rtt", "13ms", "max-rtt", "14ms"),
			testutil.Done(),
		},
	})
	d := newTestDriver(t, dev)

	res, err := d.Ping(context.Background(), "192.0.2.1", PingOptions{Count: 3})
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if res.ProbesSent != 3 || res.PacketLoss != 33 {
		t.Errorf("summary = %+v", res)
	}
	if res.RTTMin != 12 || res.RTTAvg != 13 || res.RTTMax != 14 {
		t.Errorf("rtt = %+v", res)
	}
	if res.RTTStdDev != -1 {
		t.Errorf("stddev = %v, want -1", res.RTTStdDev)
	}
	if len(res.Results) != 3 {
		t.Fatalf("probes = %+v", res.Results)
	}
	if res.Results[0].RTT != 12 {
		t.Errorf("probe 0 = %+v", res.Results[0])
	}
	if res.Results[1].RTT != -1 {
		t.Errorf("timed out probe RTT = %v, want -1", res.Results[1].RTT)
	}
}

func TestIsAlive(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/system/identity/print": {testutil.Re("name", "r1"), testutil.Done()},
	})
	d := newTestDriver(t, dev)

	if d.IsAlive(context.Background()) {
		t.Error("alive before Open")
	}
	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !d.IsAlive(context.Background()) {
		t.Error("not alive after Open")
	}
	d.Close()
	if d.IsAlive(context.Background()) {
		t.Error("alive after Close")
	}
}

func TestDriver_ReconnectsAfterClose(t *testing.T) {
	dev := testutil.NewDevice(t, testutil.LoginPlain, "secret", map[string][]testutil.Sentence{
		"/interface/print": {testutil.Re("name", "ether1", "running", "true"), testutil.Done()},
	})
	d := newTestDriver(t, dev)

	if _, err := d.GetInterfaces(context.Background()); err != nil {
		t.Fatalf("GetInterfaces: %v", err)
	}
	d.Close()
	// A closed driver dials again on the next operation.
	if _, err := d.GetInterfaces(context.Background()); err != nil {
		t.Fatalf("GetInterfaces after Close: %v", err)
	}
	if dev.Logins() != 2 {
		t.Errorf("logins = %d, want 2", dev.Logins())
	}
}
