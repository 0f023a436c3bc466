package ros

// Normalized entity types returned by the driver. Every field always carries
// a value of its declared type; fields the device does not report hold the
// documented default (zero value unless noted), never a raw device string.

// Facts describes the device identity and platform.
type Facts struct {
	Uptime        int64    `json:"uptime"` // seconds
	Vendor        string   `json:"vendor"`
	Model         string   `json:"model"`
	Hostname      string   `json:"hostname"`
	FQDN          string   `json:"fqdn"` // not reported by RouterOS, always ""
	OSVersion     string   `json:"os_version"`
	SerialNumber  string   `json:"serial_number"`
	InterfaceList []string `json:"interface_list"` // naturally sorted
}

// Interface is one logical or physical interface.
type Interface struct {
	Name        string  `json:"name"`
	IsUp        bool    `json:"is_up"`
	IsEnabled   bool    `json:"is_enabled"`
	Description string  `json:"description"`
	LastFlapped float64 `json:"last_flapped"` // seconds, -1 when unknown
	MTU         int64   `json:"mtu"`
	Speed       int64   `json:"speed"` // Mbit/s, -1 when unknown
	MACAddress  string  `json:"mac_address"`
}

// InterfaceCounters carries per-interface traffic counters.
type InterfaceCounters struct {
	TxErrors           int64  `json:"tx_errors"`
	RxErrors           int64  `json:"rx_errors"`
	TxDiscards         int64  `json:"tx_discards"`
	RxDiscards         int64  `json:"rx_discards"`
	TxOctets           uint64 `json:"tx_octets"`
	RxOctets           uint64 `json:"rx_octets"`
	TxUnicastPackets   uint64 `json:"tx_unicast_packets"`
	RxUnicastPackets   uint64 `json:"rx_unicast_packets"`
	TxMulticastPackets uint64 `json:"tx_multicast_packets"` // not reported, always 0
	RxMulticastPackets uint64 `json:"rx_multicast_packets"`
	TxBroadcastPackets uint64 `json:"tx_broadcast_packets"`
	RxBroadcastPackets uint64 `json:"rx_broadcast_packets"`
}

// InterfaceAddresses groups the addresses configured on one interface by
// family. Keys are addresses, values are prefix lengths.
type InterfaceAddresses struct {
	IPv4 map[string]int `json:"ipv4,omitempty"`
	IPv6 map[string]int `json:"ipv6,omitempty"`
}

// BGPPrefixStats carries per-address-family prefix counters for one peer.
type BGPPrefixStats struct {
	SentPrefixes     int64 `json:"sent_prefixes"`
	AcceptedPrefixes int64 `json:"accepted_prefixes"`
	ReceivedPrefixes int64 `json:"received_prefixes"`
}

// BGPNeighbor is one configured BGP peer.
type BGPNeighbor struct {
	LocalAS         int64                     `json:"local_as"`
	RemoteAS        int64                     `json:"remote_as"`
	RemoteID        string                    `json:"remote_id"`
	IsUp            bool                      `json:"is_up"`
	IsEnabled       bool                      `json:"is_enabled"`
	Description     string                    `json:"description"`
	Uptime          int64                     `json:"uptime"` // seconds
	AddressFamilies map[string]BGPPrefixStats `json:"address_families"`
}

// BGPInstance groups the peers of one routing instance. The device's
// "default" instance is reported as "global".
type BGPInstance struct {
	RouterID string                 `json:"router_id"`
	Peers    map[string]BGPNeighbor `json:"peers"` // keyed by remote address
}

// BGPNeighborDetail is the full per-peer view. RouterOS keeps no message
// queue depth, flap count, or previous-state history; those fields hold the
// documented constants.
type BGPNeighborDetail struct {
	Up                      bool   `json:"up"`
	LocalAS                 int64  `json:"local_as"`
	RemoteAS                int64  `json:"remote_as"`
	RouterID                string `json:"router_id"`
	LocalAddress            string `json:"local_address"`
	LocalAddressConfigured  bool   `json:"local_address_configured"`
	LocalPort               int    `json:"local_port"` // always 179
	RoutingTable            string `json:"routing_table"`
	RemoteAddress           string `json:"remote_address"`
	RemotePort              int    `json:"remote_port"` // always 179
	Multihop                bool   `json:"multihop"`
	Multipath               bool   `json:"multipath"` // not reported, always false
	RemovePrivateAS         bool   `json:"remove_private_as"`
	ImportPolicy            string `json:"import_policy"`
	ExportPolicy            string `json:"export_policy"`
	InputMessages           int64  `json:"input_messages"`
	OutputMessages          int64  `json:"output_messages"`
	InputUpdates            int64  `json:"input_updates"`
	OutputUpdates           int64  `json:"output_updates"`
	MessagesQueuedOut       int64  `json:"messages_queued_out"` // not reported, always 0
	ConnectionState         string `json:"connection_state"`
	PreviousConnectionState string `json:"previous_connection_state"` // not reported, always ""
	LastEvent               string `json:"last_event"`                // not reported, always ""
	Suppress4ByteAS         bool   `json:"suppress_4byte_as"`
	LocalASPrepend          bool   `json:"local_as_prepend"` // not reported, always false
	Holdtime                int64  `json:"holdtime"`         // seconds
	ConfiguredHoldtime      int64  `json:"configured_holdtime"`
	Keepalive               int64  `json:"keepalive"`
	ConfiguredKeepalive     int64  `json:"configured_keepalive"`
	ActivePrefixCount       int64  `json:"active_prefix_count"`
	ReceivedPrefixCount     int64  `json:"received_prefix_count"`
	AcceptedPrefixCount     int64  `json:"accepted_prefix_count"`
	SuppressedPrefixCount   int64  `json:"suppressed_prefix_count"` // not reported, always 0
	AdvertisedPrefixCount   int64  `json:"advertised_prefix_count"`
	FlapCount               int64  `json:"flap_count"` // not reported, always 0
}

// ARPEntry is one resolved IPv4 neighbor.
type ARPEntry struct {
	Interface string  `json:"interface"`
	MAC       string  `json:"mac"`
	IP        string  `json:"ip"`
	Age       float64 `json:"age"` // not reported, always -1
}

// IPv6Neighbor is one IPv6 neighbor cache entry.
type IPv6Neighbor struct {
	Interface string  `json:"interface"`
	MAC       string  `json:"mac"`
	IP        string  `json:"ip"`
	Age       float64 `json:"age"` // not reported, always -1
	State     string  `json:"state"`
}

// MACTableEntry is one bridge or switch forwarding entry.
type MACTableEntry struct {
	MAC       string  `json:"mac"`
	Interface string  `json:"interface"`
	VLAN      int64   `json:"vlan"`
	Static    bool    `json:"static"`
	Active    bool    `json:"active"`
	Moves     int64   `json:"moves"`     // not reported, always 0
	LastMove  float64 `json:"last_move"` // not reported, always 0
}

// LLDPNeighbor is one discovered neighbor in the brief table.
type LLDPNeighbor struct {
	Hostname string `json:"hostname"`
	Port     string `json:"port"`
}

// LLDPNeighborDetail is one discovered neighbor with full attributes.
type LLDPNeighborDetail struct {
	ParentInterface         string   `json:"parent_interface"`
	RemoteChassisID         string   `json:"remote_chassis_id"`
	RemoteSystemName        string   `json:"remote_system_name"`
	RemotePort              string   `json:"remote_port"`
	RemotePortDescription   string   `json:"remote_port_description"`
	RemoteSystemDescription string   `json:"remote_system_description"`
	RemoteSystemCapab       []string `json:"remote_system_capab"`
	RemoteSystemEnableCapab []string `json:"remote_system_enable_capab"`
}

// FanStatus reports whether a fan is spinning.
type FanStatus struct {
	Status bool `json:"status"`
}

// TemperatureStatus reports one temperature sensor.
type TemperatureStatus struct {
	Temperature float64 `json:"temperature"` // celsius
	IsAlert     bool    `json:"is_alert"`
	IsCritical  bool    `json:"is_critical"`
}

// CPUStatus reports one CPU core load.
type CPUStatus struct {
	Usage float64 `json:"usage"` // percent
}

// MemoryStats reports system memory usage in bytes.
type MemoryStats struct {
	AvailableRAM int64 `json:"available_ram"`
	UsedRAM      int64 `json:"used_ram"`
}

// Environment aggregates the health sensors.
type Environment struct {
	Fans        map[string]FanStatus         `json:"fans"`
	Temperature map[string]TemperatureStatus `json:"temperature"`
	Power       map[string]struct{}          `json:"power"` // not reported by RouterOS
	CPU         map[string]CPUStatus         `json:"cpu"`
	Memory      MemoryStats                  `json:"memory"`
}

// SNMPCommunity is one configured community.
type SNMPCommunity struct {
	ACL  string `json:"acl"`
	Mode string `json:"mode"` // "ro" or "rw"
}

// SNMPInformation is the device SNMP agent configuration.
type SNMPInformation struct {
	ChassisID   string                   `json:"chassis_id"`
	Contact     string                   `json:"contact"`
	Location    string                   `json:"location"`
	Communities map[string]SNMPCommunity `json:"community"`
}

// User is one local account.
type User struct {
	Level    int      `json:"level"` // 15 for the full group, 0 otherwise
	Password string   `json:"password"`
	SSHKeys  []string `json:"sshkeys"`
}

// NetworkInstance is one VRF.
type NetworkInstance struct {
	Name               string   `json:"name"`
	Type               string   `json:"type"` // always "L3VRF"
	RouteDistinguisher string   `json:"route_distinguisher"`
	Interfaces         []string `json:"interfaces"`
}

// PingProbe is one echo result.
type PingProbe struct {
	IPAddress string  `json:"ip_address"`
	RTT       float64 `json:"rtt"` // milliseconds, -1 when not reported
}

// PingResult summarizes one ping run.
type PingResult struct {
	ProbesSent int64       `json:"probes_sent"`
	PacketLoss int64       `json:"packet_loss"`
	RTTMin     float64     `json:"rtt_min"`
	RTTMax     float64     `json:"rtt_max"`
	RTTAvg     float64     `json:"rtt_avg"`
	RTTStdDev  float64     `json:"rtt_stddev"` // not reported, always -1
	Results    []PingProbe `json:"results"`
}
