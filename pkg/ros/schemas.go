package ros

import "github.com/newtron-network/rosdriver/pkg/schema"

// Field tables mapping RouterOS print output to the normalized entities.
// Candidate attribute lists absorb naming drift across firmware lines (e.g.
// actual-mtu appeared in 6.x; older builds only report mtu). Values that the
// cross-vendor model requires but RouterOS never reports are filled by the
// getter, not the table.

var interfaceSchema = &schema.Schema{
	Name: "interface",
	Fields: map[string]schema.Field{
		"name":        {Attrs: []string{"name"}, Required: true},
		"is_up":       {Attrs: []string{"running"}, Coerce: schema.Bool, Default: false},
		"disabled":    {Attrs: []string{"disabled"}, Coerce: schema.Bool, Default: false},
		"description": {Attrs: []string{"comment"}, Default: ""},
		"mtu":         {Attrs: []string{"actual-mtu", "mtu"}, Coerce: schema.Int, Default: int64(0)},
		"mac_address": {Attrs: []string{"mac-address"}, Coerce: schema.MAC, Default: ""},
	},
}

var interfaceCountersSchema = &schema.Schema{
	Name: "interface-counters",
	Fields: map[string]schema.Field{
		"name":       {Attrs: []string{"name"}, Required: true},
		"tx_errors":  {Attrs: []string{"tx-error"}, Coerce: schema.Int, Default: int64(0)},
		"rx_errors":  {Attrs: []string{"rx-error"}, Coerce: schema.Int, Default: int64(0)},
		"tx_drops":   {Attrs: []string{"tx-drop"}, Coerce: schema.Int, Default: int64(0)},
		"rx_drops":   {Attrs: []string{"rx-drop"}, Coerce: schema.Int, Default: int64(0)},
		"tx_bytes":   {Attrs: []string{"tx-byte"}, Coerce: schema.Uint, Required: true},
		"rx_bytes":   {Attrs: []string{"rx-byte"}, Coerce: schema.Uint, Required: true},
		"tx_packets": {Attrs: []string{"tx-packet"}, Coerce: schema.Uint, Required: true},
		"rx_packets": {Attrs: []string{"rx-packet"}, Coerce: schema.Uint, Required: true},
	},
}

var addressSchema = &schema.Schema{
	Name: "address",
	Fields: map[string]schema.Field{
		"interface": {Attrs: []string{"interface"}, Required: true},
		"address":   {Attrs: []string{"address"}, Coerce: schema.Prefix, Required: true},
	},
}

var bgpInstanceSchema = &schema.Schema{
	Name: "bgp-instance",
	Fields: map[string]schema.Field{
		"name":          {Attrs: []string{"name"}, Required: true},
		"router_id":     {Attrs: []string{"router-id"}, Default: ""},
		"local_as":      {Attrs: []string{"as"}, Coerce: schema.Int, Default: int64(0)},
		"routing_table": {Attrs: []string{"routing-table"}, Default: ""},
	},
}

var bgpPeerSchema = &schema.Schema{
	Name: "bgp-peer",
	Fields: map[string]schema.Field{
		"name":             {Attrs: []string{"name"}, Required: true},
		"instance":         {Attrs: []string{"instance"}, Default: "default"},
		"remote_address":   {Attrs: []string{"remote-address"}, Required: true},
		"remote_as":        {Attrs: []string{"remote-as"}, Coerce: schema.Int, Default: int64(0)},
		"remote_id":        {Attrs: []string{"remote-id"}, Default: ""},
		"is_up":            {Attrs: []string{"established"}, Coerce: schema.Bool, Default: false},
		"disabled":         {Attrs: []string{"disabled"}, Coerce: schema.Bool, Default: false},
		"uptime":           {Attrs: []string{"uptime"}, Coerce: schema.Seconds, Default: int64(0)},
		"address_families": {Attrs: []string{"address-families"}, Coerce: schema.CSV, Default: []string{"ip"}},
		"prefix_count":     {Attrs: []string{"prefix-count"}, Coerce: schema.Int, Default: int64(0)},

		// Detail-view fields. The used-* timers reflect the negotiated
		// session; the bare names are the configured values.
		"local_address":        {Attrs: []string{"local-address"}, Default: ""},
		"multihop":             {Attrs: []string{"multihop"}, Coerce: schema.Bool, Default: false},
		"remove_private_as":    {Attrs: []string{"remove-private-as"}, Coerce: schema.Bool, Default: false},
		"in_filter":            {Attrs: []string{"in-filter"}, Default: ""},
		"out_filter":           {Attrs: []string{"out-filter"}, Default: ""},
		"updates_received":     {Attrs: []string{"updates-received"}, Coerce: schema.Int, Default: int64(0)},
		"updates_sent":         {Attrs: []string{"updates-sent"}, Coerce: schema.Int, Default: int64(0)},
		"withdrawn_received":   {Attrs: []string{"withdrawn-received"}, Coerce: schema.Int, Default: int64(0)},
		"withdrawn_sent":       {Attrs: []string{"withdrawn-sent"}, Coerce: schema.Int, Default: int64(0)},
		"state":                {Attrs: []string{"state"}, Default: ""},
		"as4_capability":       {Attrs: []string{"as4-capability"}, Coerce: schema.Bool, Default: true},
		"holdtime":             {Attrs: []string{"used-hold-time", "hold-time"}, Coerce: schema.Seconds, Default: int64(30)},
		"configured_holdtime":  {Attrs: []string{"hold-time"}, Coerce: schema.Seconds, Default: int64(30)},
		"keepalive":            {Attrs: []string{"used-keepalive-time"}, Coerce: schema.Seconds, Default: int64(10)},
		"configured_keepalive": {Attrs: []string{"keepalive-time"}, Coerce: schema.Seconds, Default: int64(10)},
	},
}

var bgpAdvertisementSchema = &schema.Schema{
	Name: "bgp-advertisement",
	Fields: map[string]schema.Field{
		"peer":   {Attrs: []string{"peer"}, Required: true},
		"prefix": {Attrs: []string{"prefix"}, Required: true},
	},
}

var arpSchema = &schema.Schema{
	Name: "arp",
	Fields: map[string]schema.Field{
		// Incomplete entries carry no mac-address and are rejected, matching
		// the cross-vendor table which only lists resolved neighbors.
		"interface": {Attrs: []string{"interface"}, Required: true},
		"mac":       {Attrs: []string{"mac-address"}, Coerce: schema.MAC, Required: true},
		"ip":        {Attrs: []string{"address"}, Coerce: schema.IP, Required: true},
	},
}

var ipv6NeighborSchema = &schema.Schema{
	Name: "ipv6-neighbor",
	Fields: map[string]schema.Field{
		"interface": {Attrs: []string{"interface"}, Required: true},
		"mac":       {Attrs: []string{"mac-address"}, Coerce: schema.MAC, Required: true},
		"ip":        {Attrs: []string{"address"}, Coerce: schema.IP, Required: true},
		"state":     {Attrs: []string{"status"}, Default: ""},
	},
}

var bridgeHostSchema = &schema.Schema{
	Name: "bridge-host",
	Fields: map[string]schema.Field{
		"mac":       {Attrs: []string{"mac-address"}, Coerce: schema.MAC, Required: true},
		"interface": {Attrs: []string{"interface"}, Required: true},
		// The vid is not consistently reported; default VLAN 1.
		"vlan":    {Attrs: []string{"vid"}, Coerce: schema.Int, Default: int64(1)},
		"dynamic": {Attrs: []string{"dynamic"}, Coerce: schema.Bool, Default: false},
		"invalid": {Attrs: []string{"invalid"}, Coerce: schema.Bool, Default: false},
	},
}

var switchFDBSchema = &schema.Schema{
	Name: "switch-fdb",
	Fields: map[string]schema.Field{
		"mac":       {Attrs: []string{"mac-address"}, Coerce: schema.MAC, Required: true},
		"interface": {Attrs: []string{"port"}, Required: true},
		"vlan":      {Attrs: []string{"vlan-id"}, Coerce: schema.Int, Default: int64(0)},
		"dynamic":   {Attrs: []string{"dynamic"}, Coerce: schema.Bool, Default: false},
		"active":    {Attrs: []string{"active"}, Coerce: schema.Bool, Default: false},
	},
}

var lldpNeighborSchema = &schema.Schema{
	Name: "lldp-neighbor",
	Fields: map[string]schema.Field{
		// The local interface embeds child,parent in one reversed field.
		"interface":          {Attrs: []string{"interface"}, Required: true},
		"hostname":           {Attrs: []string{"identity"}, Default: ""},
		"port":               {Attrs: []string{"interface-name"}, Default: ""},
		"chassis_id":         {Attrs: []string{"mac-address"}, Default: ""},
		"system_description": {Attrs: []string{"system-description"}, Default: ""},
		"system_caps":        {Attrs: []string{"system-caps"}, Coerce: schema.CSV, Default: []string(nil)},
		"system_caps_on":     {Attrs: []string{"system-caps-enabled"}, Coerce: schema.CSV, Default: []string(nil)},
	},
}

var resourceSchema = &schema.Schema{
	Name: "system-resource",
	Fields: map[string]schema.Field{
		"uptime":       {Attrs: []string{"uptime"}, Coerce: schema.Seconds, Default: int64(0)},
		"vendor":       {Attrs: []string{"platform"}, Default: ""},
		"model":        {Attrs: []string{"board-name"}, Default: ""},
		"os_version":   {Attrs: []string{"version"}, Default: ""},
		"total_memory": {Attrs: []string{"total-memory"}, Coerce: schema.Int, Default: int64(0)},
		"free_memory":  {Attrs: []string{"free-memory"}, Coerce: schema.Int, Default: int64(0)},
	},
}

var identitySchema = &schema.Schema{
	Name: "system-identity",
	Fields: map[string]schema.Field{
		"name": {Attrs: []string{"name"}, Default: ""},
	},
}

var routerboardSchema = &schema.Schema{
	Name: "routerboard",
	Fields: map[string]schema.Field{
		"serial_number": {Attrs: []string{"serial-number"}, Default: ""},
	},
}

var healthSchema = &schema.Schema{
	Name: "system-health",
	Fields: map[string]schema.Field{
		"active_fan":      {Attrs: []string{"active-fan"}, Default: "none"},
		"fan_speed":       {Attrs: []string{"fan-speed"}, Coerce: schema.FloatUnit("RPM"), Default: float64(0)},
		"temperature":     {Attrs: []string{"temperature"}, Coerce: schema.Float, Default: float64(0)},
		"cpu_temperature": {Attrs: []string{"cpu-temperature"}, Coerce: schema.Float, Default: float64(0)},
	},
}

var cpuSchema = &schema.Schema{
	Name: "system-cpu",
	Fields: map[string]schema.Field{
		"cpu":  {Attrs: []string{"cpu"}, Required: true},
		"load": {Attrs: []string{"load"}, Coerce: schema.FloatUnit("%"), Default: float64(0)},
	},
}

var ntpClientSchema = &schema.Schema{
	Name: "ntp-client",
	Fields: map[string]schema.Field{
		"server_dns_names": {Attrs: []string{"server-dns-names", "servers"}, Coerce: schema.CSV, Default: []string(nil)},
		"primary_ntp":      {Attrs: []string{"primary-ntp"}, Default: ""},
		"secondary_ntp":    {Attrs: []string{"secondary-ntp"}, Default: ""},
	},
}

var snmpCommunitySchema = &schema.Schema{
	Name: "snmp-community",
	Fields: map[string]schema.Field{
		"name":        {Attrs: []string{"name"}, Required: true},
		"acl":         {Attrs: []string{"addresses"}, Default: ""},
		"read_access": {Attrs: []string{"read-access"}, Coerce: schema.Bool, Default: false},
	},
}

var snmpSchema = &schema.Schema{
	Name: "snmp",
	Fields: map[string]schema.Field{
		"chassis_id": {Attrs: []string{"engine-id"}, Default: ""},
		"contact":    {Attrs: []string{"contact"}, Default: ""},
		"location":   {Attrs: []string{"location"}, Default: ""},
	},
}

var userSchema = &schema.Schema{
	Name: "user",
	Fields: map[string]schema.Field{
		"name":  {Attrs: []string{"name"}, Required: true},
		"group": {Attrs: []string{"group"}, Default: ""},
	},
}

var vrfSchema = &schema.Schema{
	Name: "vrf",
	Fields: map[string]schema.Field{
		"name":                {Attrs: []string{"routing-mark"}, Required: true},
		"route_distinguisher": {Attrs: []string{"route-distinguisher"}, Default: ""},
		"interfaces":          {Attrs: []string{"interfaces"}, Coerce: schema.CSV, Default: []string(nil)},
	},
}

var pingSchema = &schema.Schema{
	Name: "ping",
	Fields: map[string]schema.Field{
		"sent":        {Attrs: []string{"sent"}, Coerce: schema.Int, Default: int64(0)},
		"packet_loss": {Attrs: []string{"packet-loss"}, Coerce: schema.Int, Default: int64(0)},
		"host":        {Attrs: []string{"host"}, Default: ""},
		"rtt":         {Attrs: []string{"time"}, Coerce: schema.FloatUnit("ms", "us"), Default: float64(-1)},
		"min_rtt":     {Attrs: []string{"min-rtt"}, Coerce: schema.FloatUnit("ms", "us"), Default: float64(-1)},
		"avg_rtt":     {Attrs: []string{"avg-rtt"}, Coerce: schema.FloatUnit("ms", "us"), Default: float64(-1)},
		"max_rtt":     {Attrs: []string{"max-rtt"}, Coerce: schema.FloatUnit("ms", "us"), Default: float64(-1)},
	},
}
