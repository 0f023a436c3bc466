package main

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/newtron-network/rosdriver/pkg/ros"
)

// printJSON writes one result document to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// getter wraps the connect/fetch/print cycle shared by every read command.
func getter(fetch func(context.Context, *ros.Driver) (interface{}, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		d, err := openDriver()
		if err != nil {
			return err
		}
		defer d.Close()

		result, err := fetch(cmd.Context(), d)
		if err != nil {
			return err
		}
		return printJSON(result)
	}
}

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Device identity, version, uptime and interface list",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetFacts(ctx)
	}),
}

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "Interface table",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetInterfaces(ctx)
	}),
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Per-interface traffic counters",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetInterfacesCounters(ctx)
	}),
}

var addressesCmd = &cobra.Command{
	Use:   "addresses",
	Short: "Interface IP addresses by family",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetInterfacesIP(ctx)
	}),
}

var bgpNeighborsCmd = &cobra.Command{
	Use:   "bgp-neighbors",
	Short: "BGP peers grouped by routing instance",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetBGPNeighbors(ctx)
	}),
}

var bgpNeighborsDetailCmd = &cobra.Command{
	Use:   "bgp-neighbors-detail [address]",
	Short: "Full BGP peer details, optionally for one neighbor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := ""
		if len(args) == 1 {
			address = args[0]
		}
		return getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
			return d.GetBGPNeighborsDetail(ctx, address)
		})(cmd, args)
	},
}

var arpCmd = &cobra.Command{
	Use:   "arp",
	Short: "IPv4 neighbor (ARP) table",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetARPTable(ctx)
	}),
}

var ipv6NeighborsCmd = &cobra.Command{
	Use:   "ipv6-neighbors",
	Short: "IPv6 neighbor cache",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetIPv6Neighbors(ctx)
	}),
}

var macTableCmd = &cobra.Command{
	Use:   "mac-table",
	Short: "Bridge and switch-chip MAC forwarding table",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetMACAddressTable(ctx)
	}),
}

var lldpDetail bool

var lldpCmd = &cobra.Command{
	Use:   "lldp",
	Short: "Discovered neighbors by local interface",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		if lldpDetail {
			return d.GetLLDPNeighborsDetail(ctx)
		}
		return d.GetLLDPNeighbors(ctx)
	}),
}

var environmentCmd = &cobra.Command{
	Use:   "environment",
	Short: "Fans, temperatures, CPU load and memory",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetEnvironment(ctx)
	}),
}

var ntpCmd = &cobra.Command{
	Use:   "ntp",
	Short: "Configured NTP servers",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		servers, err := d.GetNTPServers(ctx)
		if err != nil {
			return nil, err
		}
		// A set marshals poorly; print the sorted member list.
		names := make([]string, 0, len(servers))
		for s := range servers {
			names = append(names, s)
		}
		sort.Strings(names)
		return names, nil
	}),
}

var snmpCmd = &cobra.Command{
	Use:   "snmp",
	Short: "SNMP agent settings and communities",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetSNMPInformation(ctx)
	}),
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Local user accounts",
	RunE: getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
		return d.GetUsers(ctx)
	}),
}

var networkInstancesCmd = &cobra.Command{
	Use:   "network-instances [name]",
	Short: "VRFs, optionally filtered by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return getter(func(ctx context.Context, d *ros.Driver) (interface{}, error) {
			return d.GetNetworkInstances(ctx, name)
		})(cmd, args)
	},
}

func init() {
	lldpCmd.Flags().BoolVar(&lldpDetail, "detail", false, "Include full neighbor attributes")

	rootCmd.AddCommand(
		factsCmd, interfacesCmd, countersCmd, addressesCmd,
		bgpNeighborsCmd, bgpNeighborsDetailCmd, arpCmd, ipv6NeighborsCmd, macTableCmd, lldpCmd,
		environmentCmd, ntpCmd, snmpCmd, usersCmd, networkInstancesCmd,
	)
}
