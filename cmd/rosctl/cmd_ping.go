package main

import (
	"github.com/spf13/cobra"

	"github.com/newtron-network/rosdriver/pkg/ros"
)

var pingOpts ros.PingOptions

var pingCmd = &cobra.Command{
	Use:   "ping <destination>",
	Short: "Run an echo test from the device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDriver()
		if err != nil {
			return err
		}
		defer d.Close()

		result, err := d.Ping(cmd.Context(), args[0], pingOpts)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	pingCmd.Flags().IntVar(&pingOpts.Count, "count", ros.DefaultPingCount, "Probe count")
	pingCmd.Flags().StringVar(&pingOpts.Source, "source", "", "Source address")
	pingCmd.Flags().IntVar(&pingOpts.TTL, "ttl", 0, "Time to live")
	pingCmd.Flags().IntVar(&pingOpts.Size, "size", 0, "Payload size in bytes")
	pingCmd.Flags().StringVar(&pingOpts.VRF, "vrf", "", "Routing table")

	rootCmd.AddCommand(pingCmd)
}
