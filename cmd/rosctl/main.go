// rosctl — RouterOS device inspection tool
//
// rosctl speaks the RouterOS binary API and prints normalized, vendor-neutral
// views of device state as JSON.
//
//	rosctl -d 192.0.2.1 -u admin facts
//	rosctl -d 192.0.2.1 -u admin interfaces
//	rosctl -d core-rtr-01 -I inventory.yml bgp-neighbors
//	rosctl -d 192.0.2.1 -u admin ping 198.51.100.1 --count 10
//
// With -I, the device flag names an entry in a YAML inventory; otherwise it
// is the address itself and credentials come from flags. A missing password
// is prompted for when stdin is a terminal.
package main

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/newtron-network/rosdriver/pkg/ros"
	"github.com/newtron-network/rosdriver/pkg/util"
	"github.com/newtron-network/rosdriver/pkg/version"
)

var (
	// Context flags (device selection)
	deviceName    string // -d, --device
	inventoryPath string // -I, --inventory

	// Connection flags
	username    string
	password    string
	port        int
	useTLS      bool
	timeout     time.Duration
	readTimeout time.Duration

	// Option flags
	verbose bool

	// Resolved per invocation by PersistentPreRunE.
	driverConfig ros.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "rosctl",
	Short:             "RouterOS device inspection tool",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `rosctl reads operational state from MikroTik RouterOS devices over the
binary API and prints it as normalized JSON.

The -d flag selects the device: an address with flag credentials, or an
inventory entry name with -I.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		if deviceName == "" {
			return fmt.Errorf("no device selected: use -d <address> (or -d <name> with -I)")
		}

		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		driverConfig = cfg
		return nil
	},
}

// resolveConfig builds the driver configuration from the inventory entry or
// the connection flags, prompting for a missing password on a terminal.
func resolveConfig() (ros.Config, error) {
	var cfg ros.Config

	if inventoryPath != "" {
		inv, err := loadInventory(inventoryPath)
		if err != nil {
			return cfg, err
		}
		entry, ok := inv.Devices[deviceName]
		if !ok {
			return cfg, fmt.Errorf("device %q not in inventory %s", deviceName, inventoryPath)
		}
		cfg = entry
	} else {
		cfg = ros.Config{
			Hostname: deviceName,
			Username: username,
			Password: password,
			Port:     port,
			UseTLS:   useTLS,
		}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = timeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = readTimeout
	}

	if cfg.Password == "" && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprintf(os.Stderr, "password for %s@%s: ", cfg.Username, cfg.Hostname)
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return cfg, fmt.Errorf("reading password: %w", err)
		}
		cfg.Password = string(pw)
	}

	return cfg, cfg.Validate()
}

// openDriver connects to the selected device. Callers must Close.
func openDriver() (*ros.Driver, error) {
	return ros.New(driverConfig)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rosctl %s\n", version.Info())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&deviceName, "device", "d", "", "Device address, or inventory entry name with -I")
	rootCmd.PersistentFlags().StringVarP(&inventoryPath, "inventory", "I", "", "YAML device inventory")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "admin", "API username")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "API password (prompted when omitted)")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "API port (default 8728, 8729 with --tls)")
	rootCmd.PersistentFlags().BoolVar(&useTLS, "tls", false, "Connect to the API-SSL service")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Connect timeout")
	rootCmd.PersistentFlags().DurationVar(&readTimeout, "read-timeout", 60*time.Second, "Per-reply read timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(versionCmd)
}
