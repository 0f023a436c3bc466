package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/rosdriver/pkg/ros"
)

// Inventory maps device names to driver configurations.
//
//	devices:
//	  core-rtr-01:
//	    hostname: 192.0.2.1
//	    username: admin
//	    password: secret
//	    use_tls: true
type Inventory struct {
	Devices map[string]ros.Config `yaml:"devices"`
}

func loadInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}

	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parsing inventory %s: %w", path, err)
	}
	if len(inv.Devices) == 0 {
		return nil, fmt.Errorf("inventory %s defines no devices", path)
	}
	for name, cfg := range inv.Devices {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("inventory device %q: %w", name, err)
		}
	}
	return &inv, nil
}
