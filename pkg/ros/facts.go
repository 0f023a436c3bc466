package ros

import (
	"context"
	"errors"

	"github.com/newtron-network/rosdriver/pkg/util"
)

// GetFacts collects the device identity: platform, model, version, serial,
// hostname, uptime and the naturally-sorted interface list.
func (d *Driver) GetFacts(ctx context.Context) (*Facts, error) {
	const op = "get_facts"

	resource, err := d.run(ctx, op, "/system/resource/print", nil)
	if err != nil {
		return nil, err
	}
	identity, err := d.run(ctx, op, "/system/identity/print", nil)
	if err != nil {
		return nil, err
	}
	ifaces, err := d.run(ctx, op, "/interface/print", nil)
	if err != nil {
		return nil, err
	}

	facts := &Facts{Vendor: "MikroTik"}

	if recs := d.normalize(op, resourceSchema, resource); len(recs) > 0 {
		r := recs[0]
		facts.Uptime = r.Int("uptime")
		if v := r.String("vendor"); v != "" {
			facts.Vendor = v
		}
		facts.Model = r.String("model")
		facts.OSVersion = r.String("os_version")
	}
	if recs := d.normalize(op, identitySchema, identity); len(recs) > 0 {
		facts.Hostname = recs[0].String("name")
	}

	// CHR and x86 builds have no routerboard; tolerate the trap and report
	// an empty serial, matching how those platforms answer over SNMP too.
	routerboard, err := d.run(ctx, op, "/system/routerboard/print", nil)
	if err != nil {
		var cmdErr *util.CommandError
		if !errors.As(err, &cmdErr) {
			return nil, err
		}
	} else if recs := d.normalize(op, routerboardSchema, routerboard); len(recs) > 0 {
		facts.SerialNumber = recs[0].String("serial_number")
	}

	names := make([]string, 0, len(ifaces.Re))
	for _, row := range ifaces.Re {
		if n := row["name"]; n != "" {
			names = append(names, n)
		}
	}
	util.SortNaturally(names)
	facts.InterfaceList = names

	return facts, nil
}
