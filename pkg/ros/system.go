package ros

import (
	"context"

	"github.com/newtron-network/rosdriver/pkg/rosapi"
)

// GetEnvironment aggregates the health sensors: fans, temperatures, per-core
// CPU load, and memory usage. RouterOS exposes no PSU telemetry, so Power is
// always empty. Sensors the model lacks are simply absent from the maps.
func (d *Driver) GetEnvironment(ctx context.Context) (*Environment, error) {
	const op = "get_environment"

	env := &Environment{
		Fans:        make(map[string]FanStatus),
		Temperature: make(map[string]TemperatureStatus),
		Power:       make(map[string]struct{}),
		CPU:         make(map[string]CPUStatus),
	}

	healthReply, err := d.run(ctx, op, "/system/health/print", nil)
	if err != nil {
		return nil, err
	}
	health := foldHealth(healthReply)
	if len(health) > 0 {
		recs := d.normalize(op, healthSchema, &rosapi.Reply{Re: []rosapi.Attrs{health}})
		if len(recs) > 0 {
			r := recs[0]
			if fan := r.String("active_fan"); fan != "" && fan != "none" {
				env.Fans[fan] = FanStatus{Status: r.Float("fan_speed") > 0}
			}
			if _, ok := health["temperature"]; ok {
				env.Temperature["board"] = TemperatureStatus{Temperature: r.Float("temperature")}
			}
			if _, ok := health["cpu-temperature"]; ok {
				env.Temperature["cpu"] = TemperatureStatus{Temperature: r.Float("cpu_temperature")}
			}
		}
	}

	cpuReply, err := d.run(ctx, op, "/system/resource/cpu/print", nil)
	if err != nil {
		return nil, err
	}
	for _, r := range d.normalize(op, cpuSchema, cpuReply) {
		env.CPU[r.String("cpu")] = CPUStatus{Usage: r.Float("load")}
	}

	resReply, err := d.run(ctx, op, "/system/resource/print", nil)
	if err != nil {
		return nil, err
	}
	if recs := d.normalize(op, resourceSchema, resReply); len(recs) > 0 {
		total := recs[0].Int("total_memory")
		free := recs[0].Int("free_memory")
		env.Memory = MemoryStats{AvailableRAM: total, UsedRAM: total - free}
	}

	return env, nil
}

// foldHealth flattens /system/health output into one attribute map. 6.x
// prints a single row of sensor attributes; 7.x prints one name/value row per
// sensor. Both fold to the same shape.
func foldHealth(reply *rosapi.Reply) map[string]string {
	out := make(map[string]string)
	for _, row := range reply.Re {
		name, hasName := row["name"]
		value, hasValue := row["value"]
		if hasName && hasValue {
			out[name] = value
			continue
		}
		for k, v := range row {
			out[k] = v
		}
	}
	return out
}

// GetNTPServers returns the configured NTP servers as a set.
func (d *Driver) GetNTPServers(ctx context.Context) (map[string]struct{}, error) {
	const op = "get_ntp_servers"

	reply, err := d.run(ctx, op, "/system/ntp/client/print", nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]struct{})
	if recs := d.normalize(op, ntpClientSchema, reply); len(recs) > 0 {
		r := recs[0]
		for _, s := range r.Strings("server_dns_names") {
			out[s] = struct{}{}
		}
		// Pre-6.45 builds configure two fixed server slots instead.
		for _, s := range []string{r.String("primary_ntp"), r.String("secondary_ntp")} {
			if s != "" && s != "0.0.0.0" {
				out[s] = struct{}{}
			}
		}
	}
	return out, nil
}

// GetSNMPInformation returns the SNMP agent settings and community list.
func (d *Driver) GetSNMPInformation(ctx context.Context) (*SNMPInformation, error) {
	const op = "get_snmp_information"

	agent, err := d.run(ctx, op, "/snmp/print", nil)
	if err != nil {
		return nil, err
	}
	communities, err := d.run(ctx, op, "/snmp/community/print", nil)
	if err != nil {
		return nil, err
	}

	info := &SNMPInformation{Communities: make(map[string]SNMPCommunity)}
	if recs := d.normalize(op, snmpSchema, agent); len(recs) > 0 {
		r := recs[0]
		info.ChassisID = r.String("chassis_id")
		info.Contact = r.String("contact")
		info.Location = r.String("location")
	}
	for _, r := range d.normalize(op, snmpCommunitySchema, communities) {
		mode := "rw"
		if r.Bool("read_access") {
			mode = "ro"
		}
		info.Communities[r.String("name")] = SNMPCommunity{
			ACL:  r.String("acl"),
			Mode: mode,
		}
	}
	return info, nil
}

// GetUsers returns the local accounts keyed by name. Members of the full
// group map to privilege level 15; password hashes are not readable over the
// API and stay empty.
func (d *Driver) GetUsers(ctx context.Context) (map[string]User, error) {
	const op = "get_users"

	reply, err := d.run(ctx, op, "/user/print", nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]User)
	for _, r := range d.normalize(op, userSchema, reply) {
		level := 0
		if r.String("group") == "full" {
			level = 15
		}
		out[r.String("name")] = User{Level: level}
	}
	return out, nil
}
