package ros

import (
	"context"
	"strconv"

	"github.com/newtron-network/rosdriver/pkg/rosapi"
)

// PingOptions tune one echo run. Zero values leave the device defaults in
// place, except Count which defaults to 5 probes.
type PingOptions struct {
	Source string // source address
	TTL    int
	Size   int // payload bytes
	Count  int
	VRF    string // routing table
}

// DefaultPingCount is the probe count used when PingOptions.Count is zero.
const DefaultPingCount = 5

// Ping runs an echo test from the device. Each probe is reported
// individually; the summary counters come from the device's final probe
// record. Timed-out probes carry RTT -1.
func (d *Driver) Ping(ctx context.Context, destination string, opts PingOptions) (*PingResult, error) {
	const op = "ping"

	count := opts.Count
	if count == 0 {
		count = DefaultPingCount
	}
	args := rosapi.Attrs{
		"address": destination,
		"count":   strconv.Itoa(count),
	}
	if opts.Source != "" {
		args["src-address"] = opts.Source
	}
	if opts.TTL > 0 {
		args["ttl"] = strconv.Itoa(opts.TTL)
	}
	if opts.Size > 0 {
		args["size"] = strconv.Itoa(opts.Size)
	}
	if opts.VRF != "" {
		args["routing-table"] = opts.VRF
	}

	reply, err := d.run(ctx, op, "/ping", args)
	if err != nil {
		return nil, err
	}

	recs := d.normalize(op, pingSchema, reply)
	if len(recs) == 0 {
		return &PingResult{RTTMin: -1, RTTMax: -1, RTTAvg: -1, RTTStdDev: -1}, nil
	}

	result := &PingResult{
		Results:   make([]PingProbe, 0, len(recs)),
		RTTStdDev: -1,
	}
	for _, r := range recs {
		result.Results = append(result.Results, PingProbe{
			IPAddress: r.String("host"),
			RTT:       r.Float("rtt"),
		})
	}

	// The device repeats the cumulative counters on every probe; the last
	// record carries the totals for the whole run.
	last := recs[len(recs)-1]
	result.ProbesSent = last.Int("sent")
	result.PacketLoss = last.Int("packet_loss")
	result.RTTMin = last.Float("min_rtt")
	result.RTTAvg = last.Float("avg_rtt")
	result.RTTMax = last.Float("max_rtt")

	return result, nil
}
