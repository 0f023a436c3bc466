// Package ros is the RouterOS device driver: it speaks the binary API on the
// wire (pkg/rosapi) and returns normalized, vendor-neutral views of device
// state (pkg/schema tables in schemas.go). One Driver owns at most one API
// session and one SSH channel, both opened lazily and safe for concurrent use.
package ros

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/newtron-network/rosdriver/pkg/metrics"
	"github.com/newtron-network/rosdriver/pkg/rosapi"
	"github.com/newtron-network/rosdriver/pkg/schema"
	"github.com/newtron-network/rosdriver/pkg/util"
)

// Driver is a connection to one RouterOS device.
type Driver struct {
	cfg Config
	log *logrus.Entry

	mu      sync.Mutex // guards session and ssh lifecycle
	session *rosapi.Session
	ssh     *sshClient
}

// New validates the configuration and returns an unconnected driver. The
// first operation dials the device.
func New(cfg Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Driver{
		cfg: cfg,
		log: util.WithDevice(cfg.Hostname),
	}, nil
}

// Open dials the API service and authenticates. Calling Open is optional;
// operations connect on demand.
func (d *Driver) Open(ctx context.Context) error {
	_, err := d.ensureOpen(ctx)
	return err
}

// ensureOpen returns the live session, dialing if none exists or the previous
// one was torn down. Session-level locking serializes the commands themselves.
func (d *Driver) ensureOpen(ctx context.Context) (*rosapi.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s := d.session; s != nil && s.State() == rosapi.StateReady {
		return s, nil
	}
	if d.session != nil {
		d.session.Close()
		d.session = nil
	}

	s, err := rosapi.Dial(ctx, rosapi.Config{
		Address:     d.cfg.apiAddress(),
		Username:    d.cfg.Username,
		Password:    d.cfg.Password,
		UseTLS:      d.cfg.UseTLS,
		TLSConfig:   d.cfg.TLSConfig,
		DialTimeout: d.cfg.Timeout,
		ReadTimeout: d.cfg.ReadTimeout,
		Logger:      d.log,
	})
	if err != nil {
		metrics.IncOperationError(d.cfg.Hostname, errorKind(err))
		return nil, err
	}
	d.session = s
	return s, nil
}

// Close releases the API session and the SSH channel. The driver may be
// reused; the next operation reconnects.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.session != nil {
		err = d.session.Close()
		d.session = nil
	}
	if d.ssh != nil {
		if cerr := d.ssh.Close(); err == nil {
			err = cerr
		}
		d.ssh = nil
	}
	return err
}

// IsAlive reports whether the API session answers. A dead or never-opened
// session returns false without error.
func (d *Driver) IsAlive(ctx context.Context) bool {
	d.mu.Lock()
	s := d.session
	d.mu.Unlock()
	if s == nil || s.State() != rosapi.StateReady {
		return false
	}
	_, err := s.Run(ctx, "/system/identity/print", nil)
	return err == nil
}

// run issues one API command, connecting on demand and counting failures
// under the named operation.
func (d *Driver) run(ctx context.Context, op, path string, args rosapi.Attrs) (*rosapi.Reply, error) {
	return d.runQuery(ctx, op, path, args, nil)
}

func (d *Driver) runQuery(ctx context.Context, op, path string, args rosapi.Attrs, queries []string) (*rosapi.Reply, error) {
	s, err := d.ensureOpen(ctx)
	if err != nil {
		return nil, err
	}
	reply, err := s.RunQuery(ctx, path, args, queries)
	if err != nil {
		metrics.IncOperationError(d.cfg.Hostname, errorKind(err))
		d.log.WithField("operation", op).Debugf("%s: %v", path, err)
		return nil, err
	}
	return reply, nil
}

// normalize maps one reply through a schema table. Defaulted fields are
// logged at debug level; rejected records are logged, counted, and dropped.
// Surviving records are returned in device order.
func (d *Driver) normalize(op string, s *schema.Schema, reply *rosapi.Reply) []schema.Record {
	rows := make([]map[string]string, len(reply.Re))
	for i, attrs := range reply.Re {
		rows[i] = attrs
	}

	res := s.Normalize(rows)
	log := d.log.WithField("operation", op)
	for _, p := range res.Problems {
		log.Debugf("schema %s record %d: field %s from %s=%q defaulted: %v",
			s.Name, p.Index, p.Field, p.Attr, p.Value, p.Err)
	}
	for _, rej := range res.Rejected {
		log.Warnf("dropped record: %v", rej)
		metrics.IncNormalizationDrop(d.cfg.Hostname, s.Name)
	}
	return res.Records
}

// errorKind buckets an operation error for the metrics label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, util.ErrAuthentication):
		return "authentication"
	case errors.Is(err, util.ErrTimeout):
		return "timeout"
	case errors.Is(err, util.ErrFraming):
		return "framing"
	case errors.Is(err, util.ErrConnection):
		return "connection"
	case errors.Is(err, util.ErrCommand):
		return "command"
	case errors.Is(err, util.ErrClosed), errors.Is(err, util.ErrNotConnected):
		return "session"
	case errors.Is(err, util.ErrNormalization):
		return "normalization"
	default:
		return "other"
	}
}
