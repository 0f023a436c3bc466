package ros

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/newtron-network/rosdriver/pkg/metrics"
	"github.com/newtron-network/rosdriver/pkg/util"
)

// sshClient wraps one SSH connection to the device. The binary API has no
// equivalent of /export, so configuration retrieval goes over SSH. Sessions
// are created per-call (stateless).
type sshClient struct {
	client *ssh.Client
}

func dialSSH(cfg *Config) (*sshClient, error) {
	conf := &ssh.ClientConfig{
		User: cfg.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
		},
		// RouterOS regenerates host keys on reset; callers that need key
		// pinning front this with their own known-hosts tooling.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         cfg.Timeout,
	}

	client, err := ssh.Dial("tcp", cfg.sshAddress(), conf)
	if err != nil {
		return nil, util.NewConnectionError(cfg.sshAddress(), err)
	}
	return &sshClient{client: client}, nil
}

func (c *sshClient) Exec(cmd string) (string, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return "", util.NewConnectionError(c.client.RemoteAddr().String(), err)
	}
	defer session.Close()

	output, err := session.CombinedOutput(cmd)
	if err != nil {
		return string(output), &util.CommandError{Command: cmd, Message: err.Error()}
	}
	return string(output), nil
}

// Upload writes a file onto the device over SFTP.
func (c *sshClient) Upload(name string, data []byte) error {
	client, err := sftp.NewClient(c.client)
	if err != nil {
		return util.NewConnectionError(c.client.RemoteAddr().String(), err)
	}
	defer client.Close()

	f, err := client.Create(name)
	if err != nil {
		return util.NewConnectionError(c.client.RemoteAddr().String(), err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return util.NewConnectionError(c.client.RemoteAddr().String(), err)
	}
	return nil
}

func (c *sshClient) Close() error {
	return c.client.Close()
}

// ensureSSH returns the live SSH channel, dialing on first use.
func (d *Driver) ensureSSH() (*sshClient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ssh != nil {
		return d.ssh, nil
	}
	c, err := dialSSH(&d.cfg)
	if err != nil {
		metrics.IncOperationError(d.cfg.Hostname, errorKind(err))
		return nil, err
	}
	d.ssh = c
	return c, nil
}

// GetConfig exports the running configuration. RouterOS keeps a single
// configuration store, so running is the only population; full also includes
// default values (/export verbose). The export timestamp header is stripped
// so repeated exports of an unchanged device compare equal.
func (d *Driver) GetConfig(ctx context.Context, full bool) (string, error) {
	const op = "get_config"

	c, err := d.ensureSSH()
	if err != nil {
		return "", err
	}

	cmd := "/export"
	if full {
		cmd = "/export verbose"
	}
	out, err := c.Exec(cmd)
	if err != nil {
		metrics.IncOperationError(d.cfg.Hostname, errorKind(err))
		d.log.WithField("operation", op).Debugf("%s: %v", cmd, err)
		return "", err
	}
	return stripExportHeader(out), nil
}

// CompareConfig diffs a candidate export against the device's running
// configuration, returning a unified-style listing of added (+) and removed
// (-) lines. An empty string means no differences.
func (d *Driver) CompareConfig(ctx context.Context, candidate string) (string, error) {
	running, err := d.GetConfig(ctx, false)
	if err != nil {
		return "", err
	}
	return diffLines(running, stripExportHeader(candidate)), nil
}

// LoadReplaceCandidate applies a candidate configuration script: the script
// is uploaded to the device and run through /import. A candidate whose export
// lines already match the running configuration is a no-op. On failure the
// uploaded file is left on the device for inspection; a successful run
// removes it.
func (d *Driver) LoadReplaceCandidate(ctx context.Context, candidate string) error {
	const op = "load_replace_candidate"

	if strings.TrimSpace(candidate) == "" {
		return fmt.Errorf("load candidate: empty candidate configuration")
	}

	diff, err := d.CompareConfig(ctx, candidate)
	if err != nil {
		return err
	}
	if diff == "" {
		d.log.WithField("operation", op).Debug("candidate matches running configuration")
		return nil
	}

	c, err := d.ensureSSH()
	if err != nil {
		return err
	}

	name := fmt.Sprintf("candidate-%d.rsc", time.Now().Unix())
	if err := c.Upload(name, []byte(importScript(name, candidate))); err != nil {
		metrics.IncOperationError(d.cfg.Hostname, errorKind(err))
		return err
	}

	out, err := c.Exec(fmt.Sprintf("/import %q", name))
	if err != nil {
		metrics.IncOperationError(d.cfg.Hostname, errorKind(err))
		return err
	}
	if !strings.Contains(out, "SUCCESS") {
		metrics.IncOperationError(d.cfg.Hostname, "command")
		return &util.CommandError{
			Command: "/import",
			Message: fmt.Sprintf("import failed; script remains on the device as %s", name),
		}
	}
	d.log.WithField("operation", op).Infof("imported candidate %s", name)
	return nil
}

// importScript wraps the candidate body so a successful run removes its own
// file and prints a marker the /import output is checked for. /import stops
// at the first failing line, leaving both the file and the marker unprinted.
func importScript(name, body string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n/file remove \"" + name + "\"\n")
	b.WriteString(":put SUCCESS\n")
	return b.String()
}

// stripExportHeader drops the leading "# <timestamp> by RouterOS <version>"
// comment that varies between otherwise identical exports.
func stripExportHeader(export string) string {
	lines := strings.Split(strings.ReplaceAll(export, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.HasPrefix(lines[0], "#") {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// diffLines is a set-based line diff: lines only in want are prefixed "+",
// lines only in have are prefixed "-", in their original order.
func diffLines(have, want string) string {
	haveLines := splitNonEmpty(have)
	wantLines := splitNonEmpty(want)

	haveSet := make(map[string]bool, len(haveLines))
	for _, l := range haveLines {
		haveSet[l] = true
	}
	wantSet := make(map[string]bool, len(wantLines))
	for _, l := range wantLines {
		wantSet[l] = true
	}

	var b strings.Builder
	for _, l := range haveLines {
		if !wantSet[l] {
			b.WriteString("- " + l + "\n")
		}
	}
	for _, l := range wantLines {
		if !haveSet[l] {
			b.WriteString("+ " + l + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
