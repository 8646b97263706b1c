package backup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/digitalocean/go-qemu/hypervisor"
)

var ErrListDomains = errors.New("failed to list domains")

// DomainLister enumerates the domains known to the hypervisor.
type DomainLister interface {
	ListDomains(ctx context.Context) ([]string, error)
}

// VirshLister lists domains with `virsh list --all --name`.
type VirshLister struct {
	Runner *Runner
}

// ListDomains implements DomainLister.
func (l VirshLister) ListDomains(ctx context.Context) ([]string, error) {
	out, err := l.Runner.Output(ctx, "virsh", "list", "--all", "--name")
	if err != nil {
		return nil, err
	}
	return ParseDomainList(string(out)), nil
}

// ParseDomainList splits virsh output into domain names, one per line.
// Blank lines are dropped.
func ParseDomainList(out string) []string {
	var domains []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			domains = append(domains, name)
		}
	}
	return domains
}

// LibvirtLister lists domains over the libvirt RPC unix socket, without
// shelling out to virsh.
type LibvirtLister struct {
	Socket      string
	DialTimeout time.Duration
}

// ListDomains implements DomainLister. Names are returned sorted.
func (l LibvirtLister) ListDomains(_ context.Context) ([]string, error) {
	timeout := l.DialTimeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	driver := hypervisor.NewRPCDriver(func() (net.Conn, error) {
		return net.DialTimeout("unix", l.Socket, timeout)
	})
	names, err := hypervisor.New(driver).DomainNames()
	if err != nil {
		return nil, fmt.Errorf("%w: libvirt socket %s: %v", ErrListDomains, l.Socket, err)
	}
	sort.Strings(names)
	return names, nil
}

// NewDomainLister picks the libvirt socket lister when one is configured and
// falls back to virsh otherwise.
func NewDomainLister(cfg Config, runner *Runner) DomainLister {
	if cfg.LibvirtSocket != "" {
		return LibvirtLister{Socket: cfg.LibvirtSocket}
	}
	return VirshLister{Runner: runner}
}
