package trends

import (
	"strings"
	"sync/atomic"
)

// HostPool round-robins over provider base URLs. A single URL is the common
// case and takes no atomic operations.
type HostPool struct {
	hosts   []string
	current int64
}

// NewHostPool parses a comma-separated list of base URLs. Trailing slashes
// are removed so paths can be appended directly.
func NewHostPool(list string) *HostPool {
	raw := strings.Split(list, ",")
	hosts := make([]string, 0, len(raw))
	for _, h := range raw {
		cleaned := strings.TrimRight(strings.TrimSpace(h), "/")
		if cleaned != "" {
			hosts = append(hosts, cleaned)
		}
	}
	return &HostPool{hosts: hosts, current: -1}
}

// Next returns the next base URL, or "" when the pool is empty.
func (p *HostPool) Next() string {
	switch len(p.hosts) {
	case 0:
		return ""
	case 1:
		return p.hosts[0]
	}

	next := atomic.AddInt64(&p.current, 1)
	// ((n % m) + m) % m stays non-negative after overflow wraps n.
	n := int64(len(p.hosts))
	return p.hosts[((next%n)+n)%n]
}

// Hosts returns a copy of the configured base URLs.
func (p *HostPool) Hosts() []string {
	out := make([]string, len(p.hosts))
	copy(out, p.hosts)
	return out
}

func (p *HostPool) Size() int {
	return len(p.hosts)
}
