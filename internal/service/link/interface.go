package link

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoAddress is returned when no usable interface carries an address.
var ErrNoAddress = errors.New("no usable address")

// nic is the part of a network interface the prober looks at.
type nic struct {
	name  string
	flags net.Flags
	addrs []net.Addr
}

// Interface treats the link as managed by the operating system and only
// probes it: the link is up when a running, non-loopback interface has a
// global unicast address.
type Interface struct {
	// Name restricts probing to one interface; empty means any.
	Name string

	list func() ([]nic, error)
}

// NewInterface creates a prober for the named interface (or any when empty).
func NewInterface(name string) *Interface {
	return &Interface{Name: name, list: systemInterfaces}
}

// Join implements Network. The OS owns association, so there is nothing to do.
func (i *Interface) Join(context.Context) error {
	return nil
}

// Status implements Network.
func (i *Interface) Status(ctx context.Context) (State, error) {
	if _, err := i.Address(ctx); err != nil {
		if errors.Is(err, ErrNoAddress) {
			return Disconnected, nil
		}

		return Disconnected, err
	}

	return Connected, nil
}

// Address implements Network.
func (i *Interface) Address(context.Context) (string, error) {
	nics, err := i.list()
	if err != nil {
		return "", fmt.Errorf("list interfaces: %w", err)
	}

	for _, n := range nics {
		if i.Name != "" && n.name != i.Name {
			continue
		}

		if n.flags&net.FlagLoopback != 0 || n.flags&net.FlagUp == 0 || n.flags&net.FlagRunning == 0 {
			continue
		}

		for _, addr := range n.addrs {
			ipNet, ok := addr.(*net.IPNet)
			if ok && ipNet.IP.IsGlobalUnicast() {
				return ipNet.IP.String(), nil
			}
		}
	}

	return "", ErrNoAddress
}

func systemInterfaces() ([]nic, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	result := make([]nic, 0, len(ifaces))

	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		result = append(result, nic{name: iface.Name, flags: iface.Flags, addrs: addrs})
	}

	return result, nil
}
