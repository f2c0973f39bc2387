package link

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// NMCLI joins a Wi-Fi network through NetworkManager's command line client.
type NMCLI struct {
	ssid     string
	password string
	iface    string

	probe *Interface
	run   func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewNMCLI creates a NetworkManager backend for the given network.
func NewNMCLI(ssid, password, iface string) *NMCLI {
	return &NMCLI{
		ssid:     ssid,
		password: password,
		iface:    iface,
		probe:    NewInterface(iface),
		run:      runCommand,
	}
}

// Join implements Network.
func (n *NMCLI) Join(ctx context.Context) error {
	args := []string{"device", "wifi", "connect", n.ssid}
	if n.password != "" {
		args = append(args, "password", n.password)
	}

	if n.iface != "" {
		args = append(args, "ifname", n.iface)
	}

	if out, err := n.run(ctx, "nmcli", args...); err != nil {
		return fmt.Errorf("nmcli connect %q: %w: %s", n.ssid, err, strings.TrimSpace(string(out)))
	}

	return nil
}

// Status implements Network. NetworkManager's general state must be
// "connected" (full connectivity) and the interface must hold an address.
func (n *NMCLI) Status(ctx context.Context) (State, error) {
	out, err := n.run(ctx, "nmcli", "-t", "-f", "STATE", "general")
	if err != nil {
		return Disconnected, fmt.Errorf("nmcli general: %w", err)
	}

	if strings.TrimSpace(string(out)) != "connected" {
		return Disconnected, nil
	}

	return n.probe.Status(ctx)
}

// Address implements Network.
func (n *NMCLI) Address(ctx context.Context) (string, error) {
	return n.probe.Address(ctx)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
