package utils

import (
	"fmt"
	"net"
	"time"
)

// PingTCP checks that something accepts connections on host:port
func PingTCP(host, port string, timeout time.Duration) error {
	if host == "" {
		host = "127.0.0.1"
	}
	address := net.JoinHostPort(host, port)

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}

// PingServer checks the local API port
func PingServer(port string) error {
	return PingTCP("", port, 1500*time.Millisecond)
}
