package utils

import (
	"net"
	"regexp"
	"strconv"
)

var dbConnStringRegex = regexp.MustCompile(`^postgres(ql)?://[^:]+:[^@]+@[^:/]+(:\d+)?/.+$`)

// IsValidDBConnectionString checks if a string is a valid PostgreSQL connection URL.
func IsValidDBConnectionString(s string) bool {
	return dbConnStringRegex.MatchString(s)
}

// IsValidListenAddr checks if a string is a "host:port" address a server can listen on.
// The host may be empty, e.g. ":9090".
func IsValidListenAddr(s string) bool {
	_, port, err := net.SplitHostPort(s)
	if err != nil {
		return false
	}
	p, err := strconv.Atoi(port)
	return err == nil && p > 0 && p <= 65535
}
