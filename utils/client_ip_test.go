package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		realIP       string
		remote       string
		want         string
	}{
		{name: "first forwarded entry", forwardedFor: "10.0.0.1, 10.0.0.2", realIP: "10.0.0.9", remote: "127.0.0.1", want: "10.0.0.1"},
		{name: "single forwarded", forwardedFor: "192.168.1.5", remote: "127.0.0.1", want: "192.168.1.5"},
		{name: "real ip", realIP: " 10.0.0.9 ", remote: "127.0.0.1", want: "10.0.0.9"},
		{name: "blank forwarded falls through", forwardedFor: " , 10.0.0.2", realIP: "10.0.0.9", remote: "127.0.0.1", want: "10.0.0.9"},
		{name: "socket", remote: "127.0.0.1", want: "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClientIP(tt.forwardedFor, tt.realIP, tt.remote))
		})
	}
}
