// Package drivers pkg/drivers/ping.go
package drivers

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/carverauto/fleetmon/pkg/models"
)

const (
	defaultPingCount = 3
	maxPacketSize    = 1500
	protocolICMP     = 1
)

// ICMPPinger sends ICMP echo probes over an unprivileged datagram socket.
type ICMPPinger struct{}

// Ping sends count echo requests and reports success, average latency, and
// packet loss. A probe that gets no reply within the timeout counts as lost;
// the ping as a whole succeeds if any probe was answered.
func (ICMPPinger) Ping(ctx context.Context, host string, count int, timeout time.Duration) models.PingResult {
	if count <= 0 {
		count = defaultPingCount
	}

	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	ip, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		return models.PingResult{PacketLoss: 100, Error: fmt.Sprintf("resolve %s: %v", host, err)}
	}

	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err != nil {
		return models.PingResult{PacketLoss: 100, Error: fmt.Sprintf("icmp listen: %v", err)}
	}

	defer func() {
		if err := conn.Close(); err != nil {
			// nothing useful to do at this point
			_ = err
		}
	}()

	dst := &net.UDPAddr{IP: ip.IP}
	id := os.Getpid() & 0xffff

	var (
		received  int
		totalTime time.Duration
	)

	buf := make([]byte, maxPacketSize)

	for seq := 0; seq < count; seq++ {
		select {
		case <-ctx.Done():
			return models.PingResult{PacketLoss: 100, Error: ctx.Err().Error()}
		default:
		}

		msg := icmp.Message{
			Type: ipv4.ICMPTypeEcho,
			Body: &icmp.Echo{ID: id, Seq: seq, Data: []byte("fleetmon")},
		}

		wire, err := msg.Marshal(nil)
		if err != nil {
			continue
		}

		sent := time.Now()

		if _, err := conn.WriteTo(wire, dst); err != nil {
			continue
		}

		if rtt, ok := awaitReply(conn, buf, seq, sent, timeout); ok {
			received++
			totalTime += rtt
		}
	}

	result := models.PingResult{
		Success:    received > 0,
		PacketLoss: 100 * float64(count-received) / float64(count),
	}

	if received > 0 {
		avg := totalTime / time.Duration(received)
		result.RespTime = avg
		result.LatencyMs = float64(avg.Microseconds()) / 1000
	} else {
		result.Error = fmt.Sprintf("no reply from %s after %d probes", host, count)
	}

	return result
}

// awaitReply reads until the echo reply for seq arrives or the deadline hits.
func awaitReply(conn *icmp.PacketConn, buf []byte, seq int, sent time.Time, timeout time.Duration) (time.Duration, bool) {
	deadline := sent.Add(timeout)

	if err := conn.SetReadDeadline(deadline); err != nil {
		return 0, false
	}

	for time.Now().Before(deadline) {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return 0, false
		}

		msg, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}

		if msg.Type != ipv4.ICMPTypeEchoReply {
			continue
		}

		echo, ok := msg.Body.(*icmp.Echo)
		if !ok || echo.Seq != seq {
			continue
		}

		return time.Since(sent), true
	}

	return 0, false
}
