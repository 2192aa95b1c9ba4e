package readiness

import (
	"context"
	"net"
	"time"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/wait"
)

var logger = capnslog.NewPackageLogger("github.com/opencurve/shard-launcher", "readiness")

// Check reports whether the service at addr accepts connections.
type Check func(ctx context.Context, addr string) error

// WaitForTCP polls addr until a TCP connection succeeds or timeout elapses.
func WaitForTCP(ctx context.Context, addr string, interval, timeout time.Duration) error {
	var lastErr error
	err := wait.PollImmediateWithContext(ctx, interval, timeout, func(ctx context.Context) (bool, error) {
		dialer := net.Dialer{Timeout: interval}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			logger.Debugf("%s not reachable yet: %v", addr, err)
			return false, nil
		}
		conn.Close()
		return true, nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrapf(ctxErr, "stopped waiting for %s", addr)
		}
		if lastErr != nil {
			return errors.Wrapf(lastErr, "%s not reachable after %s", addr, timeout)
		}
		return errors.Wrapf(err, "%s not reachable after %s", addr, timeout)
	}

	logger.Infof("%s is accepting connections", addr)
	return nil
}

// TCPCheck returns a Check that waits for addr with WaitForTCP.
func TCPCheck(interval, timeout time.Duration) Check {
	return func(ctx context.Context, addr string) error {
		return WaitForTCP(ctx, addr, interval, timeout)
	}
}
