package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	activateCommand = "activate"
	dialTimeout     = 500 * time.Millisecond
)

// InstanceGuard holds the single-instance lock. Later launches connect to it
// and ask the running instance to bring its window forward.
type InstanceGuard struct {
	listener net.Listener
	address  string
	logger   *zap.Logger
}

// AcquireSingleInstance binds a deterministic localhost port. When the port
// is taken the running instance is asked to activate and ErrAlreadyRunning
// is returned.
func AcquireSingleInstance(appName string, logger *zap.Logger) (*InstanceGuard, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	address := fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if notifyErr := notifyRunning(address); notifyErr != nil {
			logger.Debug("notify running instance", zap.Error(notifyErr))
		}
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address, logger: logger.Named("instance")}, nil
}

// Serve accepts activation requests until Release and calls onActivate for
// each one.
func (guard *InstanceGuard) Serve(onActivate func()) {
	go func() {
		for {
			conn, err := guard.listener.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					guard.logger.Warn("accept activation", zap.Error(err))
				}
				return
			}
			if guard.readCommand(conn) == activateCommand && onActivate != nil {
				onActivate()
			}
		}
	}()
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) readCommand(conn net.Conn) string {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(dialTimeout))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		guard.logger.Debug("read activation", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(line)
}

func notifyRunning(address string) error {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial running instance: %w", err)
	}
	defer conn.Close()
	if _, err := fmt.Fprintln(conn, activateCommand); err != nil {
		return fmt.Errorf("send activation: %w", err)
	}
	return nil
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
