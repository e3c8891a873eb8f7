package i2c

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	I2C_SLAVE = 0x0703
)

// I2C is one slave address on a /dev/i2c-N bus. A simulated device writes a
// hex trace to Trace instead of touching the bus.
type I2C struct {
	mu      sync.Mutex
	fd      *os.File
	address uint8
	sim     bool
	Trace   io.Writer
}

// Open a connection to the i2c device.
func Open(address uint8, bus int, simulated bool) (*I2C, error) {
	if simulated {
		return &I2C{sim: true, address: address, Trace: os.Stdout}, nil
	}

	f, err := os.OpenFile(fmt.Sprintf("/dev/i2c-%d", bus), os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	if err := unix.IoctlSetInt(int(f.Fd()), I2C_SLAVE, int(address)); err != nil {
		f.Close()
		return nil, fmt.Errorf("i2c select 0x%02x: %w", address, err)
	}
	return &I2C{fd: f, address: address}, nil
}

func (d *I2C) Address() uint8 {
	return d.address
}

func (d *I2C) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sim {
		_, err := fmt.Fprintf(d.Trace, "Close: 0x%02x\n", d.address)
		return err
	}
	return d.fd.Close()
}

// WriteByte writes a command-style byte.
func (d *I2C) WriteByte(single byte) error {
	_, err := d.Write([]byte{single})
	return err
}

// Write selects the slave and writes buf in one locked step, so two writers
// never interleave on the bus.
func (d *I2C) Write(buf []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sim {
		return len(buf), d.trace(buf)
	}
	if err := unix.IoctlSetInt(int(d.fd.Fd()), I2C_SLAVE, int(d.address)); err != nil {
		return 0, err
	}
	return d.fd.Write(buf)
}

func (d *I2C) trace(buf []byte) error {
	line := fmt.Sprintf("Write 0x%02x:", d.address)
	for _, b := range buf {
		line += fmt.Sprintf(" %02x", b)
	}
	_, err := fmt.Fprintln(d.Trace, line)
	return err
}
