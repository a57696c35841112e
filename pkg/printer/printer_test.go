package printer

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("", "", "")
	require.NoError(t, err)
	assert.Equal(t, TypeNone, p.Type())

	_, err = NewPrinterFromConfig(TypeUSB, "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig(TypeNetwork, "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)
}

func TestUSBPrinter_WritesDeviceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	p := NewUSBPrinter(path)
	assert.True(t, p.IsConnected())
	require.NoError(t, p.Print(context.Background(), []byte("receipt")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "receipt", string(data))
}

func TestNetworkPrinter(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- string(data)
	}()

	p := NewNetworkPrinter(ln.Addr().String())
	require.NoError(t, p.Print(context.Background(), []byte("job")))
	assert.Equal(t, "job", <-received)
}

func TestMemoryPrinter(t *testing.T) {
	p := NewMemoryPrinter()
	require.NoError(t, p.Print(context.Background(), []byte("a")))
	require.NoError(t, p.Print(context.Background(), []byte("b")))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, p.Jobs())
}
