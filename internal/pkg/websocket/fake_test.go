package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/piresc/intranet-notify/internal/pkg/models"
)

var errBrokenPipe = errors.New("write: broken pipe")

// fakeTransport records writes and can be told to fail them
type fakeTransport struct {
	mu       sync.Mutex
	written  [][]byte
	writeErr error
	closed   bool
	onWrite  func()
}

func (f *fakeTransport) ReadMessage() (int, []byte, error) {
	return 0, nil, errors.New("not readable")
}

func (f *fakeTransport) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, append([]byte(nil), data...))
	if f.onWrite != nil {
		f.onWrite()
	}
	return nil
}

func (f *fakeTransport) WriteControl(int, []byte, time.Time) error { return nil }
func (f *fakeTransport) SetReadDeadline(time.Time) error           { return nil }
func (f *fakeTransport) SetWriteDeadline(time.Time) error          { return nil }
func (f *fakeTransport) SetReadLimit(int64)                        {}
func (f *fakeTransport) SetPongHandler(func(string) error)         {}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeTransport) messages() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.written...)
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func newFakeClient(identity models.Identity) (*Client, *fakeTransport) {
	tr := &fakeTransport{}
	return NewClient(tr, identity), tr
}

// Identities shared by the routing scenarios
var (
	identityU1 = models.Identity{UserID: "U1", Role: models.RoleStaff, Branch: "HQE", EmploymentType: models.EmploymentTypes{"TD"}}
	identityU2 = models.Identity{UserID: "U2", Role: models.RoleStaff, Branch: "HQIA", EmploymentType: models.EmploymentTypes{"TD"}}
	identityU3 = models.Identity{UserID: "U3", Role: models.RoleAdmin}
)
