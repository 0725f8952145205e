package clipboard

import "testing"

func TestMemory(t *testing.T) {
	var m Memory
	if _, ok := m.Read(); ok {
		t.Fatalf("empty clipboard reported content")
	}
	m.Write("")
	if s, ok := m.Read(); !ok || s != "" {
		t.Fatalf("Read = %q, %v; want empty, true", s, ok)
	}
	m.Write("line\r\n")
	if s, _ := m.Read(); s != "line\r\n" {
		t.Fatalf("Read = %q, want %q", s, "line\r\n")
	}
}

func TestSystemRoundTrip(t *testing.T) {
	c := NewSystem()
	c.Write("qpad clipboard test")
	if s, ok := c.Read(); !ok || s != "qpad clipboard test" {
		t.Fatalf("Read = %q, %v", s, ok)
	}
}

var (
	_ Clipboard = (*Memory)(nil)
	_ Clipboard = (*System)(nil)
)
