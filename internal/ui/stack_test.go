package ui

import "testing"

func TestStackPushPopTop(t *testing.T) {
	var s Stack
	if s.Pop() != nil || s.Top() != nil {
		t.Fatal("empty stack must return nil")
	}

	a := &Instance{ID: "a"}
	b := &Instance{ID: "b"}
	s.Push(a)
	s.Push(b)

	if got := s.Top(); got != b {
		t.Errorf("Top = %v, want b", got)
	}
	if got := s.Pop(); got != b {
		t.Errorf("Pop = %v, want b", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStackRemoveFromMiddle(t *testing.T) {
	var s Stack
	a, b, c := &Instance{ID: "a"}, &Instance{ID: "b"}, &Instance{ID: "c"}
	s.Push(a)
	s.Push(b)
	s.Push(c)

	if !s.Remove(b) {
		t.Fatal("Remove(b) = false")
	}
	if s.Remove(b) {
		t.Error("second Remove(b) = true")
	}
	items := s.Items()
	if len(items) != 2 || items[0] != a || items[1] != c {
		t.Errorf("Items = %v, want [a c]", items)
	}
	if s.Top() != c {
		t.Errorf("Top = %v, want c", s.Top())
	}
}
