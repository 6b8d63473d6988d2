package ui

// Stack is the ordered sequence of instances in the stack-participating
// Normal layer. Supports append, pop, and remove-from-middle so bring-to-
// front never reallocates surrounding order.
type Stack struct {
	items []*Instance
}

// Push appends inst to the top of the stack.
func (s *Stack) Push(inst *Instance) {
	s.items = append(s.items, inst)
}

// Pop removes and returns the top instance, or nil on an empty stack.
func (s *Stack) Pop() *Instance {
	if len(s.items) == 0 {
		return nil
	}
	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top
}

// Top returns the top instance without removing it, or nil when empty.
func (s *Stack) Top() *Instance {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

// Remove deletes inst from anywhere in the stack, preserving the order of
// the rest. Returns true if inst was present.
func (s *Stack) Remove(inst *Instance) bool {
	for i, it := range s.items {
		if it == inst {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of stacked instances.
func (s *Stack) Len() int {
	return len(s.items)
}

// Items returns a copy of the stack, bottom first.
func (s *Stack) Items() []*Instance {
	if len(s.items) == 0 {
		return nil
	}
	out := make([]*Instance, len(s.items))
	copy(out, s.items)
	return out
}
