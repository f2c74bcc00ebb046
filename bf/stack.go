package bf

type loopStack struct {
	offsets []int
	limit   int
}

func newLoopStack(limit int) *loopStack {
	return &loopStack{
		offsets: make([]int, 0, min(limit, 16)),
		limit:   limit,
	}
}

func (l *loopStack) push(offset int) bool {
	if len(l.offsets) >= l.limit {
		return false
	}
	l.offsets = append(l.offsets, offset)
	return true
}

func (l *loopStack) top() (int, bool) {
	if len(l.offsets) == 0 {
		return 0, false
	}
	return l.offsets[len(l.offsets)-1], true
}

// resume returns the opener offset to loop back to from the terminator at ip.
func (l *loopStack) resume(text []byte, ip int) (int, bool) {
	start, ok := l.top()
	if !ok || start < 0 || start >= ip || ip > len(text) || text[start] != loopOpen {
		return 0, false
	}
	return start, true
}

func (l *loopStack) pop() {
	if len(l.offsets) > 0 {
		l.offsets = l.offsets[:len(l.offsets)-1]
	}
}

func (l *loopStack) depth() int {
	return len(l.offsets)
}
