package metrics

// WindowSize is the number of samples each rolling window keeps.
const WindowSize = 100

// #region window
// Window is a fixed-capacity FIFO of samples. Pushing past capacity evicts
// the oldest sample. Not safe for concurrent use on its own.
type Window struct {
	buf   []float64
	start int
	n     int
}

// NewWindow returns a window holding at most capacity samples.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{buf: make([]float64, capacity)}
}

func (w *Window) Push(v float64) {
	if w.n < len(w.buf) {
		w.buf[(w.start+w.n)%len(w.buf)] = v
		w.n++
		return
	}
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
}

func (w *Window) Len() int { return w.n }

// Values returns samples oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, w.n)
	for i := 0; i < w.n; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}

// #endregion window

// #region summary
// Summary reduces a window to avg/min/max. Zero value when empty.
type Summary struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (w *Window) Summary() Summary {
	if w.n == 0 {
		return Summary{}
	}
	vals := w.Values()
	s := Summary{Min: vals[0], Max: vals[0]}
	var sum float64
	for _, v := range vals {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Avg = sum / float64(len(vals))
	return s
}

// #endregion summary
