package indicator

// SMA is the mean of the last period closes. The window lives in a ring
// sized at construction, so Update never allocates.
type SMA struct {
	period  int
	window  []float64
	next    int // slot the next close overwrites
	seen    int
	sum     float64
	current float64
}

// NewSMA returns an SMA over period closes.
func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		window: make([]float64, period),
	}
}

func (s *SMA) Update(close float64) {
	if s.seen >= s.period {
		s.sum -= s.window[s.next] // oldest close leaves the window
	}
	s.window[s.next] = close
	s.sum += close
	s.next = (s.next + 1) % s.period
	s.seen++

	if s.seen >= s.period {
		s.current = s.sum / float64(s.period)
	}
}

func (s *SMA) Value() float64 { return s.current }
func (s *SMA) Ready() bool    { return s.seen >= s.period }
