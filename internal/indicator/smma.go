package indicator

// SMMA is Wilder's running average: seeded like SMA, then each close moves
// the value by 1/period of its distance.
type SMMA struct {
	period  int
	seen    int
	seedSum float64
	current float64
}

// NewSMMA returns an SMMA over period closes.
func NewSMMA(period int) *SMMA {
	return &SMMA{period: period}
}

func (s *SMMA) Update(close float64) {
	s.seen++
	if s.seen <= s.period {
		s.seedSum += close
		if s.seen == s.period {
			s.current = s.seedSum / float64(s.period)
		}
		return
	}
	s.current = (s.current*float64(s.period-1) + close) / float64(s.period)
}

func (s *SMMA) Value() float64 { return s.current }
func (s *SMMA) Ready() bool    { return s.seen >= s.period }
