package indicator

// EMA weights recent closes by 2/(period+1). Its first value is the plain
// mean of the first period closes.
type EMA struct {
	period  int
	k       float64
	seen    int
	seedSum float64
	current float64
}

// NewEMA returns an EMA over period closes.
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		k:      2.0 / float64(period+1),
	}
}

func (e *EMA) Update(close float64) {
	e.seen++
	if e.seen <= e.period {
		e.seedSum += close
		if e.seen == e.period {
			e.current = e.seedSum / float64(e.period)
		}
		return
	}
	e.current += e.k * (close - e.current)
}

func (e *EMA) Value() float64 { return e.current }
func (e *EMA) Ready() bool    { return e.seen >= e.period }
