package indicator

// RSI is the relative strength index of close-to-close moves with Wilder
// smoothing. It needs period+1 closes, since the first one only sets the
// reference price.
type RSI struct {
	period  int
	seen    int
	last    float64
	avgUp   float64
	avgDown float64
	current float64
}

// NewRSI returns an RSI over period moves.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Update(close float64) {
	r.seen++
	if r.seen == 1 {
		r.last = close
		return
	}

	up, down := 0.0, 0.0
	if d := close - r.last; d > 0 {
		up = d
	} else {
		down = -d
	}
	r.last = close

	if r.seen <= r.period+1 {
		r.avgUp += up
		r.avgDown += down
		if r.seen == r.period+1 {
			r.avgUp /= float64(r.period)
			r.avgDown /= float64(r.period)
			r.current = rsiValue(r.avgUp, r.avgDown)
		}
		return
	}

	p := float64(r.period)
	r.avgUp = (r.avgUp*(p-1) + up) / p
	r.avgDown = (r.avgDown*(p-1) + down) / p
	r.current = rsiValue(r.avgUp, r.avgDown)
}

func (r *RSI) Value() float64 { return r.current }
func (r *RSI) Ready() bool    { return r.seen > r.period }

// rsiValue is 100 when there were no down moves.
func rsiValue(avgUp, avgDown float64) float64 {
	if avgDown == 0 {
		return 100.0
	}
	return 100.0 - 100.0/(1.0+avgUp/avgDown)
}
