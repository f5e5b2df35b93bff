package led

import "math"

// Limiter keeps a frame inside the power supply's means. It works on RGB
// byte triplets right before they are clocked out.
//
//   - WhiteCap scales a pixel so r+g+b <= WhiteCap*3*255 (0 or >=1 disables)
//   - BudgetmA scales the whole frame so the estimate stays under budget (0 disables)
//   - Knee is the fraction of the budget where soft limiting begins (default 0.9)
//   - ChanmA is the draw of one channel at full scale (WS2812 ~20mA)
type Limiter struct {
	WhiteCap float64
	BudgetmA float64
	Knee     float64
	ChanmA   float64
}

// EstimateCurrent returns the estimated draw of rgb in mA.
func EstimateCurrent(rgb []byte, chanmA float64) float64 {
	if chanmA <= 0 {
		chanmA = 20
	}
	var sum float64
	for _, v := range rgb {
		sum += float64(v)
	}
	return sum / 255.0 * chanmA
}

func (l Limiter) Apply(rgb []byte) {
	if l.WhiteCap > 0 && l.WhiteCap < 1 {
		limit := l.WhiteCap * 3.0 * 255.0
		for i := 0; i+2 < len(rgb); i += 3 {
			s := float64(rgb[i]) + float64(rgb[i+1]) + float64(rgb[i+2])
			if s > limit {
				scaleRGB(rgb[i:i+3], limit/s)
			}
		}
	}

	if l.BudgetmA <= 0 {
		return
	}
	total := EstimateCurrent(rgb, l.ChanmA)
	if total <= 0 {
		return
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = .9
	}

	ratio := total / l.BudgetmA
	switch {
	case ratio <= knee:
		return
	case ratio <= 1:
		// map ratio in [knee,1] to a scale in [1, budget/total]
		minS := l.BudgetmA / total
		t := (ratio - knee) / (1 - knee)
		scaleRGB(rgb, 1-t*(1-minS))
	default:
		scaleRGB(rgb, l.BudgetmA/total)
	}
}

// scaleRGB rounds down so a capped frame never lands above its cap.
func scaleRGB(rgb []byte, s float64) {
	if s >= 1 {
		return
	}
	for i := range rgb {
		rgb[i] = byte(math.Floor(float64(rgb[i]) * s))
	}
}

// scaleBrightness dims one channel the way NeoPixel firmware does:
// brightness 255 is identity, 0 is nearly off.
func scaleBrightness(c, brightness uint8) uint8 {
	return uint8((uint16(c) * (uint16(brightness) + 1)) >> 8)
}
