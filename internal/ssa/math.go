package ssa

import "math"

// avogadro is Avogadro's number, used to rescale macroscopic rate
// constants into the mesoscopic (per-count) regime.
const avogadro = 6.02214076e23

func pow(x, y float64) float64 { return math.Pow(x, y) }

// compCcstVol computes the mesoscopic rate constant for a volume
// reaction: c = k * (1000*V*N_A)^-(order-1), per spec.md §4.2.1.
func compCcstVol(kcst, vol float64, order int) float64 {
	vscale := 1000.0 * vol * avogadro
	o1 := float64(order - 1)
	return kcst * pow(vscale, -o1)
}

// compCcstArea computes the mesoscopic rate constant for a surface-surface
// reaction: c = k * (area*N_A)^-(order-1), per spec.md §4.2.2.
func compCcstArea(kcst, area float64, order int) float64 {
	ascale := area * avogadro
	o1 := float64(order - 1)
	return kcst * pow(ascale, -o1)
}

// fallingFactorial computes cnt*(cnt-1)*...*(cnt-lhs+1) for lhs in
// [0,4], returning 0 whenever cnt < lhs. lhs == 0 contributes a factor
// of 1 (species not involved in the reaction). It never returns NaN
// (spec.md §4.2, §7): lhs > 4 is rejected by ValidateModelConfig before
// any Reac/SReac is built, so reaching it here is an invariant breach,
// not a data error a propensity computation can recover from or report
// through its float64 return.
func fallingFactorial(cnt uint32, lhs int) float64 {
	switch lhs {
	case 0:
		return 1
	case 1:
		return float64(cnt)
	case 2:
		if cnt < 2 {
			return 0
		}
		return float64(cnt) * float64(cnt-1)
	case 3:
		if cnt < 3 {
			return 0
		}
		return float64(cnt) * float64(cnt-1) * float64(cnt-2)
	case 4:
		if cnt < 4 {
			return 0
		}
		return float64(cnt) * float64(cnt-1) * float64(cnt-2) * float64(cnt-3)
	default:
		panic(newInternal("falling factorial: lhs multiplicity %d exceeds the supported maximum of 4", lhs))
	}
}
