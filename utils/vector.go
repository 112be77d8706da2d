package utils

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

func VecConcat(v1, v2 []float64) (r []float64) {
	r = make([]float64, len(v1)+len(v2))
	copy(r, v1)
	copy(r[len(v1):], v2)
	return
}

func NewRange(N int) (r []int) {
	r = make([]int, N)
	for i := range r {
		r[i] = i
	}
	return
}
