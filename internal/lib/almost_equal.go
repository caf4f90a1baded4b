package lib

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

func AlmostEqual[T Number](a, b T, tolerance float64) bool {
	return float64(Abs(a-b))/float64(a) < tolerance
}

func Abs[T Number](a T) T {
	if a < 0 {
		return -a
	}
	return a
}
