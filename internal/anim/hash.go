package anim

// Multipliers spreading the LED index over the timestamp. They are primes so
// that neighbouring LEDs land in different classes.
const (
	primaryMul = 7919
	paletteMul = 1234
	dimMul     = 13331
)

// hashClass derives a cheap pseudo-random class in [0, mod) from a timestamp
// and an LED index. The same inputs always give the same class.
func hashClass(now uint64, i int, mul, mod uint64) uint64 {
	return (now + uint64(i)*mul) % mod
}
