package gamestate

import "gonum.org/v1/gonum/spatial/r3"

// BoostPadCount is the number of boost pads on the standard field.
const BoostPadCount = 34

// Respawn delays in seconds.
const (
	BigPadRespawn   = 10.0
	SmallPadRespawn = 4.0
)

// BoostPad is a fixed pickup location.
type BoostPad struct {
	Pos r3.Vec
	Big bool
}

// BoostPadLocations lists the pads ordered by Y then X. The table is
// point-symmetric, so pad i mirrors onto pad MirrorPadIndex(i).
var BoostPadLocations = [BoostPadCount]BoostPad{
	{r3.Vec{X: 0, Y: -4240, Z: 70}, false},
	{r3.Vec{X: -1792, Y: -4184, Z: 70}, false},
	{r3.Vec{X: 1792, Y: -4184, Z: 70}, false},
	{r3.Vec{X: -3072, Y: -4096, Z: 73}, true},
	{r3.Vec{X: 3072, Y: -4096, Z: 73}, true},
	{r3.Vec{X: -940, Y: -3308, Z: 70}, false},
	{r3.Vec{X: 940, Y: -3308, Z: 70}, false},
	{r3.Vec{X: 0, Y: -2816, Z: 70}, false},
	{r3.Vec{X: -3584, Y: -2484, Z: 70}, false},
	{r3.Vec{X: 3584, Y: -2484, Z: 70}, false},
	{r3.Vec{X: -1788, Y: -2300, Z: 70}, false},
	{r3.Vec{X: 1788, Y: -2300, Z: 70}, false},
	{r3.Vec{X: -2048, Y: -1036, Z: 70}, false},
	{r3.Vec{X: 0, Y: -1024, Z: 70}, false},
	{r3.Vec{X: 2048, Y: -1036, Z: 70}, false},
	{r3.Vec{X: -3584, Y: 0, Z: 73}, true},
	{r3.Vec{X: -1024, Y: 0, Z: 70}, false},
	{r3.Vec{X: 1024, Y: 0, Z: 70}, false},
	{r3.Vec{X: 3584, Y: 0, Z: 73}, true},
	{r3.Vec{X: -2048, Y: 1036, Z: 70}, false},
	{r3.Vec{X: 0, Y: 1024, Z: 70}, false},
	{r3.Vec{X: 2048, Y: 1036, Z: 70}, false},
	{r3.Vec{X: -1788, Y: 2300, Z: 70}, false},
	{r3.Vec{X: 1788, Y: 2300, Z: 70}, false},
	{r3.Vec{X: -3584, Y: 2484, Z: 70}, false},
	{r3.Vec{X: 3584, Y: 2484, Z: 70}, false},
	{r3.Vec{X: 0, Y: 2816, Z: 70}, false},
	{r3.Vec{X: -940, Y: 3308, Z: 70}, false},
	{r3.Vec{X: 940, Y: 3308, Z: 70}, false},
	{r3.Vec{X: -3072, Y: 4096, Z: 73}, true},
	{r3.Vec{X: 3072, Y: 4096, Z: 73}, true},
	{r3.Vec{X: -1792, Y: 4184, Z: 70}, false},
	{r3.Vec{X: 1792, Y: 4184, Z: 70}, false},
	{r3.Vec{X: 0, Y: 4240, Z: 70}, false},
}

// MirrorPadIndex maps a pad index to the index of the same pad seen from the
// other side of the field.
func MirrorPadIndex(i int) int {
	return BoostPadCount - 1 - i
}

// RespawnDelay returns the seconds a pad stays unavailable after pickup.
func (p BoostPad) RespawnDelay() float32 {
	if p.Big {
		return BigPadRespawn
	}
	return SmallPadRespawn
}
