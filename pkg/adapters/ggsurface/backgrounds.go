package ggsurface

import "image/color"

// Backgrounds is the pool instance backgrounds are picked from.
var Backgrounds = []color.RGBA{
	{0xd1, 0x11, 0x41, 0xff},
	{0x00, 0xb1, 0x59, 0xff},
	{0x00, 0xae, 0xdb, 0xff},
	{0xf3, 0x77, 0x35, 0xff},
	{0xff, 0xc4, 0x25, 0xff},
	{0xe5, 0xe6, 0xeb, 0xff},
	{0xe9, 0x72, 0x4c, 0xff},
	{0xff, 0xc8, 0x57, 0xff},
	{0xc5, 0x28, 0x3d, 0xff},
	{0x7a, 0xc7, 0x4f, 0xff},
	{0x56, 0xe3, 0x9f, 0xff},
	{0x55, 0xdd, 0xe0, 0xff},
	{0xf4, 0x00, 0x76, 0xff},
	{0xeb, 0xa6, 0xa9, 0xff},
	{0xbc, 0xaa, 0x99, 0xff},
	{0x9e, 0x3a, 0xe0, 0xff},
	{0xf7, 0x25, 0x85, 0xff},
	{0x4c, 0xc9, 0xf0, 0xff},
}

// Background returns the pool colour for the n-th instance.
func Background(n int) color.RGBA {
	if n < 0 {
		n = -n
	}
	return Backgrounds[n%len(Backgrounds)]
}
