package idgen

// Mix scrambles v with the splitmix64 finalizer so consecutive counter
// values do not look consecutive once encoded. It is a bijection on 64
// bits and is not a cryptographic primitive.
func Mix(v uint64) uint64 {
	v += 0x9e3779b97f4a7c15
	v = (v ^ v>>30) * 0xbf58476d1ce4e5b9
	v = (v ^ v>>27) * 0x94d049bb133111eb
	return v ^ v>>31
}
