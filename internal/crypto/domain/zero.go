package domain

// Zero overwrites every given buffer in place. Nil buffers are skipped.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
