package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("wipes every buffer", func(t *testing.T) {
		key := bytes.Repeat([]byte{0xAB}, KeySize)
		passphrase := []byte("hunter2")

		Zero(key, passphrase)

		assert.Equal(t, make([]byte, KeySize), key)
		assert.Equal(t, make([]byte, len(passphrase)), passphrase)
	})

	t.Run("keeps length", func(t *testing.T) {
		payload := []byte("top secret")
		Zero(payload)
		assert.Len(t, payload, 10)
	})

	t.Run("tolerates nil and empty", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Zero()
			Zero(nil, []byte{})
		})
	})

	t.Run("wipes through sub-slices", func(t *testing.T) {
		buf := []byte("nonce||ciphertext")
		Zero(buf[7:])
		assert.Equal(t, []byte("nonce||"), buf[:7])
		assert.Equal(t, make([]byte, len(buf)-7), buf[7:])
	})
}
