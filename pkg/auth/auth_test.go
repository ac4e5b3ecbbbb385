package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Authorize(t *testing.T) {
	gate := NewGate("s3cret")

	tests := []struct {
		name     string
		supplied string
		want     error
	}{
		{"exact match", "s3cret", nil},
		{"empty", "", ErrMissingCredential},
		{"prefix", "s3cre", ErrInvalidCredential},
		{"longer", "s3cret!", ErrInvalidCredential},
		{"case differs", "S3CRET", ErrInvalidCredential},
		{"whitespace", " s3cret", ErrInvalidCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, gate.Check(tt.supplied), tt.want)
			assert.Equal(t, tt.want == nil, gate.Authorize(tt.supplied))
		})
	}
}

func TestGate_EmptySecretRejectsEverything(t *testing.T) {
	gate := NewGate("")
	assert.False(t, gate.Configured())
	assert.False(t, gate.Authorize(""))
	assert.False(t, gate.Authorize("anything"))
	assert.ErrorIs(t, gate.Check(""), ErrNotConfigured)
}

func TestGate_Nil(t *testing.T) {
	var gate *Gate
	assert.False(t, gate.Configured())
	assert.False(t, gate.Authorize("x"))
}

func TestGate_Concurrent(t *testing.T) {
	gate := NewGate("k")
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				assert.True(t, gate.Authorize("k"))
			} else {
				assert.False(t, gate.Authorize("nope"))
			}
		}(i)
	}
	wg.Wait()
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret(32)
	require.NoError(t, err)
	b, err := GenerateSecret(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.True(t, NewGate(a).Authorize(a))

	_, err = GenerateSecret(0)
	assert.Error(t, err)
}
