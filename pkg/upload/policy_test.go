package upload

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/marmos91/filegate/internal/bytesize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestCheckType(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name, file, ct string
		want           error
	}{
		{"png", "a.png", "image/png", nil},
		{"upper ext", "A.PNG", "image/png", nil},
		{"jpeg", "x.jpg", "image/jpeg", nil},
		{"gif with params", "x.gif", "image/gif; charset=binary", nil},
		{"upper ct", "x.gif", "IMAGE/GIF", nil},
		{"text with png ext", "a.png", "text/plain", ErrInvalidType},
		{"png ct with txt ext", "a.txt", "image/png", ErrInvalidType},
		{"jpeg long ext", "a.jpeg", "image/jpeg", ErrInvalidType},
		{"no ext", "png", "image/png", ErrInvalidType},
		{"empty ct", "a.png", "", ErrInvalidType},
		{"garbage ct", "a.png", ";;;", ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CheckType(tt.file, tt.ct)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestCheckSize(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, int64(10*1024*1024), p.MaxSize())
	assert.NoError(t, p.CheckSize(0))
	assert.NoError(t, p.CheckSize(10*1024*1024))
	assert.ErrorIs(t, p.CheckSize(10*1024*1024+1), ErrTooLarge)
}

func TestValidate_TypeCheckedFirst(t *testing.T) {
	p := DefaultPolicy()
	assert.ErrorIs(t, p.Validate("a.png", "text/plain", 1<<40), ErrInvalidType)
	assert.ErrorIs(t, p.Validate("a.png", "image/png", 1<<40), ErrTooLarge)
	assert.NoError(t, p.Validate("a.png", "image/png", 500))
}

func TestReasonsAreClientStrings(t *testing.T) {
	assert.Equal(t, "invalid file type", ErrInvalidType.Error())
	assert.Equal(t, "file too large", ErrTooLarge.Error())
}

func TestNewPolicy_NormalizesLists(t *testing.T) {
	p := NewPolicy(Config{
		AllowedExtensions:   []string{"PDF", " .Txt "},
		AllowedContentTypes: []string{"Application/PDF", "text/plain"},
		MaxSize:             bytesize.KiB,
	})
	assert.NoError(t, p.CheckType("doc.pdf", "application/pdf"))
	assert.NoError(t, p.CheckType("notes.TXT", "text/plain; charset=utf-8"))
	assert.ErrorIs(t, p.CheckType("a.png", "image/png"), ErrInvalidType)
	assert.Equal(t, int64(1024), p.MaxSize())
}

func TestLimit(t *testing.T) {
	p := NewPolicy(Config{MaxSize: 10})

	t.Run("exactly at ceiling", func(t *testing.T) {
		var out bytes.Buffer
		n, err := io.Copy(&out, p.Limit(strings.NewReader("0123456789")))
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)
	})

	t.Run("one byte over", func(t *testing.T) {
		var out bytes.Buffer
		_, err := io.Copy(&out, p.Limit(strings.NewReader("0123456789A")))
		assert.ErrorIs(t, err, ErrTooLarge)
		assert.LessOrEqual(t, out.Len(), 10)
	})

	t.Run("small reads", func(t *testing.T) {
		r := p.Limit(strings.NewReader(strings.Repeat("x", 25)))
		buf := make([]byte, 3)
		var total int
		var err error
		for err == nil {
			var n int
			n, err = r.Read(buf)
			total += n
		}
		assert.ErrorIs(t, err, ErrTooLarge)
		assert.Equal(t, 10, total)
	})
}

func TestSniff(t *testing.T) {
	t.Run("disabled passes through", func(t *testing.T) {
		p := DefaultPolicy()
		src := strings.NewReader("not an image")
		r, err := p.Sniff(src)
		require.NoError(t, err)
		assert.Same(t, src, r)
	})

	t.Run("png accepted and replayed", func(t *testing.T) {
		p := NewPolicy(Config{VerifyContent: true})
		payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0xAB}, 5000)...)

		r, err := p.Sniff(bytes.NewReader(payload))
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("text rejected", func(t *testing.T) {
		p := NewPolicy(Config{VerifyContent: true})
		_, err := p.Sniff(strings.NewReader("hello, world"))
		assert.ErrorIs(t, err, ErrInvalidType)
	})
}
