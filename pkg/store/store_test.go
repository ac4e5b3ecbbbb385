package store

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeerrors "github.com/marmos91/filegate/pkg/store/errors"
	"github.com/marmos91/filegate/pkg/upload"
)

// recordingMetrics collects observations for assertions.
type recordingMetrics struct {
	mu         sync.Mutex
	ops        map[string][]error
	bytes      map[string]int64
	rejections []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{ops: map[string][]error{}, bytes: map[string]int64{}}
}

func (m *recordingMetrics) ObserveOperation(op string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[op] = append(m.ops[op], err)
}

func (m *recordingMetrics) RecordBytes(direction string, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bytes[direction] += n
}

func (m *recordingMetrics) RecordRejection(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections = append(m.rejections, reason)
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	return newTestStoreWith(t, nil, nil)
}

func newTestStoreWith(t *testing.T, policy *upload.Policy, metrics Metrics) (*Store, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "files")
	s, err := Open(Config{Root: root}, policy, metrics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, s.Root()
}

func randomPayload(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func put(t *testing.T, s *Store, folder, file string, payload []byte) FileInfo {
	t.Helper()
	info, err := s.PutFile(context.Background(), PutInput{
		Folder:      folder,
		File:        file,
		ContentType: "image/png",
		Size:        int64(len(payload)),
		Body:        bytes.NewReader(payload),
	})
	require.NoError(t, err)
	return info
}

func readAll(t *testing.T, s *Store, folder, file string) []byte {
	t.Helper()
	obj, err := s.GetFile(context.Background(), folder, file)
	require.NoError(t, err)
	defer func() { _ = obj.Close() }()
	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	return data
}

// rootEntries lists the raw directory contents, staging files included.
func rootEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestOpen(t *testing.T) {
	t.Run("creates missing root", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "a", "b")
		s, err := Open(Config{Root: root}, nil, nil)
		require.NoError(t, err)
		defer s.Close()

		info, err := os.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.True(t, filepath.IsAbs(s.Root()))
		assert.NoError(t, s.Healthcheck(context.Background()))
	})

	t.Run("empty root", func(t *testing.T) {
		_, err := Open(Config{}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("root is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		_, err := Open(Config{Root: path}, nil, nil)
		assert.Error(t, err)
	})
}

func TestScenario_PutStatGetDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	payload := randomPayload(t, 500)

	info := put(t, s, "photos", "a.png", payload)
	assert.Equal(t, "a.png", info.Name)
	assert.Equal(t, int64(500), info.Size)

	stat, err := s.StatFile(ctx, "photos", "a.png")
	require.NoError(t, err)
	assert.Equal(t, int64(500), stat.Size)
	assert.False(t, stat.ModTime.IsZero())
	assert.False(t, stat.CreatedAt.IsZero())

	obj, err := s.GetFile(ctx, "photos", "a.png")
	require.NoError(t, err)
	assert.Equal(t, CacheControl, obj.CacheControl)
	assert.Equal(t, int64(500), obj.Info.Size)
	got, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.NoError(t, obj.Close())
	assert.Equal(t, payload, got)

	require.NoError(t, s.DeleteFile(ctx, "photos", "a.png"))

	_, err = s.GetFile(ctx, "photos", "a.png")
	assert.True(t, storeerrors.IsNotFound(err), "got %v", err)
}

func TestPutThenGet_ByteEquality(t *testing.T) {
	s, _ := newTestStore(t)
	for _, size := range []int{0, 1, 4096, 1 << 20} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			payload := randomPayload(t, size)
			put(t, s, "bin", fmt.Sprintf("f%d.png", size), payload)
			assert.Equal(t, payload, readAll(t, s, "bin", fmt.Sprintf("f%d.png", size)))
		})
	}
}

func TestPutFile_Overwrites(t *testing.T) {
	s, _ := newTestStore(t)
	put(t, s, "photos", "a.png", []byte("first"))
	put(t, s, "photos", "a.png", []byte("second"))
	assert.Equal(t, []byte("second"), readAll(t, s, "photos", "a.png"))
}

func TestPutFile_SanitizesName(t *testing.T) {
	s, root := newTestStore(t)

	info := put(t, s, "photos", "my holiday (1).png", []byte("x"))
	assert.Equal(t, "my_holiday__1_.png", info.Name)
	assert.FileExists(t, filepath.Join(root, "photos", "my_holiday__1_.png"))

	info = put(t, s, "photos", "../../escape.png", []byte("y"))
	assert.Equal(t, ".._.._escape.png", info.Name)
	assert.FileExists(t, filepath.Join(root, "photos", ".._.._escape.png"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "escape.png"))
}

func TestPutFile_TooLargeLeavesNothing(t *testing.T) {
	m := newRecordingMetrics()
	s, root := newTestStoreWith(t, nil, m)
	put(t, s, "photos", "keep.png", []byte("original"))

	t.Run("streamed", func(t *testing.T) {
		_, err := s.PutFile(context.Background(), PutInput{
			Folder:      "photos",
			File:        "big.png",
			ContentType: "image/png",
			Size:        -1,
			Body:        io.LimitReader(zeroReader{}, int64(upload.DefaultMaxSize)+1),
		})
		require.Error(t, err)
		assert.True(t, storeerrors.IsInvalidUpload(err))
		assert.Equal(t, "file too large", storeerrors.ReasonOf(err))
	})

	t.Run("declared", func(t *testing.T) {
		_, err := s.PutFile(context.Background(), PutInput{
			Folder:      "photos",
			File:        "keep.png",
			ContentType: "image/png",
			Size:        int64(upload.DefaultMaxSize) + 1,
			Body:        strings.NewReader("never read"),
		})
		assert.Equal(t, "file too large", storeerrors.ReasonOf(err))
	})

	assert.ElementsMatch(t, []string{"keep.png"}, rootEntries(t, filepath.Join(root, "photos")))
	assert.Equal(t, []byte("original"), readAll(t, s, "photos", "keep.png"))
	assert.Equal(t, []string{"file too large", "file too large"}, m.rejections)
}

func TestPutFile_ExactlyAtLimit(t *testing.T) {
	policy := upload.NewPolicy(upload.Config{MaxSize: 1024})
	s, _ := newTestStoreWith(t, policy, nil)

	_, err := s.PutFile(context.Background(), PutInput{
		Folder: "p", File: "a.png", ContentType: "image/png", Size: -1,
		Body: bytes.NewReader(make([]byte, 1024)),
	})
	require.NoError(t, err)

	_, err = s.PutFile(context.Background(), PutInput{
		Folder: "p", File: "b.png", ContentType: "image/png", Size: -1,
		Body: bytes.NewReader(make([]byte, 1025)),
	})
	assert.True(t, storeerrors.IsInvalidUpload(err))
}

func TestPutFile_TypeChecks(t *testing.T) {
	s, root := newTestStore(t)

	tests := []struct {
		name   string
		in     PutInput
		reason string
	}{
		{"text content with png name", PutInput{Folder: "photos", File: "a.png", ContentType: "text/plain"}, "invalid file type"},
		{"png content with txt name", PutInput{Folder: "photos", File: "a.txt", ContentType: "image/png"}, "invalid file type"},
		{"source name mismatch", PutInput{Folder: "photos", File: "a.png", SourceName: "evil.exe", ContentType: "image/png"}, "invalid file type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Size = -1
			tt.in.Body = strings.NewReader("payload")
			_, err := s.PutFile(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, storeerrors.IsInvalidUpload(err))
			assert.Equal(t, tt.reason, storeerrors.ReasonOf(err))
		})
	}

	// Rejected before the folder is created.
	assert.NoDirExists(t, filepath.Join(root, "photos"))
}

func TestPutFile_VerifyContent(t *testing.T) {
	policy := upload.NewPolicy(upload.Config{VerifyContent: true})
	s, _ := newTestStoreWith(t, policy, nil)

	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 100)...)
	_, err := s.PutFile(context.Background(), PutInput{
		Folder: "p", File: "ok.png", ContentType: "image/png", Size: -1, Body: bytes.NewReader(png),
	})
	require.NoError(t, err)
	assert.Equal(t, png, readAll(t, s, "p", "ok.png"))

	_, err = s.PutFile(context.Background(), PutInput{
		Folder: "p", File: "fake.png", ContentType: "image/png", Size: -1, Body: strings.NewReader("just text"),
	})
	assert.Equal(t, "invalid file type", storeerrors.ReasonOf(err))
}

func TestPutFile_CanceledContextCleansUp(t *testing.T) {
	s, root := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.PutFile(ctx, PutInput{
		Folder: "photos", File: "a.png", ContentType: "image/png", Size: -1,
		Body: strings.NewReader("data"),
	})
	require.Error(t, err)
	assert.True(t, storeerrors.IsInternal(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rootEntries(t, filepath.Join(root, "photos")))
}

func TestPutFile_InvalidNames(t *testing.T) {
	s, root := newTestStore(t)

	for _, in := range []PutInput{
		{Folder: "..", File: "a.png"},
		{Folder: "a/b", File: "a.png"},
		{Folder: "", File: "a.png"},
		{Folder: "photos", File: ".."},
		{Folder: "photos", File: ""},
		{Folder: "photos", File: ".filegate-abc.part"},
	} {
		t.Run(in.Folder+"|"+in.File, func(t *testing.T) {
			in.ContentType = "image/png"
			in.Size = -1
			in.Body = strings.NewReader("x")
			_, err := s.PutFile(context.Background(), in)
			assert.True(t, storeerrors.IsInvalidPath(err), "got %v", err)
		})
	}
	assert.Empty(t, rootEntries(t, root))
}

func TestPutFile_FolderIsAFile(t *testing.T) {
	s, root := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "taken"), []byte("x"), 0o644))

	_, err := s.PutFile(context.Background(), PutInput{
		Folder: "taken", File: "a.png", ContentType: "image/png", Size: -1, Body: strings.NewReader("x"),
	})
	assert.True(t, storeerrors.IsInvalidPath(err))
}

func TestPutFile_ConcurrentWritersLastWins(t *testing.T) {
	s, root := newTestStore(t)
	payloads := make([][]byte, 8)
	for i := range payloads {
		payloads[i] = bytes.Repeat([]byte{byte('a' + i)}, 64*1024)
	}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p []byte) {
			defer wg.Done()
			_, err := s.PutFile(context.Background(), PutInput{
				Folder: "race", File: "x.png", ContentType: "image/png", Size: -1, Body: bytes.NewReader(p),
			})
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()

	got := readAll(t, s, "race", "x.png")
	assert.Contains(t, payloads, got)
	assert.Equal(t, []string{"x.png"}, rootEntries(t, filepath.Join(root, "race")))
}

func TestReadOperations_InvalidPath(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	pairs := [][2]string{
		{"..", "etc"},
		{"photos", "../../etc/passwd"},
		{"/etc", "passwd"},
		{"photos", "/etc/passwd"},
		{"a\x00", "b"},
		{"photos", "."},
		{`..\..`, "x"},
	}
	for _, p := range pairs {
		t.Run(p[0]+"|"+p[1], func(t *testing.T) {
			_, err := s.GetFile(ctx, p[0], p[1])
			assert.True(t, storeerrors.IsInvalidPath(err), "GetFile: %v", err)
			_, err = s.StatFile(ctx, p[0], p[1])
			assert.True(t, storeerrors.IsInvalidPath(err), "StatFile: %v", err)
			err = s.DeleteFile(ctx, p[0], p[1])
			assert.True(t, storeerrors.IsInvalidPath(err), "DeleteFile: %v", err)
		})
	}

	for _, folder := range []string{"..", ".", "", "a/b", "/abs"} {
		_, err := s.ListFolder(ctx, folder)
		assert.True(t, storeerrors.IsInvalidPath(err), "ListFolder %q: %v", folder, err)
		_, err = s.StatFolder(ctx, folder)
		assert.True(t, storeerrors.IsInvalidPath(err), "StatFolder %q: %v", folder, err)
		err = s.DeleteFolder(ctx, folder)
		assert.True(t, storeerrors.IsInvalidPath(err), "DeleteFolder %q: %v", folder, err)
	}
}

func TestTypeMismatchIsNotFound(t *testing.T) {
	s, root := newTestStore(t)
	ctx := context.Background()
	put(t, s, "photos", "a.png", []byte("x"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "photos", "sub"), 0o755))

	_, err := s.GetFile(ctx, "photos", "sub")
	assert.True(t, storeerrors.IsNotFound(err))
	_, err = s.StatFile(ctx, "photos", "sub")
	assert.True(t, storeerrors.IsNotFound(err))
	assert.True(t, storeerrors.IsNotFound(s.DeleteFile(ctx, "photos", "sub")))
	assert.DirExists(t, filepath.Join(root, "photos", "sub"))

	require.NoError(t, os.WriteFile(filepath.Join(root, "plain"), []byte("x"), 0o644))
	_, err = s.ListFolder(ctx, "plain")
	assert.True(t, storeerrors.IsNotFound(err))
	_, err = s.StatFolder(ctx, "plain")
	assert.True(t, storeerrors.IsNotFound(err))
	assert.True(t, storeerrors.IsNotFound(s.DeleteFolder(ctx, "plain")))
	assert.FileExists(t, filepath.Join(root, "plain"))

	// A file name under a file is not a directory error, still NotFound.
	_, err = s.GetFile(ctx, "plain", "x.png")
	assert.True(t, storeerrors.IsNotFound(err))
}

func TestMissingTargetsAreNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetFile(ctx, "nope", "a.png")
	assert.True(t, storeerrors.IsNotFound(err))
	_, err = s.StatFile(ctx, "nope", "a.png")
	assert.True(t, storeerrors.IsNotFound(err))
	_, err = s.ListFolder(ctx, "nope")
	assert.True(t, storeerrors.IsNotFound(err))
	_, err = s.StatFolder(ctx, "nope")
	assert.True(t, storeerrors.IsNotFound(err))
	assert.True(t, storeerrors.IsNotFound(s.DeleteFile(ctx, "nope", "a.png")))
	assert.True(t, storeerrors.IsNotFound(s.DeleteFolder(ctx, "nope")))
}

func TestListFolder(t *testing.T) {
	s, root := newTestStore(t)
	ctx := context.Background()

	put(t, s, "docs", "b.png", []byte("b"))
	put(t, s, "docs", "a.png", []byte("a"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "nested", "deep.png"), []byte("d"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", ".filegate-1234.part"), []byte("partial"), 0o644))

	names, err := s.ListFolder(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png", "nested"}, names)

	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))
	names, err = s.ListFolder(ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestStatFolder_DirectChildrenOnly(t *testing.T) {
	s, root := newTestStore(t)
	ctx := context.Background()

	put(t, s, "docs", "a.png", make([]byte, 100))
	put(t, s, "docs", "b.png", make([]byte, 250))
	nested := filepath.Join(root, "docs", "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "deep.png"), make([]byte, 4000), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", ".filegate-x.part"), make([]byte, 999), 0o644))

	info, err := s.StatFolder(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, int64(350), info.Size)
	assert.Equal(t, 2, info.Files)
	assert.Equal(t, "docs", info.Name)
}

func TestDeleteFolder_Recursive(t *testing.T) {
	s, root := newTestStore(t)
	ctx := context.Background()

	put(t, s, "docs", "a.png", []byte("a"))
	deep := filepath.Join(root, "docs", "x", "y")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(deep, "z.png"), []byte("z"), 0o644))
	put(t, s, "other", "keep.png", []byte("k"))

	require.NoError(t, s.DeleteFolder(ctx, "docs"))

	_, err := s.ListFolder(ctx, "docs")
	assert.True(t, storeerrors.IsNotFound(err))
	_, err = s.StatFolder(ctx, "docs")
	assert.True(t, storeerrors.IsNotFound(err))
	assert.NoDirExists(t, filepath.Join(root, "docs"))
	assert.Equal(t, []byte("k"), readAll(t, s, "other", "keep.png"))
}

func TestSymlinkEscapeIsNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	s, root := newTestStore(t)
	ctx := context.Background()

	outside := filepath.Join(filepath.Dir(root), "secret.png")
	require.NoError(t, os.WriteFile(outside, []byte("top secret"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "photos"), 0o755))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "photos", "link.png")))
	require.NoError(t, os.Symlink(filepath.Dir(root), filepath.Join(root, "up")))

	_, err := s.GetFile(ctx, "photos", "link.png")
	assert.True(t, storeerrors.IsNotFound(err), "got %v", err)
	_, err = s.StatFile(ctx, "photos", "link.png")
	assert.True(t, storeerrors.IsNotFound(err), "got %v", err)
	_, err = s.ListFolder(ctx, "up")
	assert.True(t, storeerrors.IsNotFound(err), "got %v", err)

	// Deleting the link removes the link, not its target.
	require.NoError(t, s.DeleteFile(ctx, "photos", "link.png"))
	assert.FileExists(t, outside)
}

func TestMetricsObserved(t *testing.T) {
	m := newRecordingMetrics()
	s, _ := newTestStoreWith(t, nil, m)
	ctx := context.Background()

	put(t, s, "p", "a.png", make([]byte, 10))
	_ = readAll(t, s, "p", "a.png")
	_, err := s.StatFile(ctx, "p", "missing.png")
	require.Error(t, err)

	assert.Len(t, m.ops[OpPutFile], 1)
	assert.NoError(t, m.ops[OpPutFile][0])
	assert.Len(t, m.ops[OpStatFile], 1)
	assert.True(t, storeerrors.IsNotFound(m.ops[OpStatFile][0]))
	assert.Equal(t, int64(10), m.bytes[DirectionWrite])
	assert.Equal(t, int64(10), m.bytes[DirectionRead])
}
