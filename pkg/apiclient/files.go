package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// FormField is the multipart field carrying an upload.
const FormField = "file"

// FileStat is the metadata the server reports for a file.
type FileStat struct {
	Folder       string    `json:"folder" yaml:"folder"`
	Name         string    `json:"name" yaml:"name"`
	Size         int64     `json:"size" yaml:"size"`
	ModTime      time.Time `json:"modified_at" yaml:"modified_at"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	ContentType  string    `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	CacheControl string    `json:"cache_control,omitempty" yaml:"cache_control,omitempty"`
}

func fileStatFrom(folder, file string, h http.Header) *FileStat {
	size, _ := strconv.ParseInt(h.Get("Content-Length"), 10, 64)
	return &FileStat{
		Folder:       folder,
		Name:         file,
		Size:         size,
		ModTime:      parseHTTPTime(h.Get("Last-Modified")),
		CreatedAt:    parseHTTPTime(h.Get("Created-At")),
		ContentType:  h.Get("Content-Type"),
		CacheControl: h.Get("Cache-Control"),
	}
}

// StatFile returns a file's metadata without downloading it.
func (c *Client) StatFile(ctx context.Context, folder, file string) (*FileStat, error) {
	h, err := headResource(ctx, c, folder, file)
	if err != nil {
		return nil, err
	}
	return fileStatFrom(folder, file, h), nil
}

// GetFile opens a download. The caller must close the returned reader.
func (c *Client) GetFile(ctx context.Context, folder, file string) (io.ReadCloser, *FileStat, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, folder, file)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Del("Accept")

	resp, err := c.send(req)
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, fileStatFrom(folder, file, resp.Header), nil
}

// DownloadFile copies a file into w and returns the number of bytes written.
func (c *Client) DownloadFile(ctx context.Context, folder, file string, w io.Writer) (int64, error) {
	body, _, err := c.GetFile(ctx, folder, file)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("download %s/%s: %w", folder, file, err)
	}
	return n, nil
}

// Upload describes one file upload.
type Upload struct {
	Folder string
	File   string

	// SourceName is the filename announced in the multipart part. It
	// defaults to File.
	SourceName string

	// ContentType is the media type of the part.
	ContentType string

	Body io.Reader
}

// PutFile uploads a file, replacing any existing file of the same name.
// The body is streamed; it is never held in memory as a whole.
func (c *Client) PutFile(ctx context.Context, in Upload) (*Message, error) {
	source := in.SourceName
	if source == "" {
		source = in.File
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeFilePart(mw, source, in.ContentType, in.Body))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, pr, in.Folder, in.File)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var msg Message
	if err := c.do(req, &msg); err != nil {
		_ = pr.Close()
		return nil, err
	}
	return &msg, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(mw *multipart.Writer, filename, contentType string, body io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FormField, quoteEscaper.Replace(filename)))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, body); err != nil {
		return err
	}
	return mw.Close()
}

// DeleteFile removes a file.
func (c *Client) DeleteFile(ctx context.Context, folder, file string) (*Message, error) {
	return deleteResource(ctx, c, folder, file)
}
