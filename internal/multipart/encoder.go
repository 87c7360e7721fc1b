package multipart

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"nexusraw/internal/progress"
)

// Encode serializes the manifest into a streamed multipart component
// body. For each file the body carries a raw.asset<N> part with the
// file content and a raw.asset<N>.filename part with the relative
// destination path, followed by a single raw.directory part (written
// even when the subdirectory is empty). The body is produced through a
// pipe so memory use is bounded regardless of payload size.
//
// File handles are opened one at a time inside the encoding goroutine
// and closed after each part, including when the reader side is closed
// early because the HTTP call failed. The sink receives file bytes as
// they are copied into the body.
func (m Manifest) Encode(sink progress.Sink) (io.ReadCloser, string) {
	if sink == nil {
		sink = progress.Discard
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		err := m.write(writer, sink)
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	return pr, writer.FormDataContentType()
}

func (m Manifest) write(writer *multipart.Writer, sink progress.Sink) error {
	for idx, entry := range m.Entries {
		if err := writeFilePart(writer, idx+1, entry, sink); err != nil {
			return err
		}

		field := fmt.Sprintf("raw.asset%d.filename", idx+1)
		if err := writer.WriteField(field, entry.RelPath); err != nil {
			return err
		}
	}

	return writer.WriteField("raw.directory", m.Subdir)
}

func writeFilePart(writer *multipart.Writer, n int, entry Entry, sink progress.Sink) error {
	f, err := os.Open(entry.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", entry.LocalPath, err)
	}
	defer f.Close()

	part, err := writer.CreatePart(filePartHeader(n, entry))
	if err != nil {
		return err
	}

	if _, err := io.Copy(part, io.TeeReader(f, progress.Writer(sink))); err != nil {
		return fmt.Errorf("failed to read %s: %w", entry.LocalPath, err)
	}
	return nil
}

func filePartHeader(n int, entry Entry) textproto.MIMEHeader {
	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(entry.LocalPath); err == nil {
		contentType = mt.String()
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="raw.asset%d"; filename="%s"`,
		n, escapeQuotes(filepath.Base(entry.LocalPath))))
	h.Set("Content-Type", contentType)
	return h
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
