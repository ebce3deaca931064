package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/unidoc/unipdf/v3/model"
)

// ErrWrongPassword is returned when the supplied password does not open an
// encrypted statement.
var ErrWrongPassword = errors.New("password does not unlock this PDF")

// IsEncrypted reports whether the PDF at path requires a password.
func IsEncrypted(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	reader, err := model.NewPdfReader(file)
	if err != nil {
		return false, fmt.Errorf("reading pdf: %w", err)
	}
	return reader.IsEncrypted()
}

// Unlock decrypts a password-protected PDF and returns a plaintext copy.
// Banks commonly lock e-statements with account-derived passwords; the text
// extractor cannot read those directly. The returned reader holds the whole
// decrypted document in memory, nothing is written back to disk.
func Unlock(path, password string) (io.Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader, err := model.NewPdfReader(file)
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}

	encrypted, err := reader.IsEncrypted()
	if err != nil {
		return nil, err
	}
	if encrypted {
		ok, err := reader.Decrypt([]byte(password))
		if err != nil {
			return nil, fmt.Errorf("decrypting pdf: %w", err)
		}
		if !ok {
			return nil, ErrWrongPassword
		}
	}

	writer := model.NewPdfWriter()
	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, err
	}
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if err := writer.AddPage(page); err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf); err != nil {
		return nil, err
	}
	return bytes.NewReader(buf.Bytes()), nil
}
